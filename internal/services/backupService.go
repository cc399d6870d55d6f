package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/robfig/cron/v3"

	"github.com/arzan03/CondoLedger/internal/metrics"
	"github.com/arzan03/CondoLedger/internal/utils"
)

const (
	BackupPrefixManual = "db"
	BackupPrefixAuto   = "auto-db"
)

// BackupSink stores a copy of the ledger document under a file name.
type BackupSink interface {
	Name() string
	Write(ctx context.Context, name string, data []byte) error
}

var ErrNoBackupSink = newError(KindInternal, "no backup target configured")

func (l *Ledger) backupName(prefix string) string {
	now := l.now()
	return fmt.Sprintf("%s-%s-%d.json", prefix, now.UTC().Format("20060102"), now.UnixMilli())
}

// RunBackup copies the current document to every sink and returns the file
// name used. It succeeds when at least one sink accepted the copy.
func (l *Ledger) RunBackup(ctx context.Context, prefix string) (name string, err error) {
	trigger := "manual"
	if prefix == BackupPrefixAuto {
		trigger = "auto"
	}
	defer func() {
		outcome := "success"
		if err != nil {
			outcome = "failure"
		}
		metrics.Backups.WithLabelValues(trigger, outcome).Inc()
	}()

	if len(l.sinks) == 0 {
		return "", ErrNoBackupSink
	}
	data, err := l.store.Snapshot(ctx)
	if err != nil {
		return "", err
	}
	name = l.backupName(prefix)

	tasks := make([]utils.ParallelTask[string], 0, len(l.sinks))
	for _, sink := range l.sinks {
		sink := sink
		tasks = append(tasks, func(ctx context.Context) (string, error) {
			if err := sink.Write(ctx, name, data); err != nil {
				return sink.Name(), fmt.Errorf("%s: %w", sink.Name(), err)
			}
			return sink.Name(), nil
		})
	}
	targets, errs := utils.RunParallelTasks(ctx, tasks)

	var failed []error
	for i, e := range errs {
		if e != nil {
			l.log.WithError(e).WithField("sink", targets[i]).Warn("backup target failed")
			failed = append(failed, e)
		}
	}
	if len(failed) == len(tasks) {
		return "", &Error{Kind: KindInternal, Message: "backup failed", Err: errors.Join(failed...)}
	}

	l.log.WithField("file", name).WithField("trigger", trigger).Info("backup created")
	return name, nil
}

// ScheduleBackups starts a cron scheduler running automatic backups on schedule
// (for example "@every 24h"). The caller stops the returned scheduler.
func (l *Ledger) ScheduleBackups(schedule string) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		if _, err := l.RunBackup(context.Background(), BackupPrefixAuto); err != nil {
			l.log.WithError(err).Warn("automatic backup failed")
		}
	})
	if err != nil {
		return nil, fmt.Errorf("backup schedule %q: %w", schedule, err)
	}
	c.Start()
	return c, nil
}
