// Package services implements the ledger operations: users, apartments, dues,
// payments, expenses, announcements, reports and backups.
package services

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/arzan03/CondoLedger/internal/db"
	"github.com/arzan03/CondoLedger/internal/logging"
)

const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

type Ledger struct {
	store    *db.DB
	log      *logrus.Logger
	now      func() time.Time
	hashCost int
	sinks    []BackupSink

	dummyOnce sync.Once
	dummy     []byte
}

type Option func(*Ledger)

func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

func WithLogger(log *logrus.Logger) Option {
	return func(l *Ledger) { l.log = log }
}

// WithHashCost overrides the bcrypt cost used for new password hashes.
func WithHashCost(cost int) Option {
	return func(l *Ledger) { l.hashCost = cost }
}

func WithBackupSinks(sinks ...BackupSink) Option {
	return func(l *Ledger) { l.sinks = append(l.sinks, sinks...) }
}

func NewLedger(store *db.DB, opts ...Option) *Ledger {
	l := &Ledger{
		store:    store,
		log:      logging.Discard(),
		now:      time.Now,
		hashCost: bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}
