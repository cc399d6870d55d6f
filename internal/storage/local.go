// Package storage holds the backup targets for ledger snapshots.
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// LocalSink writes backups into a directory on disk.
type LocalSink struct {
	dir string
}

func NewLocalSink(dir string) *LocalSink {
	return &LocalSink{dir: dir}
}

func (s *LocalSink) Name() string { return "local:" + s.dir }

func (s *LocalSink) Write(ctx context.Context, name string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if name != filepath.Base(name) {
		return fmt.Errorf("invalid backup name %q", name)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.dir, name), data, 0o600)
}
