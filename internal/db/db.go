// Package db persists the ledger as a single document and serializes every
// read-modify-write cycle against it.
package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/arzan03/CondoLedger/internal/models"
)

// ErrStoreUnavailable is returned when the document cannot be read, decoded or written.
var ErrStoreUnavailable = errors.New("ledger store unavailable")

// Backend loads and saves the complete ledger document. Save must never leave
// a partially written document behind.
type Backend interface {
	Load(ctx context.Context) (*models.Ledger, error)
	Save(ctx context.Context, l *models.Ledger) error
	Close(ctx context.Context) error
}

type DB struct {
	mu      sync.RWMutex
	backend Backend
}

func New(backend Backend) *DB {
	return &DB{backend: backend}
}

func (d *DB) load(ctx context.Context) (*models.Ledger, error) {
	l, err := d.backend.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	l.Normalize()
	return l, nil
}

// Update loads the document, applies fn and saves the result. The document is
// only saved when fn succeeds. Concurrent Update calls never interleave.
func (d *DB) Update(ctx context.Context, fn func(*models.Ledger) error) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	l, err := d.load(ctx)
	if err != nil {
		return err
	}
	if err := fn(l); err != nil {
		return err
	}
	if err := d.backend.Save(ctx, l); err != nil {
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	return nil
}

// View loads the document and passes it to fn. Changes made by fn are discarded.
func (d *DB) View(ctx context.Context, fn func(*models.Ledger) error) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	l, err := d.load(ctx)
	if err != nil {
		return err
	}
	return fn(l)
}

// Snapshot returns the current document encoded the way the file backend stores it.
func (d *DB) Snapshot(ctx context.Context) ([]byte, error) {
	var out []byte
	err := d.View(ctx, func(l *models.Ledger) error {
		b, err := json.MarshalIndent(l, "", "  ")
		if err != nil {
			return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
		}
		out = b
		return nil
	})
	return out, err
}

func (d *DB) Close(ctx context.Context) error {
	return d.backend.Close(ctx)
}

// NextID returns the next id for kind and advances the counter. The counter is
// never allowed to fall at or below an id already present in the collection.
func NextID(l *models.Ledger, kind string) int {
	if l.Meta.NextIDs == nil {
		l.Meta.NextIDs = map[string]int{}
	}
	next := l.Meta.NextIDs[kind]
	if floor := l.MaxID(kind) + 1; next < floor {
		next = floor
	}
	l.Meta.NextIDs[kind] = next + 1
	return next
}
