// Package store is the access layer: one method per logical operation, each
// backed by a single query against the relational store.
package store

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	// ErrNotFound reports that no row matched. It is an expected outcome,
	// not a store failure.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate reports a unique constraint violation.
	ErrDuplicate = errors.New("duplicate record")
)

// Store wraps the gorm connection pool. It holds no other state, so a single
// value can be shared by all handlers.
type Store struct {
	db  *gorm.DB
	log *zap.Logger
}

func New(db *gorm.DB, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{db: db, log: log}
}

// WithContext returns a store bound to ctx. Every statement issued through it
// takes a pooled connection for the duration of the statement and gives it
// back afterwards, and is cancelled with ctx.
func (s *Store) WithContext(ctx context.Context) *Store {
	return &Store{db: s.db.WithContext(ctx), log: s.log}
}

// Ping checks the store answers a trivial query.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.WithContext(ctx).Exec("SELECT 1").Error
}

// wrap maps gorm errors onto the store's sentinels and tags anything else
// with the failing operation.
func wrap(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("store: %s: %w", op, ErrNotFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("store: %s: %w", op, ErrDuplicate)
	default:
		return fmt.Errorf("store: %s: %w", op, err)
	}
}
