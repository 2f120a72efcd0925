package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nimasrn/chit-ledger/pkg/logger"
	"github.com/nimasrn/chit-ledger/pkg/pg"
	"github.com/nimasrn/chit-ledger/pkg/prom"
	"gorm.io/gorm"
)

// WriteOp is one named write inside an atomic batch. The set of ops is closed;
// each one touches a fixed list of columns.
type WriteOp interface {
	Name() string
	apply(tx *gorm.DB) error
}

// BatchError reports which op of a batch failed. The whole batch was rolled
// back.
type BatchError struct {
	Index int
	Op    string
	Err   error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("batch op %d (%s): %v", e.Index, e.Op, e.Err)
}

func (e *BatchError) Unwrap() error { return e.Err }

type Store struct {
	*pg.DB
}

func NewStore(db *pg.DB) *Store {
	return &Store{db}
}

// ExecBatch applies ops in order inside one transaction. Either every op is
// committed or none is.
func (s *Store) ExecBatch(ctx context.Context, ops ...WriteOp) error {
	start := time.Now()
	err := s.WithinTransaction(ctx, func(ctx context.Context) error {
		tx := s.Write(ctx)
		for i, op := range ops {
			if err := op.apply(tx); err != nil {
				return &BatchError{Index: i, Op: op.Name(), Err: translate(err)}
			}
		}
		return nil
	})

	elapsed := time.Since(start).Seconds()
	if err != nil {
		failed := "commit"
		var be *BatchError
		if errors.As(err, &be) {
			failed = be.Op
		} else {
			err = translate(err)
		}
		prom.ObserveBatch(elapsed, failed)
		logger.Warn("write batch rolled back", "ops", len(ops), "failed_op", failed, "error", err)
		return err
	}
	prom.ObserveBatch(elapsed, "")
	return nil
}

// guarded turns a zero-row update into a conflict.
func guarded(res *gorm.DB, what string) error {
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrConflict, what)
	}
	return nil
}
