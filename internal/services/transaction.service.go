package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"towerdb/internal/database"
	"towerdb/pkg/logger"

	"gorm.io/gorm"
)

const (
	TX_MAX_ATTEMPTS = 3
	TX_RETRY_DELAY  = 50 * time.Millisecond
)

// Postgres aborts one side of a conflicting pair with these codes; the work
// is safe to run again from the start.
var retryableSQLStates = map[string]bool{
	"40001": true, // serialization_failure
	"40P01": true, // deadlock_detected
}

// TxFunc is the unit of work run inside a transaction. It must be safe to
// call more than once.
type TxFunc func(ctx context.Context, tx *gorm.DB) error

type TransactionService struct {
	db          database.DB
	log         logger.Logger
	maxAttempts int
	retryDelay  time.Duration
}

func NewTransactionService(db database.DB) *TransactionService {
	return &TransactionService{
		db:          db,
		log:         logger.New("TransactionService"),
		maxAttempts: TX_MAX_ATTEMPTS,
		retryDelay:  TX_RETRY_DELAY,
	}
}

// Execute runs fn in a transaction, committing on nil. Errors from fn roll the
// transaction back and are returned unchanged. A reload racing an admin edit
// can lose a serialization check, in which case fn is run again.
func (ts *TransactionService) Execute(ctx context.Context, fn TxFunc) error {
	log := ts.log.TraceFromContext(ctx).Function("Execute")

	var err error
	for attempt := 1; attempt <= ts.maxAttempts; attempt++ {
		err = ts.runOnce(ctx, log, fn)
		if err == nil || !isRetryable(err) || attempt == ts.maxAttempts {
			return err
		}

		log.Warn("transaction conflict, retrying", "attempt", attempt, "error", err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * ts.retryDelay):
		}
	}
	return err
}

func (ts *TransactionService) runOnce(ctx context.Context, log logger.Logger, fn TxFunc) (err error) {
	tx := ts.db.SQLWithContext(ctx).Begin()
	if tx.Error != nil {
		return log.Err("failed to begin transaction", tx.Error)
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		r := recover()
		if rbErr := tx.Rollback().Error; rbErr != nil {
			if r != nil {
				panic(fmt.Sprintf("rollback failed after panic %v: %v", r, rbErr))
			}
			log.Er("rollback failed", rbErr, "cause", err)
			err = errors.Join(err, rbErr)
		}
		if r != nil {
			err = log.ErrMsg(fmt.Sprintf("panic during transaction: %v", r))
		}
	}()

	if err = fn(ctx, tx); err != nil {
		return err
	}

	if err = tx.Commit().Error; err != nil {
		committed = true
		return log.Err("failed to commit transaction", err)
	}
	committed = true
	return nil
}

func isRetryable(err error) bool {
	var coded interface{ SQLState() string }
	if errors.As(err, &coded) {
		return retryableSQLStates[coded.SQLState()]
	}
	return false
}
