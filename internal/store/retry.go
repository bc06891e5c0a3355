package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"io"
	"net"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"supplier-inventory-api/internal/apperror"
)

// RetryPolicy retries store operations that fail with a transient
// communication error, backing off exponentially between attempts. It is the
// single retry entry point for the postgres stores; validation and not-found
// errors pass through untouched.
type RetryPolicy struct {
	MaxAttempts   int
	InitialDelay  time.Duration
	BackoffFactor float64
}

// DefaultRetryPolicy mirrors the service's historical tuning.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:   10,
		InitialDelay:  time.Second,
		BackoffFactor: 2,
	}
}

// Do runs op, retrying transient failures up to MaxAttempts. The last error
// is returned after the budget is exhausted. Context cancellation aborts the
// wait between attempts.
func (p RetryPolicy) Do(ctx context.Context, op func() error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	delay := p.InitialDelay

	var err error
	for i := 0; i < attempts; i++ {
		if err = op(); err == nil {
			return nil
		}
		if !IsTransient(err) {
			return err
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		if p.BackoffFactor > 0 {
			delay = time.Duration(float64(delay) * p.BackoffFactor)
		}
	}
	return apperror.Transient(err)
}

// IsTransient classifies communication failures with the backing store.
// Anything the caller did wrong (validation, not found, constraint
// violations) is not transient.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, apperror.ErrTransient) {
		return true
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) || errors.Is(err, io.EOF) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// Class 08: connection exceptions.
		return strings.HasPrefix(pgErr.Code, "08")
	}
	return pgconn.SafeToRetry(err)
}
