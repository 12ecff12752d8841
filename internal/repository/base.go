// Package repository provides data access interfaces and GORM implementations.
package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

const (
	readRetryAttempts = 2
	readRetryBackoff  = 50 * time.Millisecond
)

// withReadRetry retries an idempotent read once on transient failure. Writes
// never pass through here: retrying a write without an idempotency key can
// duplicate data.
func withReadRetry(ctx context.Context, op func() error) error {
	var err error
	for attempt := 0; attempt < readRetryAttempts; attempt++ {
		err = op()
		if err == nil || errors.Is(err, gorm.ErrRecordNotFound) || ctx.Err() != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return err
		case <-time.After(readRetryBackoff):
		}
	}
	return err
}
