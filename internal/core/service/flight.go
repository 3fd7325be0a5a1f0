package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"

	"golang.org/x/sync/singleflight"

	"github.com/yndnr/expense-tracker/internal/core/domain"
)

// flightKey identifies duplicate submissions of one credential without
// keeping the password itself as a map key.
func flightKey(cred domain.Credential) string {
	sum := sha256.Sum256([]byte(cred.Email + "\x00" + cred.Password))
	return hex.EncodeToString(sum[:])
}

// shareCall runs fn once for all concurrent callers with the same key. The
// shared run ignores cancellation of whichever caller started it but keeps
// that caller's deadline. Each caller stops waiting when its own ctx ends.
func shareCall[T any](ctx context.Context, g *singleflight.Group, key string, fn func(context.Context) (T, error)) (T, bool, error) {
	ch := g.DoChan(key, func() (any, error) {
		callCtx, cancel := detach(ctx)
		defer cancel()
		return fn(callCtx)
	})

	select {
	case r := <-ch:
		v, _ := r.Val.(T)
		return v, r.Shared, r.Err
	case <-ctx.Done():
		var zero T
		return zero, false, waitError(ctx.Err())
	}
}

func detach(ctx context.Context) (context.Context, context.CancelFunc) {
	base := context.WithoutCancel(ctx)
	if dl, ok := ctx.Deadline(); ok {
		return context.WithDeadline(base, dl)
	}
	return context.WithCancel(base)
}

func waitError(err error) error {
	details := "request cancelled"
	if errors.Is(err, context.DeadlineExceeded) {
		details = "request timed out"
	}
	return domain.ErrTransport.WithDetails(details).WithCause(err)
}
