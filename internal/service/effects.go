package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// DefaultEffectTimeout bounds a best-effort effect when none is configured
const DefaultEffectTimeout = 5 * time.Second

// Effects runs named best-effort tasks that must never block or fail the
// request that triggered them. Failures are logged at warn level.
type Effects struct {
	logger  *slog.Logger
	timeout time.Duration
	wg      sync.WaitGroup
}

// NewEffects creates an effect runner
func NewEffects(logger *slog.Logger, timeout time.Duration) *Effects {
	if timeout <= 0 {
		timeout = DefaultEffectTimeout
	}
	return &Effects{logger: logger, timeout: timeout}
}

// Go starts fn on its own goroutine. The context keeps the caller's values
// but not its cancellation, so the effect outlives the request.
func (e *Effects) Go(ctx context.Context, name string, fn func(ctx context.Context) error) {
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				e.logger.Error("best-effort effect panicked", "effect", name, "panic", fmt.Sprint(r))
			}
		}()

		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.timeout)
		defer cancel()

		if err := fn(ctx); err != nil {
			e.logger.Warn("best-effort effect failed", "effect", name, "error", err)
		}
	}()
}

// Wait blocks until every started effect has finished or ctx is done
func (e *Effects) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for effects: %w", ctx.Err())
	}
}
