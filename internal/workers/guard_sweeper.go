package workers

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	appcontext "modulos/pricing/pkg/context"
)

// Sweeper drops stale entries and returns how many it removed
type Sweeper interface {
	Sweep(now time.Time) int
}

// GuardSweeper periodically evicts idle clients from the login guard
type GuardSweeper struct {
	*BaseWorker
	sweeper  Sweeper
	interval time.Duration
	now      func() time.Time

	mu       sync.Mutex
	done     chan struct{}
	stop     chan struct{}
	stopOnce sync.Once
}

var _ Worker = (*GuardSweeper)(nil)

// NewGuardSweeper creates a sweeper that runs every interval
func NewGuardSweeper(sweeper Sweeper, interval time.Duration, logger *zap.Logger) *GuardSweeper {
	return &GuardSweeper{
		BaseWorker: NewBaseWorker("login-guard-sweeper", logger),
		sweeper:    sweeper,
		interval:   interval,
		now:        time.Now,
		stop:       make(chan struct{}),
	}
}

// Start runs the sweep loop until ctx is cancelled or Stop is called. A
// sweeper stopped before Start returns context.Canceled without looping.
func (w *GuardSweeper) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.done != nil {
		w.mu.Unlock()
		return errors.New("sweeper already started")
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	select {
	case <-w.stop:
		cancel()
	default:
	}
	go func() {
		select {
		case <-w.stop:
			cancel()
		case <-ctx.Done():
		}
	}()
	done := make(chan struct{})
	w.done = done
	w.mu.Unlock()
	defer close(done)

	w.Logger.Info("Starting login guard sweeper", zap.Duration("interval", w.interval))

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		if appcontext.IsCancelled(ctx) {
			w.Logger.Info("Login guard sweeper stopped")
			return ctx.Err()
		}
		select {
		case <-ctx.Done():
			w.Logger.Info("Login guard sweeper stopped")
			return ctx.Err()
		case <-ticker.C:
			if removed := w.sweeper.Sweep(w.now()); removed > 0 {
				w.Logger.Debug("Swept idle login clients", zap.Int("removed", removed))
			}
		}
	}
}

// Stop cancels the loop and waits for it to exit or ctx to expire
func (w *GuardSweeper) Stop(ctx context.Context) error {
	w.stopOnce.Do(func() { close(w.stop) })

	w.mu.Lock()
	done := w.done
	w.mu.Unlock()

	if done == nil {
		return nil
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
