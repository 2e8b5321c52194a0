// Package loop drives named gameplay contexts at a fixed frame rate. Each
// context runs in its own goroutine paced by a rate limiter; suspension
// freezes the frame clock entirely, so a paused context advances no game
// time at all.
package loop

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// StepFunc advances a context by one frame. dt is the fixed frame interval;
// errors are logged and do not stop the loop.
type StepFunc func(ctx context.Context, dt time.Duration) error

type loopContext struct {
	name    string
	step    StepFunc
	running bool
	gen     int // bumped per Start so a dying goroutine can't clobber a restart
	cancel  context.CancelFunc
	gate    chan struct{} // non-nil while suspended; closed on resume
}

// Runner owns the frame goroutines.
type Runner struct {
	logger   *slog.Logger
	hz       float64
	interval time.Duration

	mu       sync.Mutex
	contexts map[string]*loopContext
	wg       sync.WaitGroup
}

// New creates a runner stepping hz frames per second.
func New(logger *slog.Logger, hz float64) *Runner {
	return &Runner{
		logger:   logger,
		hz:       hz,
		interval: time.Duration(float64(time.Second) / hz),
		contexts: make(map[string]*loopContext),
	}
}

// Register adds a named context. It does not start running until Start.
func (r *Runner) Register(name string, step StepFunc) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.contexts[name]; exists {
		return fmt.Errorf("loop context %q already registered", name)
	}
	r.contexts[name] = &loopContext{name: name, step: step}
	return nil
}

// Start launches the named context's frame goroutine. Starting a context
// that is already running is a no-op; both report true. Unknown names
// report false.
func (r *Runner) Start(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.contexts[name]
	if !ok {
		return false
	}
	if c.running {
		return true
	}

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.gate = nil
	c.running = true
	c.gen++

	r.wg.Add(1)
	go r.run(ctx, c, c.gen)

	r.logger.Info("loop context started", slog.String("context", name))
	return true
}

// run paces the context's frames until its context is canceled.
func (r *Runner) run(ctx context.Context, c *loopContext, gen int) {
	defer r.wg.Done()
	defer func() {
		r.mu.Lock()
		if c.gen == gen {
			c.running = false
		}
		r.mu.Unlock()
	}()

	limiter := rate.NewLimiter(rate.Limit(r.hz), 1)
	for {
		if err := limiter.Wait(ctx); err != nil {
			return
		}

		r.mu.Lock()
		gate := c.gate
		r.mu.Unlock()
		if gate != nil {
			select {
			case <-gate:
				// Resumed; pick pacing back up on the next Wait.
				continue
			case <-ctx.Done():
				return
			}
		}

		if err := c.step(ctx, r.interval); err != nil {
			r.logger.Warn("loop step failed",
				slog.String("context", c.name),
				slog.Any("error", err),
			)
		}
	}
}

// Suspend freezes the named context before its next frame. Reports whether a
// running, unsuspended context was found.
func (r *Runner) Suspend(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.contexts[name]
	if !ok || !c.running || c.gate != nil {
		return false
	}
	c.gate = make(chan struct{})
	r.logger.Info("loop context suspended", slog.String("context", name))
	return true
}

// Resume releases a suspended context.
func (r *Runner) Resume(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.contexts[name]
	if !ok || c.gate == nil {
		return false
	}
	close(c.gate)
	c.gate = nil
	r.logger.Info("loop context resumed", slog.String("context", name))
	return true
}

// Stop tears the named context down. It stays registered and can be started
// again later.
func (r *Runner) Stop(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.contexts[name]
	if !ok || !c.running {
		return false
	}
	if c.gate != nil {
		close(c.gate)
		c.gate = nil
	}
	c.cancel()
	c.running = false
	r.logger.Info("loop context stopped", slog.String("context", name))
	return true
}

// Running reports whether the named context currently has a frame goroutine.
func (r *Runner) Running(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.contexts[name]
	return ok && c.running
}

// Suspended reports whether the named context is frozen.
func (r *Runner) Suspended(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.contexts[name]
	return ok && c.gate != nil
}

// StopAll stops every context and waits for the frame goroutines to exit.
func (r *Runner) StopAll() {
	r.mu.Lock()
	for _, c := range r.contexts {
		if !c.running {
			continue
		}
		if c.gate != nil {
			close(c.gate)
			c.gate = nil
		}
		c.cancel()
		c.running = false
	}
	r.mu.Unlock()
	r.wg.Wait()
}
