package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron"
)

// DefaultPollInterval is how often the backend is polled when not configured.
const DefaultPollInterval = 10 * time.Second

// Refresher is what a Poller drives.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Poller runs Refresh on a fixed interval. A tick that arrives while a
// refresh is still running is skipped.
type Poller struct {
	target   Refresher
	interval time.Duration
	log      *slog.Logger

	cron    *cron.Cron
	ctx     context.Context
	cancel  context.CancelFunc
	running atomic.Bool
	skipped atomic.Int64

	mu      sync.Mutex
	stopped bool
	wg      sync.WaitGroup
}

// NewPoller creates a Poller; a non-positive interval uses the default.
func NewPoller(target Refresher, interval time.Duration, log *slog.Logger) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Poller{target: target, interval: interval, log: log}
}

// Start runs one refresh immediately and then schedules the rest.
func (p *Poller) Start(ctx context.Context) error {
	p.ctx, p.cancel = context.WithCancel(ctx)
	p.cron = cron.New()
	if err := p.cron.AddFunc(fmt.Sprintf("@every %s", p.interval), p.tick); err != nil {
		p.cancel()
		return fmt.Errorf("scheduling refresh: %w", err)
	}
	p.tick()
	p.cron.Start()
	p.log.Info("poller started", "interval", p.interval.String())
	return nil
}

// Stop stops scheduling, cancels the context of a running refresh and
// waits for it to return.
func (p *Poller) Stop() {
	if p.cron != nil {
		p.cron.Stop()
	}
	if p.cancel != nil {
		p.cancel()
	}
	p.mu.Lock()
	p.stopped = true
	p.mu.Unlock()
	p.wg.Wait()
	p.log.Info("poller stopped", "skipped", p.skipped.Load())
}

func (p *Poller) tick() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped {
		return
	}
	if !p.running.CompareAndSwap(false, true) {
		p.skipped.Add(1)
		return
	}
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer p.running.Store(false)
		if err := p.target.Refresh(p.ctx); err != nil {
			p.log.Debug("scheduled refresh failed", "error", err)
		}
	}()
}
