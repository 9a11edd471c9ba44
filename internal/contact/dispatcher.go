package contact

import (
	"context"
	"log/slog"
	"time"
)

// Dispatcher periodically retries notifications that have not been delivered.
type Dispatcher struct {
	svc      *Service
	interval time.Duration
	logger   *slog.Logger
}

// NewDispatcher retries every interval, defaulting to one minute.
func NewDispatcher(svc *Service, interval time.Duration, logger *slog.Logger) *Dispatcher {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Dispatcher{svc: svc, interval: interval, logger: logger}
}

// Run blocks until ctx is cancelled.
func (d *Dispatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	d.logger.Info("notification dispatcher started", "interval", d.interval)
	for {
		select {
		case <-ctx.Done():
			d.logger.Info("notification dispatcher stopped")
			return
		case <-ticker.C:
			n, err := d.svc.RetryPending(ctx)
			if err != nil && ctx.Err() == nil {
				d.logger.Error("notification retry pass failed", "err", err)
				continue
			}
			if n > 0 {
				d.logger.Info("notifications delivered on retry", "count", n)
			}
		}
	}
}
