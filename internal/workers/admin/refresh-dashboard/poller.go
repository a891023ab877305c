package refreshdashboard

import (
	"context"
	"time"

	"sme-predictor/internal/common/logger"
)

// Poller refreshes the dashboard on start and then on every tick.
type Poller struct {
	handler  *Handler
	interval time.Duration
	logger   logger.Logger
	onUpdate func(*Snapshot)
}

func NewPoller(h *Handler) *Poller {
	return &Poller{
		handler:  h,
		interval: h.config.RefreshInterval,
		logger:   h.logger,
	}
}

// OnUpdate registers fn to receive the current snapshot after each
// successful tick.
func (p *Poller) OnUpdate(fn func(*Snapshot)) *Poller {
	p.onUpdate = fn
	return p
}

// Run blocks until ctx is done. Refresh errors are logged and polling
// continues.
func (p *Poller) Run(ctx context.Context) error {
	p.logger.Info("dashboard poller started", map[string]interface{}{"interval": p.interval.String()})

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.refresh(ctx)
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("dashboard poller stopped", nil)
			return nil
		case <-ticker.C:
			p.refresh(ctx)
		}
	}
}

func (p *Poller) refresh(ctx context.Context) {
	snap, err := p.handler.Refresh(ctx)
	if err != nil {
		if ctx.Err() == nil {
			p.logger.Error("scheduled dashboard refresh failed", map[string]interface{}{"error": err.Error()})
		}
		return
	}
	if p.onUpdate != nil && snap != nil {
		p.onUpdate(snap)
	}
}
