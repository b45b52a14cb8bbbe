// Package connectivity turns reachability of the remote service into an
// online/offline mode the rest of the core can query and subscribe to.
package connectivity

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/udclean/udc/internal/bus"
	"go.uber.org/zap"
)

const probeTimeout = 5 * time.Second

// Monitor probes the remote service's health endpoint on a fixed cadence
// and publishes net.online / net.offline bus events on transitions.
type Monitor struct {
	probeURL string
	interval time.Duration
	client   *http.Client
	bus      *bus.Bus
	logger   *zap.Logger

	online atomic.Bool
	cancel context.CancelFunc
}

// NewMonitor creates a monitor probing probeURL every interval. The
// monitor starts offline until the first successful probe.
func NewMonitor(probeURL string, interval time.Duration, b *bus.Bus, logger *zap.Logger) *Monitor {
	return &Monitor{
		probeURL: probeURL,
		interval: interval,
		client:   &http.Client{Timeout: probeTimeout},
		bus:      b,
		logger:   logger,
	}
}

// Online reports the last observed connectivity state. Pure query, no
// side effect.
func (m *Monitor) Online() bool {
	return m.online.Load()
}

// Start probes once immediately, then on every tick.
func (m *Monitor) Start(ctx context.Context) {
	ctx, m.cancel = context.WithCancel(ctx)
	go func() {
		m.check(ctx)
		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				m.check(ctx)
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop ends the probe loop.
func (m *Monitor) Stop() {
	if m.cancel != nil {
		m.cancel()
	}
}

func (m *Monitor) check(ctx context.Context) {
	now := m.probe(ctx)
	was := m.online.Swap(now)
	if was == now {
		return
	}
	if now {
		m.logger.Info("connectivity restored")
		m.bus.Emit(bus.KindOnline, nil)
	} else {
		m.logger.Warn("connectivity lost")
		m.bus.Emit(bus.KindOffline, nil)
	}
}

func (m *Monitor) probe(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, m.probeURL, nil)
	if err != nil {
		return false
	}
	resp, err := m.client.Do(req)
	if err != nil {
		return false
	}
	_ = resp.Body.Close()
	return resp.StatusCode < http.StatusInternalServerError
}
