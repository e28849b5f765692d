package mailbox

import (
	"context"
	"sync"
	"time"

	"github.com/underground-railroad/railroad/crypto"
	"github.com/underground-railroad/railroad/interfaces"
	"github.com/underground-railroad/railroad/internal/logging"
)

// DefaultPollInterval is how often a Poller drains its identity's
// mailbox absent an explicit override.
const DefaultPollInterval = 30 * time.Second

// Handler is invoked once per drained message, in subkey order.
type Handler func(d Drained)

// Poller runs a single identity's mailbox poll on a fixed interval. Each
// tick is one poll, never overlapped with itself — a slow overlay poll
// simply delays the next tick rather than stacking concurrent polls.
type Poller struct {
	rctx       interfaces.RoutingContext
	descriptor interfaces.Descriptor
	recipient  *crypto.HybridKeyPair
	verify     VerifierFunc
	interval   time.Duration
	handler    Handler

	mu       sync.Mutex
	stopChan chan struct{}
	stopped  bool
}

// NewPoller constructs a Poller for one identity's mailbox. interval <=
// 0 selects DefaultPollInterval.
func NewPoller(rctx interfaces.RoutingContext, descriptor interfaces.Descriptor, recipient *crypto.HybridKeyPair, verify VerifierFunc, interval time.Duration, handler Handler) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Poller{
		rctx:       rctx,
		descriptor: descriptor,
		recipient:  recipient,
		verify:     verify,
		interval:   interval,
		handler:    handler,
		stopChan:   make(chan struct{}),
	}
}

// Run blocks, polling on Poller's interval until ctx is cancelled or
// Stop is called. Callers typically invoke this in its own goroutine.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.pollOnce(ctx)
		case <-p.stopChan:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (p *Poller) pollOnce(ctx context.Context) {
	drained, err := Poll(ctx, p.rctx, p.descriptor, p.recipient, p.verify)
	if err != nil {
		logging.New("mailbox", "Poller.pollOnce").WithError(err, "network", "poll").Warn("mailbox poll failed")
		return
	}
	for _, d := range drained {
		if p.handler != nil {
			p.handler(d)
		}
	}
}

// Stop ends Run's loop; idempotent.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped {
		return
	}
	p.stopped = true
	close(p.stopChan)
}
