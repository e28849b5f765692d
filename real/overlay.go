// Package real provides the production OverlayClient implementation:
// a lifecycle-guarded, rate-limited wrapper around a low-level overlay
// Driver supplied by the host application.
//
// The overlay network itself (Kademlia-style routing, NAT traversal,
// multi-hop anonymity) is an external collaborator outside this module's
// scope; OverlayClient only adds the lifecycle state machine, call
// pacing, and bounded concurrency this system requires on top of it.
package real

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"github.com/underground-railroad/railroad/interfaces"
	"github.com/underground-railroad/railroad/internal/logging"
)

// Driver is the low-level overlay connection a real deployment plugs in:
// a thin binding over whatever anonymous DHT-capable transport the host
// application embeds. OverlayClient adds lifecycle, pacing, and
// concurrency control on top; it performs no I/O of its own.
type Driver interface {
	Connect(ctx context.Context) error
	Disconnect(ctx context.Context) error
	CreateDHTRecord(ctx context.Context, schema interfaces.Schema, kind string) (interfaces.Descriptor, error)
	SetDHTValue(ctx context.Context, desc interfaces.Descriptor, subkey int, value []byte, writer []byte) error
	GetDHTValue(ctx context.Context, desc interfaces.Descriptor, subkey int, forceRefresh bool) (*interfaces.ValueData, error)
	DeleteDHTRecord(ctx context.Context, desc interfaces.Descriptor) error
	AppCall(ctx context.Context, target interfaces.Target, payload []byte) ([]byte, error)
	AppMessage(ctx context.Context, target interfaces.Target, payload []byte) error
	ParseAsTarget(handle string) (interfaces.Target, error)
}

// OverlayClient is the production implementation of
// interfaces.OverlayClient. It guards Driver calls with the lifecycle
// state machine, caps concurrent app-call/message dispatch at
// interfaces.MaxInFlightSends, and paces DHT writes with a token bucket
// to avoid hammering the overlay on retry storms.
type OverlayClient struct {
	mu     sync.RWMutex
	state  interfaces.OverlayState
	driver Driver

	sendSem     *semaphore.Weighted
	writeLim    *rate.Limiter
	callTimeout time.Duration
}

// NewOverlayClient wraps driver in a lifecycle- and rate-limited
// OverlayClient. writeRatePerSecond bounds DHT write throughput; pass 0
// to fall back to one write per 50ms. callTimeout bounds every
// AppCall/AppMessage dispatch to the driver; pass 0 to rely entirely on
// the caller's own context deadline.
func NewOverlayClient(driver Driver, writeRatePerSecond float64, callTimeout time.Duration) *OverlayClient {
	if writeRatePerSecond <= 0 {
		writeRatePerSecond = 20
	}
	return &OverlayClient{
		state:       interfaces.StateUninitialized,
		driver:      driver,
		sendSem:     semaphore.NewWeighted(interfaces.MaxInFlightSends),
		writeLim:    rate.NewLimiter(rate.Limit(writeRatePerSecond), 1),
		callTimeout: callTimeout,
	}
}

// Start transitions Uninitialized -> Starting -> Connected.
func (c *OverlayClient) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.state != interfaces.StateUninitialized {
		from := c.state
		c.mu.Unlock()
		return &interfaces.ErrInvalidState{From: from, Op: "start"}
	}
	c.state = interfaces.StateStarting
	c.mu.Unlock()

	logging.New("real", "OverlayClient.Start").Info("connecting to overlay")

	if err := c.driver.Connect(ctx); err != nil {
		c.mu.Lock()
		c.state = interfaces.StateDisconnected
		c.mu.Unlock()
		return fmt.Errorf("overlay connect: %w", err)
	}

	c.mu.Lock()
	c.state = interfaces.StateConnected
	c.mu.Unlock()
	return nil
}

// Stop transitions to Stopping then Stopped; idempotent once Stopped.
func (c *OverlayClient) Stop(ctx context.Context) error {
	c.mu.Lock()
	if c.state == interfaces.StateStopped {
		c.mu.Unlock()
		return nil
	}
	c.state = interfaces.StateStopping
	c.mu.Unlock()

	err := c.driver.Disconnect(ctx)

	c.mu.Lock()
	c.state = interfaces.StateStopped
	c.mu.Unlock()

	if err != nil {
		return fmt.Errorf("overlay disconnect: %w", err)
	}
	return nil
}

// State returns the current lifecycle state.
func (c *OverlayClient) State() interfaces.OverlayState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// RoutingContext returns a routing handle if currently Connected.
func (c *OverlayClient) RoutingContext() (interfaces.RoutingContext, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.state != interfaces.StateConnected {
		return nil, &interfaces.ErrInvalidState{From: c.state, Op: "routing_context"}
	}
	return &routingContext{client: c}, nil
}

// WithDefaultSafety returns a routing handle configured for multi-hop
// anonymous routing. The Driver contract treats every routing context as
// default-safety; this method exists to satisfy the overlay contract's
// explicit acquisition step.
func (c *OverlayClient) WithDefaultSafety(ctx context.Context) (interfaces.RoutingContext, error) {
	return c.RoutingContext()
}

// CreateMailbox creates a bounded multi-subkey DHT record for a mailbox.
func (c *OverlayClient) CreateMailbox(ctx context.Context, members [][]byte) (interfaces.Descriptor, error) {
	rctx, err := c.RoutingContext()
	if err != nil {
		return nil, err
	}
	return rctx.CreateDHTRecord(ctx, interfaces.Schema{MemberCount: len(members), Members: members}, "mailbox")
}

// routingContext binds Driver calls to the client's concurrency and
// pacing controls.
type routingContext struct {
	client *OverlayClient
}

func (r *routingContext) CreateDHTRecord(ctx context.Context, schema interfaces.Schema, kind string) (interfaces.Descriptor, error) {
	return r.client.driver.CreateDHTRecord(ctx, schema, kind)
}

func (r *routingContext) SetDHTValue(ctx context.Context, desc interfaces.Descriptor, subkey int, value []byte, writer []byte) error {
	if err := r.client.writeLim.Wait(ctx); err != nil {
		return fmt.Errorf("overlay write pacing: %w", err)
	}
	return r.client.driver.SetDHTValue(ctx, desc, subkey, value, writer)
}

func (r *routingContext) GetDHTValue(ctx context.Context, desc interfaces.Descriptor, subkey int, forceRefresh bool) (*interfaces.ValueData, error) {
	return r.client.driver.GetDHTValue(ctx, desc, subkey, forceRefresh)
}

func (r *routingContext) DeleteDHTRecord(ctx context.Context, desc interfaces.Descriptor) error {
	return r.client.driver.DeleteDHTRecord(ctx, desc)
}

func (r *routingContext) AppCall(ctx context.Context, target interfaces.Target, payload []byte) ([]byte, error) {
	if err := r.client.sendSem.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("overlay send concurrency: %w", err)
	}
	defer r.client.sendSem.Release(1)

	ctx, cancel := r.client.boundCall(ctx)
	defer cancel()
	return r.client.driver.AppCall(ctx, target, payload)
}

func (r *routingContext) AppMessage(ctx context.Context, target interfaces.Target, payload []byte) error {
	if err := r.client.sendSem.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("overlay send concurrency: %w", err)
	}
	defer r.client.sendSem.Release(1)

	ctx, cancel := r.client.boundCall(ctx)
	defer cancel()
	return r.client.driver.AppMessage(ctx, target, payload)
}

// boundCall derives a child context capped at callTimeout, when one is
// configured; otherwise it returns ctx unchanged with a no-op cancel.
func (c *OverlayClient) boundCall(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.callTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.callTimeout)
}

func (r *routingContext) ParseAsTarget(handle string) (interfaces.Target, error) {
	return r.client.driver.ParseAsTarget(handle)
}
