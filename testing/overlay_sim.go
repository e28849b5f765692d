// Package testing provides an in-memory OverlayClient for deterministic
// tests of the mailbox send/receive round trip and the app-call/message
// paths, without a real overlay connection.
package testing

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/underground-railroad/railroad/interfaces"
)

// subkeyStore is one simulated DHT record's subkeys.
type subkeyStore struct {
	mu      sync.RWMutex
	subkeys map[int]interfaces.ValueData
	seq     uint64
}

// registry is shared simulation state across every SimulatedOverlayClient
// constructed with the same Hub, so AppCall/AppMessage between two
// simulated identities and DHT records created by one are visible to
// both, mirroring how a real overlay is a shared network.
type registry struct {
	mu       sync.RWMutex
	records  map[string]*subkeyStore
	handlers map[string]func(payload []byte) []byte
	messages map[string][][]byte
}

// Hub is the shared simulated network backing one or more
// SimulatedOverlayClient instances. Tests construct one Hub per scenario
// and attach a client per simulated identity.
type Hub struct {
	reg *registry
}

// NewHub creates an empty simulated overlay network.
func NewHub() *Hub {
	return &Hub{reg: &registry{
		records:  make(map[string]*subkeyStore),
		handlers: make(map[string]func([]byte) []byte),
		messages: make(map[string][][]byte),
	}}
}

// SimulatedOverlayClient implements interfaces.OverlayClient entirely
// in-memory against a shared Hub.
type SimulatedOverlayClient struct {
	mu      sync.RWMutex
	state   interfaces.OverlayState
	hub     *Hub
	selfKey string
}

// NewSimulatedOverlayClient attaches a new simulated identity to hub.
// selfTarget is the byte handle other simulated clients use to reach it
// via AppCall/AppMessage.
func NewSimulatedOverlayClient(hub *Hub, selfTarget []byte) *SimulatedOverlayClient {
	logrus.Warn("SIMULATION FUNCTION - NOT A REAL OPERATION")
	return &SimulatedOverlayClient{
		state:   interfaces.StateUninitialized,
		hub:     hub,
		selfKey: string(selfTarget),
	}
}

// Start transitions Uninitialized -> Connected; the simulation has no
// Starting latency.
func (s *SimulatedOverlayClient) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != interfaces.StateUninitialized {
		return &interfaces.ErrInvalidState{From: s.state, Op: "start"}
	}
	s.state = interfaces.StateConnected
	return nil
}

// Stop transitions to Stopped; idempotent.
func (s *SimulatedOverlayClient) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = interfaces.StateStopped
	return nil
}

// State returns the current lifecycle state.
func (s *SimulatedOverlayClient) State() interfaces.OverlayState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// RoutingContext returns a handle onto the shared Hub if Connected.
func (s *SimulatedOverlayClient) RoutingContext() (interfaces.RoutingContext, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state != interfaces.StateConnected {
		return nil, &interfaces.ErrInvalidState{From: s.state, Op: "routing_context"}
	}
	return &simRoutingContext{hub: s.hub, selfKey: s.selfKey}, nil
}

// WithDefaultSafety is equivalent to RoutingContext in simulation: there
// is no multi-hop path to negotiate in-memory.
func (s *SimulatedOverlayClient) WithDefaultSafety(ctx context.Context) (interfaces.RoutingContext, error) {
	return s.RoutingContext()
}

// CreateMailbox creates a bounded multi-subkey record on the shared Hub.
func (s *SimulatedOverlayClient) CreateMailbox(ctx context.Context, members [][]byte) (interfaces.Descriptor, error) {
	rctx, err := s.RoutingContext()
	if err != nil {
		return nil, err
	}
	return rctx.CreateDHTRecord(ctx, interfaces.Schema{MemberCount: len(members), Members: members}, "mailbox")
}

// RegisterHandler registers a synchronous AppCall responder for target,
// so tests can simulate a peer answering a request/response call.
func (h *Hub) RegisterHandler(target []byte, handler func(payload []byte) []byte) {
	h.reg.mu.Lock()
	defer h.reg.mu.Unlock()
	h.reg.handlers[string(target)] = handler
}

// MessagesFor returns the fire-and-forget messages delivered to target,
// in delivery order, for test verification.
func (h *Hub) MessagesFor(target []byte) [][]byte {
	h.reg.mu.RLock()
	defer h.reg.mu.RUnlock()
	msgs := h.reg.messages[string(target)]
	out := make([][]byte, len(msgs))
	copy(out, msgs)
	return out
}

type simRoutingContext struct {
	hub     *Hub
	selfKey string
}

func (r *simRoutingContext) store(desc interfaces.Descriptor) (*subkeyStore, bool) {
	r.hub.reg.mu.RLock()
	defer r.hub.reg.mu.RUnlock()
	store, ok := r.hub.reg.records[string(desc)]
	return store, ok
}

func (r *simRoutingContext) CreateDHTRecord(ctx context.Context, schema interfaces.Schema, kind string) (interfaces.Descriptor, error) {
	logrus.Warn("SIMULATION FUNCTION - NOT A REAL OPERATION")
	r.hub.reg.mu.Lock()
	defer r.hub.reg.mu.Unlock()
	desc := interfaces.Descriptor(fmt.Sprintf("%s/%d", kind, len(r.hub.reg.records)))
	r.hub.reg.records[string(desc)] = &subkeyStore{subkeys: make(map[int]interfaces.ValueData)}
	return desc, nil
}

func (r *simRoutingContext) SetDHTValue(ctx context.Context, desc interfaces.Descriptor, subkey int, value []byte, writer []byte) error {
	store, ok := r.store(desc)
	if !ok {
		return fmt.Errorf("simulated overlay: unknown descriptor %q", desc)
	}
	store.mu.Lock()
	defer store.mu.Unlock()
	store.seq++
	store.subkeys[subkey] = interfaces.ValueData{Data: append([]byte(nil), value...), Seq: store.seq}
	return nil
}

func (r *simRoutingContext) GetDHTValue(ctx context.Context, desc interfaces.Descriptor, subkey int, forceRefresh bool) (*interfaces.ValueData, error) {
	store, ok := r.store(desc)
	if !ok {
		return nil, fmt.Errorf("simulated overlay: unknown descriptor %q", desc)
	}
	store.mu.RLock()
	defer store.mu.RUnlock()
	v, ok := store.subkeys[subkey]
	if !ok {
		return nil, nil
	}
	cp := v
	cp.Data = append([]byte(nil), v.Data...)
	return &cp, nil
}

func (r *simRoutingContext) DeleteDHTRecord(ctx context.Context, desc interfaces.Descriptor) error {
	r.hub.reg.mu.Lock()
	defer r.hub.reg.mu.Unlock()
	delete(r.hub.reg.records, string(desc))
	return nil
}

func (r *simRoutingContext) AppCall(ctx context.Context, target interfaces.Target, payload []byte) ([]byte, error) {
	r.hub.reg.mu.RLock()
	handler, ok := r.hub.reg.handlers[string(target)]
	r.hub.reg.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("simulated overlay: no handler registered for target %q", target)
	}
	return handler(payload), nil
}

func (r *simRoutingContext) AppMessage(ctx context.Context, target interfaces.Target, payload []byte) error {
	r.hub.reg.mu.Lock()
	defer r.hub.reg.mu.Unlock()
	r.hub.reg.messages[string(target)] = append(r.hub.reg.messages[string(target)], append([]byte(nil), payload...))
	return nil
}

func (r *simRoutingContext) ParseAsTarget(handle string) (interfaces.Target, error) {
	return interfaces.Target(handle), nil
}
