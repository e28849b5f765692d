package railroad

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/underground-railroad/railroad/domain"
	"github.com/underground-railroad/railroad/factory"
	"github.com/underground-railroad/railroad/interfaces"
	"github.com/underground-railroad/railroad/internal/logging"
	"github.com/underground-railroad/railroad/mailbox"
	"github.com/underground-railroad/railroad/railerr"
	"github.com/underground-railroad/railroad/real"
	"github.com/underground-railroad/railroad/store"
	gotesting "github.com/underground-railroad/railroad/testing"
	"github.com/underground-railroad/railroad/trust"
	"github.com/underground-railroad/railroad/types"
)

// dbFileName is the encrypted store's filename inside a data directory.
const dbFileName = "railroad.db"

// Options configures Init.
type Options struct {
	// DataDir is this identity's per-user directory: salt sidecar,
	// encrypted store, and overlay state all live under it.
	DataDir string
	// Driver is the low-level overlay transport a production deployment
	// plugs in. Ignored when RAILROAD_OVERLAY_MODE=simulation.
	Driver real.Driver
	// Hub, when set, joins a shared in-memory overlay network for tests
	// running multiple identities against each other.
	Hub *gotesting.Hub
	// SelfTarget identifies this identity to a simulated Hub. Ignored
	// outside simulation mode.
	SelfTarget []byte
	// PollInterval overrides the mailbox poller's default interval.
	PollInterval time.Duration
}

// App is the process-wide facade: the overlay client, database, active
// identity, and data directory behind the fixed lock order
// overlay -> database -> identity -> data directory. Its own mutex only
// ever guards the identity/poller swap, never held across a suspending
// call, so it does not itself appear in that lock order.
type App struct {
	opts Options

	overlay interfaces.OverlayClient

	mu       sync.Mutex
	db       *store.DB
	graph    *trust.Graph
	identity *IdentityHandle
	poller   *mailbox.Poller
	cancel   context.CancelFunc
}

// Init constructs an App: it creates the data directory and starts the
// overlay client, but opens no store and derives no identity until
// Identity().Setup or Identity().Recover is called.
func Init(opts Options) (*App, error) {
	const op = "railroad.Init"
	if opts.DataDir == "" {
		return nil, railerr.New(railerr.KindInvalid, op, "data directory required")
	}
	if err := os.MkdirAll(opts.DataDir, 0o700); err != nil {
		return nil, railerr.Wrap(railerr.KindStorage, op, "create data directory", err)
	}

	overlay := factory.NewOverlayClient(opts.Driver, opts.Hub, opts.SelfTarget)

	startCtx, cancel := context.WithTimeout(context.Background(), interfaces.MailboxCreateDeadline)
	defer cancel()
	if err := overlay.Start(startCtx); err != nil {
		return nil, railerr.Wrap(railerr.KindNetwork, op, "start overlay client", err)
	}

	logging.New("railroad", "Init").WithField("data_dir", opts.DataDir).Info("app initialized")

	return &App{
		opts:    opts,
		overlay: overlay,
		graph:   trust.NewGraph(),
	}, nil
}

// Shutdown stops the mailbox poller, releases the overlay client, closes
// the database, and zeroises the active identity's key material. Safe to
// call more than once.
func (a *App) Shutdown() error {
	const op = "railroad.App.Shutdown"

	a.mu.Lock()
	poller := a.poller
	a.poller = nil
	cancel := a.cancel
	a.cancel = nil
	id := a.identity
	a.identity = nil
	db := a.db
	a.db = nil
	a.mu.Unlock()

	if poller != nil {
		poller.Stop()
	}
	if cancel != nil {
		cancel()
	}

	ctx, stopCancel := context.WithTimeout(context.Background(), interfaces.DHTOperationDeadline)
	defer stopCancel()
	overlayErr := a.overlay.Stop(ctx)

	var dbErr error
	if db != nil {
		dbErr = db.Close()
	}
	if id != nil {
		id.destroy()
	}

	if overlayErr != nil {
		return railerr.Wrap(railerr.KindNetwork, op, "stop overlay client", overlayErr)
	}
	if dbErr != nil {
		return railerr.Wrap(railerr.KindStorage, op, "close database", dbErr)
	}
	return nil
}

// Overlay returns the process overlay client.
func (a *App) Overlay() interfaces.OverlayClient { return a.overlay }

// Graph returns the in-memory trust graph, populated from the store once
// an identity has been set up or recovered.
func (a *App) Graph() *trust.Graph {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.graph
}

// DB returns the open encrypted store, or nil if no identity has been
// set up or recovered yet.
func (a *App) DB() *store.DB {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.db
}

// Identity returns the identity lifecycle handle used to set up or
// recover this app's active identity.
func (a *App) Identity() *IdentityHandle {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.identity == nil {
		a.identity = &IdentityHandle{app: a}
	}
	return a.identity
}

// dbPath returns the encrypted store's path inside the data directory.
func (a *App) dbPath() string {
	return filepath.Join(a.opts.DataDir, dbFileName)
}

// adoptIdentity installs db and id as the app's active state, loads the
// trust graph, and starts the mailbox poller if the identity already
// has a published mailbox. Called by IdentityHandle once a Setup or
// Recover completes.
func (a *App) adoptIdentity(ctx context.Context, db *store.DB, id *IdentityHandle) error {
	const op = "railroad.App.adoptIdentity"

	edges, err := db.Trust().All(ctx)
	if err != nil {
		return err
	}
	graph := trust.NewGraph()
	for _, e := range edges {
		graph.AddTrust(e.Truster, e.Trustee, e.Level)
	}

	pollCtx, cancel := context.WithCancel(context.Background())

	a.mu.Lock()
	a.db = db
	a.identity = id
	a.graph = graph
	a.cancel = cancel
	a.mu.Unlock()

	if id.domain.MailboxDescriptor != nil {
		if err := a.startPoller(pollCtx, id); err != nil {
			cancel()
			return railerr.Wrap(railerr.KindNetwork, op, "start mailbox poller", err)
		}
	} else {
		cancel()
	}
	return nil
}

// startPoller wires a Poller over the active identity's mailbox,
// verifying incoming senders against the contact book and persisting
// every drained message.
func (a *App) startPoller(ctx context.Context, id *IdentityHandle) error {
	rctx, err := a.overlay.WithDefaultSafety(ctx)
	if err != nil {
		return err
	}

	poller := mailbox.NewPoller(
		rctx,
		interfaces.Descriptor(id.domain.MailboxDescriptor),
		id.domain.Hybrid,
		a.verifierFunc,
		a.opts.PollInterval,
		a.handleDrained,
	)

	a.mu.Lock()
	a.poller = poller
	a.mu.Unlock()

	go poller.Run(ctx)
	return nil
}

// verifierFunc resolves a mailbox envelope's sender to their signing
// public key by looking them up in the contact book. An unknown sender
// cannot be verified, so Poll will skip their envelope without
// tombstoning it.
func (a *App) verifierFunc(sender types.PersonId) ([32]byte, bool) {
	db := a.DB()
	if db == nil {
		return [32]byte{}, false
	}
	ctx, cancel := context.WithTimeout(context.Background(), interfaces.DHTOperationDeadline)
	defer cancel()

	c, err := db.Contacts().Get(ctx, sender)
	if err != nil {
		return [32]byte{}, false
	}
	return c.SigningPublicKey, true
}

// handleDrained persists one mailbox-drained message, deduplicating on
// MessageId and advancing it to Delivered.
func (a *App) handleDrained(d mailbox.Drained) {
	db := a.DB()
	if db == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), interfaces.DHTOperationDeadline)
	defer cancel()

	exists, err := db.Messages().Exists(ctx, d.Message.ID)
	if err != nil {
		logging.New("railroad", "App.handleDrained").WithField("error", err).Warn("dedup check failed")
		return
	}
	if exists {
		return
	}

	// The wire status reflects the sender's local bookkeeping, not ours;
	// a message reaching this point has, by definition, been delivered.
	d.Message.Status = domain.MessageDelivered
	if err := db.Messages().Put(ctx, d.Message); err != nil {
		logging.New("railroad", "App.handleDrained").WithField("error", err).Warn("failed to persist drained message")
	}
}

// ErrNoActiveIdentity is returned by operations that require a set-up
// or recovered identity before anything has adopted one.
var ErrNoActiveIdentity = railerr.New(railerr.KindIdentity, "railroad.App", "no active identity")

// requireDB returns the open store or ErrNoActiveIdentity.
func (a *App) requireDB() (*store.DB, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.db == nil {
		return nil, ErrNoActiveIdentity
	}
	return a.db, nil
}

// requireIdentity returns the active identity's domain record, or
// ErrNoActiveIdentity.
func (a *App) requireIdentity() (*domain.Identity, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.identity == nil || a.identity.domain == nil {
		return nil, ErrNoActiveIdentity
	}
	return a.identity.domain, nil
}
