package railroad

import (
	"context"

	"github.com/underground-railroad/railroad/crypto"
	"github.com/underground-railroad/railroad/domain"
	"github.com/underground-railroad/railroad/identity"
	"github.com/underground-railroad/railroad/internal/logging"
	"github.com/underground-railroad/railroad/railerr"
	"github.com/underground-railroad/railroad/store"
)

// IdentityHandle manages this App's active identity lifecycle: initial
// setup, passphrase-based recovery, and publishing a mailbox. It is
// created lazily by App.Identity and never constructed directly.
type IdentityHandle struct {
	app    *App
	domain *domain.Identity
}

// Current returns the active identity record, or nil if none has been
// set up or recovered yet.
func (h *IdentityHandle) Current() *domain.Identity {
	if h == nil {
		return nil
	}
	return h.domain
}

// Setup derives a brand-new identity from name and passphrase, opens a
// freshly created encrypted store keyed from the same passphrase, and
// adopts both as the App's active state.
func (h *IdentityHandle) Setup(ctx context.Context, name, passphrase string) (*domain.Identity, error) {
	id, storageKey, err := identity.Setup(h.app.opts.DataDir, name, passphrase)
	if err != nil {
		return nil, err
	}

	db, err := store.Open(ctx, h.app.dbPath(), storageKey)
	crypto.ZeroBytes(storageKey[:])
	if err != nil {
		id.Destroy()
		return nil, err
	}

	if err := db.Identities().Put(ctx, id); err != nil {
		id.Destroy()
		db.Close()
		return nil, err
	}

	h.domain = id
	if err := h.app.adoptIdentity(ctx, db, h); err != nil {
		return nil, err
	}

	logging.New("railroad", "IdentityHandle.Setup").WithField("person", id.ID.String()).Info("identity set up")
	return id, nil
}

// Recover re-derives the storage key from passphrase and the salt
// Setup previously wrote, opens the existing encrypted store, and loads
// the primary identity from it. A wrong passphrase is only detected once
// the store's first query runs, per the spec's wrong-key contract.
func (h *IdentityHandle) Recover(ctx context.Context, passphrase string) (*domain.Identity, error) {
	storageKey, err := identity.Recover(h.app.opts.DataDir, passphrase)
	if err != nil {
		return nil, err
	}

	db, err := store.Open(ctx, h.app.dbPath(), storageKey)
	crypto.ZeroBytes(storageKey[:])
	if err != nil {
		return nil, err
	}

	id, err := db.Identities().GetPrimary(ctx)
	if err != nil {
		db.Close()
		return nil, err
	}

	h.domain = id
	if err := h.app.adoptIdentity(ctx, db, h); err != nil {
		return nil, err
	}
	return id, nil
}

// Rename changes the active identity's display name and persists it.
func (h *IdentityHandle) Rename(ctx context.Context, name string) error {
	db, err := h.app.requireDB()
	if err != nil {
		return err
	}
	if h.domain == nil {
		return ErrNoActiveIdentity
	}
	h.domain.Rename(name)
	return db.Identities().Put(ctx, h.domain)
}

// PublishMailbox creates this identity's mailbox DHT record (if one
// doesn't already exist), binds its descriptor, persists the identity,
// and starts the mailbox poller.
func (h *IdentityHandle) PublishMailbox(ctx context.Context) error {
	const op = "railroad.IdentityHandle.PublishMailbox"
	db, err := h.app.requireDB()
	if err != nil {
		return err
	}
	if h.domain == nil {
		return ErrNoActiveIdentity
	}
	if h.domain.MailboxDescriptor != nil {
		return nil
	}

	descriptor, err := h.app.overlay.CreateMailbox(ctx, [][]byte{h.domain.ID.Bytes()})
	if err != nil {
		return railerr.Wrap(railerr.KindNetwork, op, "create mailbox record", err)
	}
	h.domain.BindMailbox(descriptor)

	if err := db.Identities().Put(ctx, h.domain); err != nil {
		return err
	}

	pollCtx, cancel := context.WithCancel(context.Background())
	h.app.mu.Lock()
	if h.app.cancel != nil {
		h.app.cancel()
	}
	h.app.cancel = cancel
	h.app.mu.Unlock()

	return h.app.startPoller(pollCtx, h)
}

// destroy zeroises the active identity's key material, if any.
func (h *IdentityHandle) destroy() {
	if h == nil || h.domain == nil {
		return
	}
	h.domain.Destroy()
}
