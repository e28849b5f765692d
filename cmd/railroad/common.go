package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/underground-railroad/railroad"
	"github.com/underground-railroad/railroad/domain"
	"github.com/underground-railroad/railroad/railerr"
	"github.com/underground-railroad/railroad/types"
)

var (
	dataDir    string
	passphrase string
)

// defaultDataDir returns RAILROAD_DATA_DIR when it is set, and otherwise
// $HOME/.railroad (or .railroad when the home directory is unknown).
func defaultDataDir() string {
	if v := os.Getenv("RAILROAD_DATA_DIR"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".railroad"
	}
	return filepath.Join(home, ".railroad")
}

// openIdentity starts the App and recovers its primary identity from
// --passphrase, for every command but init.
func openIdentity(ctx context.Context) (*railroad.App, error) {
	const op = "cmd.openIdentity"
	if passphrase == "" {
		return nil, railerr.New(railerr.KindInvalid, op, "--passphrase (or RAILROAD_PASSPHRASE) is required")
	}
	app, err := railroad.Init(railroad.Options{DataDir: dataDir})
	if err != nil {
		return nil, err
	}
	if _, err := app.Identity().Recover(ctx, passphrase); err != nil {
		app.Shutdown()
		return nil, err
	}
	return app, nil
}

// parseNeed maps a case-insensitive need name to a domain.Need.
func parseNeed(s string) (domain.Need, error) {
	switch strings.ToLower(s) {
	case "shelter":
		return domain.NeedShelter, nil
	case "food":
		return domain.NeedFood, nil
	case "medical":
		return domain.NeedMedical, nil
	case "transport":
		return domain.NeedTransport, nil
	case "danger", "immediate_danger":
		return domain.NeedImmediateDanger, nil
	case "other":
		return domain.NeedOther, nil
	default:
		return 0, railerr.New(railerr.KindInvalid, "cmd.parseNeed", fmt.Sprintf("unknown need %q", s))
	}
}

// parseUrgency maps a case-insensitive urgency name to a types.Urgency.
func parseUrgency(s string) (types.Urgency, error) {
	switch strings.ToLower(s) {
	case "low":
		return types.UrgencyLow, nil
	case "medium":
		return types.UrgencyMedium, nil
	case "high":
		return types.UrgencyHigh, nil
	case "critical":
		return types.UrgencyCritical, nil
	default:
		return 0, railerr.New(railerr.KindInvalid, "cmd.parseUrgency", fmt.Sprintf("unknown urgency %q", s))
	}
}

// parseCapabilities splits a comma-separated capability list into
// domain.Capability values.
func parseCapabilities(s string) ([]domain.Capability, error) {
	if s == "" {
		return nil, nil
	}
	var out []domain.Capability
	for _, tok := range strings.Split(s, ",") {
		switch strings.ToLower(strings.TrimSpace(tok)) {
		case "shelter":
			out = append(out, domain.CapabilityShelter)
		case "food":
			out = append(out, domain.CapabilityFood)
		case "medical":
			out = append(out, domain.CapabilityMedical)
		case "legal":
			out = append(out, domain.CapabilityLegal)
		case "childcare":
			out = append(out, domain.CapabilityChildcare)
		case "other":
			out = append(out, domain.CapabilityOther)
		default:
			return nil, railerr.New(railerr.KindInvalid, "cmd.parseCapabilities", fmt.Sprintf("unknown capability %q", tok))
		}
	}
	return out, nil
}

// parseInt parses a positive integer CLI argument.
func parseInt(op, s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, railerr.Wrap(railerr.KindInvalid, op, "parse integer argument", err)
	}
	if n <= 0 {
		return 0, railerr.New(railerr.KindInvalid, op, "integer argument must be positive")
	}
	return n, nil
}
