// Package factory selects between the real and simulated OverlayClient
// implementations so calling code depends only on interfaces.OverlayClient.
package factory

import (
	"os"
	"strconv"
	"time"

	"github.com/underground-railroad/railroad/interfaces"
	"github.com/underground-railroad/railroad/internal/logging"
	"github.com/underground-railroad/railroad/real"
	"github.com/underground-railroad/railroad/testing"
)

// Default write-pacing and env var names, overridable for deployments
// that need a different overlay call budget.
const (
	defaultWriteRatePerSecond = 20

	envOverlayMode      = "RAILROAD_OVERLAY_MODE"
	envOverlayTimeoutMs = "RAILROAD_OVERLAY_TIMEOUT_MS"
)

// NewOverlayClient constructs an OverlayClient. When RAILROAD_OVERLAY_MODE
// is "simulation" it returns a SimulatedOverlayClient bound to hub (a nil
// hub is replaced by a fresh, unshared Hub); otherwise it wraps driver in
// a real.OverlayClient. selfTarget identifies this identity to the
// simulated hub and is ignored in real mode.
func NewOverlayClient(driver real.Driver, hub *testing.Hub, selfTarget []byte) interfaces.OverlayClient {
	mode := os.Getenv(envOverlayMode)
	timeout := readTimeout()

	logging.New("factory", "NewOverlayClient").
		WithField("mode", mode).
		WithField("timeout", timeout).
		Info("constructing overlay client")

	if mode == "simulation" {
		if hub == nil {
			hub = testing.NewHub()
		}
		return testing.NewSimulatedOverlayClient(hub, selfTarget)
	}

	return real.NewOverlayClient(driver, defaultWriteRatePerSecond, timeout)
}

// readTimeout parses RAILROAD_OVERLAY_TIMEOUT_MS, falling back to the
// interface package's default app-call deadline on any parse failure.
func readTimeout() time.Duration {
	raw := os.Getenv(envOverlayTimeoutMs)
	if raw == "" {
		return interfaces.AppCallDeadline
	}
	ms, err := strconv.Atoi(raw)
	if err != nil || ms <= 0 {
		logging.New("factory", "readTimeout").WithField("value", raw).
			Warn("invalid RAILROAD_OVERLAY_TIMEOUT_MS, using default")
		return interfaces.AppCallDeadline
	}
	return time.Duration(ms) * time.Millisecond
}

// NewSimulationHub creates a fresh in-memory overlay network for tests
// that need several identities to see each other's DHT records and calls.
func NewSimulationHub() *testing.Hub {
	return testing.NewHub()
}
