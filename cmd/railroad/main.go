package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/underground-railroad/railroad/railerr"
)

var rootCmd = &cobra.Command{
	Use:   "railroad",
	Short: "Underground Railroad coordination CLI",
	Long: `railroad is a minimal command-line front end over the coordination
substrate: identity setup and recovery, emergency and shelter records,
contact exchange, and mailbox send/poll.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "railroad: %v\n", err)
		os.Exit(exitCode(err))
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", defaultDataDir(), "identity data directory (env RAILROAD_DATA_DIR)")
	rootCmd.PersistentFlags().StringVar(&passphrase, "passphrase", os.Getenv("RAILROAD_PASSPHRASE"), "recovery passphrase (env RAILROAD_PASSPHRASE)")

	// Commands are registered in their respective files:
	// - init.go:      initCmd
	// - status.go:    statusCmd
	// - emergency.go: createEmergencyCmd
	// - shelter.go:   registerShelterCmd
	// - contact.go:   addContactCmd
	// - send.go:      sendCmd
	// - poll.go:      pollCmd
}

// exitCode maps a railerr.Kind to the CLI's exit status: 0 ok, 1 user
// error, 2 network, 3 crypto, 4 storage, 64+ system.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	switch railerr.KindOf(err) {
	case railerr.KindInvalid, railerr.KindNotFound, railerr.KindPermissionDenied:
		return 1
	case railerr.KindNetwork, railerr.KindTimeout:
		return 2
	case railerr.KindCrypto:
		return 3
	case railerr.KindStorage:
		return 4
	default:
		return 70
	}
}
