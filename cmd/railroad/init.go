package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/underground-railroad/railroad"
)

var initCmd = &cobra.Command{
	Use:   "init <name> <passphrase>",
	Short: "Derive a new identity and create its encrypted store",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, phrase := args[0], args[1]
		ctx := context.Background()

		app, err := railroad.Init(railroad.Options{DataDir: dataDir})
		if err != nil {
			return err
		}
		defer app.Shutdown()

		id, err := app.Identity().Setup(ctx, name, phrase)
		if err != nil {
			return err
		}

		fmt.Printf("identity created: %s (%s)\n", id.Name, id.Fingerprint.Hex())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
