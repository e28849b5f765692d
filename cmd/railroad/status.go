package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the active identity, overlay state, and record counts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		app, err := openIdentity(ctx)
		if err != nil {
			return err
		}
		defer app.Shutdown()

		id := app.Identity().Current()
		fmt.Printf("identity:  %s (%s)\n", id.Name, id.Fingerprint.Hex())
		fmt.Printf("overlay:   %s\n", app.Overlay().State())
		fmt.Printf("mailbox:   %t\n", id.MailboxDescriptor != nil)

		db := app.DB()
		emergencies, err := db.Emergencies().ListActive(ctx)
		if err != nil {
			return err
		}
		shelters, err := db.Shelters().ListAvailable(ctx)
		if err != nil {
			return err
		}
		contacts, err := db.Contacts().List(ctx)
		if err != nil {
			return err
		}
		stats := app.Graph().Stats()

		fmt.Printf("emergencies (active):  %d\n", len(emergencies))
		fmt.Printf("shelters (available):  %d\n", len(shelters))
		fmt.Printf("contacts:              %d\n", len(contacts))
		fmt.Printf("trust graph:           %d nodes, %d edges\n", stats.NodeCount, stats.EdgeCount)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
