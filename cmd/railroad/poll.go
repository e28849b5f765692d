package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/underground-railroad/railroad/domain"
	"github.com/underground-railroad/railroad/interfaces"
	"github.com/underground-railroad/railroad/mailbox"
	"github.com/underground-railroad/railroad/railerr"
	"github.com/underground-railroad/railroad/types"
)

var pollCmd = &cobra.Command{
	Use:   "poll",
	Short: "Force one mailbox scan and print newly delivered messages",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		const op = "cmd.poll"
		ctx := context.Background()
		app, err := openIdentity(ctx)
		if err != nil {
			return err
		}
		defer app.Shutdown()

		id := app.Identity().Current()
		if id.MailboxDescriptor == nil {
			return railerr.New(railerr.KindInvalid, op, "identity has no published mailbox")
		}

		db := app.DB()
		verify := func(sender types.PersonId) ([32]byte, bool) {
			c, err := db.Contacts().Get(ctx, sender)
			if err != nil {
				return [32]byte{}, false
			}
			return c.SigningPublicKey, true
		}

		rctx, err := app.Overlay().WithDefaultSafety(ctx)
		if err != nil {
			return err
		}

		drained, err := mailbox.Poll(ctx, rctx, interfaces.Descriptor(id.MailboxDescriptor), id.Hybrid, verify)
		if err != nil {
			return err
		}

		for _, d := range drained {
			exists, err := db.Messages().Exists(ctx, d.Message.ID)
			if err != nil || exists {
				continue
			}
			d.Message.Status = domain.MessageDelivered
			if err := db.Messages().Put(ctx, d.Message); err != nil {
				return err
			}
			fmt.Printf("delivered: %s from %s\n", d.Message.ID.String(), d.Message.Sender.String())
		}
		if len(drained) == 0 {
			fmt.Println("no new messages")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pollCmd)
}
