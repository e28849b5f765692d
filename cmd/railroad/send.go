package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/underground-railroad/railroad/domain"
	"github.com/underground-railroad/railroad/interfaces"
	"github.com/underground-railroad/railroad/mailbox"
	"github.com/underground-railroad/railroad/railerr"
	"github.com/underground-railroad/railroad/types"
)

var sendCmd = &cobra.Command{
	Use:   "send <contact-id> <text>",
	Short: "Send a text message to a contact's mailbox",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		const op = "cmd.send"
		contactArg, text := args[0], args[1]

		u, err := uuid.Parse(contactArg)
		if err != nil {
			return railerr.Wrap(railerr.KindInvalid, op, "parse contact id", err)
		}
		recipientID, err := types.ParsePersonId(u[:])
		if err != nil {
			return railerr.Wrap(railerr.KindInvalid, op, "parse contact id", err)
		}

		ctx := context.Background()
		app, err := openIdentity(ctx)
		if err != nil {
			return err
		}
		defer app.Shutdown()

		contact, err := app.DB().Contacts().Get(ctx, recipientID)
		if err != nil {
			return err
		}
		if contact.MailboxHandle == nil {
			return railerr.New(railerr.KindInvalid, op, "contact has no known mailbox handle")
		}

		sender := app.Identity().Current()
		msg := domain.NewMessage(types.NewMessageId(), sender.ID, recipientID, domain.MessageBody{Kind: domain.BodyText, Text: text}, types.Now())

		rctx, err := app.Overlay().WithDefaultSafety(ctx)
		if err != nil {
			return err
		}
		descriptor := interfaces.Descriptor(contact.MailboxHandle.Expose())

		if err := mailbox.SendWithRetry(ctx, rctx, descriptor, sender.ID, sender.Signing, contact.HybridPublic, msg); err != nil {
			return err
		}
		msg.Status = domain.MessageSent
		if err := app.DB().Messages().Put(ctx, msg); err != nil {
			return err
		}

		fmt.Printf("message sent: %s\n", msg.ID.String())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sendCmd)
}
