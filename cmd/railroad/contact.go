package main

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/underground-railroad/railroad/crypto"
	"github.com/underground-railroad/railroad/domain"
	"github.com/underground-railroad/railroad/identity"
	"github.com/underground-railroad/railroad/railerr"
	"github.com/underground-railroad/railroad/types"
)

var addContactCmd = &cobra.Command{
	Use:   "add-contact <name> <card-word>... <mailbox>",
	Short: "Add a contact from a dictated contact card and mailbox handle",
	Args:  cobra.MinimumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		const op = "cmd.addContact"
		name := args[0]
		cardWords := args[1 : len(args)-1]
		mailboxArg := args[len(args)-1]

		ctx := context.Background()
		app, err := openIdentity(ctx)
		if err != nil {
			return err
		}
		defer app.Shutdown()

		now := types.Now()
		joined := strings.Join(cardWords, "")
		var card *identity.Card
		if strings.HasPrefix(joined, "railroad://contact/") {
			card, err = identity.DecodeCardURL(joined, now)
		} else {
			var payload []byte
			payload, err = base64.URLEncoding.DecodeString(joined)
			if err == nil {
				card, err = identity.DecodeCard(payload, now)
			}
		}
		if err != nil {
			return railerr.Wrap(railerr.KindInvalid, op, "decode contact card", err)
		}

		mailbox, err := base64.URLEncoding.DecodeString(mailboxArg)
		if err != nil {
			return railerr.Wrap(railerr.KindInvalid, op, "decode mailbox handle", err)
		}

		c := &domain.Contact{
			ID:               card.PersonID,
			Name:             name,
			Fingerprint:      card.Fingerprint,
			SigningPublicKey: card.SigningPublicKey,
			HybridPublic:     card.HybridPublic(),
			MailboxHandle:    crypto.Seal(mailbox),
			TrustLevel:       types.TrustIntroduced,
			AddedAt:          now,
			Available:        true,
		}
		if err := app.DB().Contacts().Put(ctx, c); err != nil {
			return err
		}

		fmt.Printf("contact added: %s (%s)\n", c.Name, c.ID.String())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(addContactCmd)
}
