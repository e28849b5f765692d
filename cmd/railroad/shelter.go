package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/underground-railroad/railroad/domain"
	"github.com/underground-railroad/railroad/types"
)

var registerShelterCmd = &cobra.Command{
	Use:   "register-shelter <name> <region> <capacity> [capabilities]",
	Short: "Register a shelter operated by the active identity",
	Args:  cobra.RangeArgs(3, 4),
	RunE: func(cmd *cobra.Command, args []string) error {
		const op = "cmd.registerShelter"
		name, region, capArg := args[0], args[1], args[2]

		capacity, err := parseInt(op, capArg)
		if err != nil {
			return err
		}
		var capsArg string
		if len(args) == 4 {
			capsArg = args[3]
		}
		caps, err := parseCapabilities(capsArg)
		if err != nil {
			return err
		}

		ctx := context.Background()
		app, err := openIdentity(ctx)
		if err != nil {
			return err
		}
		defer app.Shutdown()

		operator := app.Identity().Current().ID

		s := domain.NewShelter(types.NewShelterId(), operator, name, types.NewRegion(region), capacity, caps, types.Now())
		if err := app.DB().Shelters().Put(ctx, s); err != nil {
			return err
		}

		fmt.Printf("shelter registered: %s\n", s.ID.String())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(registerShelterCmd)
}
