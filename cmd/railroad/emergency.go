package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/underground-railroad/railroad/domain"
	"github.com/underground-railroad/railroad/railerr"
	"github.com/underground-railroad/railroad/types"
)

var createEmergencyCmd = &cobra.Command{
	Use:   "create-emergency <need>... <region> <urgency> <n>",
	Short: "Record a new active emergency request",
	Args:  cobra.MinimumNArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		const op = "cmd.createEmergency"
		needArgs := args[:len(args)-3]
		region, urgencyArg, nArg := args[len(args)-3], args[len(args)-2], args[len(args)-1]

		var needs []domain.Need
		for _, a := range needArgs {
			n, err := parseNeed(a)
			if err != nil {
				return err
			}
			needs = append(needs, n)
		}
		if len(needs) == 0 {
			return railerr.New(railerr.KindInvalid, op, "at least one need is required")
		}

		urgency, err := parseUrgency(urgencyArg)
		if err != nil {
			return err
		}
		numPeople, err := parseInt(op, nArg)
		if err != nil {
			return err
		}

		ctx := context.Background()
		app, err := openIdentity(ctx)
		if err != nil {
			return err
		}
		defer app.Shutdown()

		e := domain.NewEmergency(types.NewEmergencyId(), needs, types.NewRegion(region), urgency, numPeople, 0, types.Now())
		if err := app.DB().Emergencies().Put(ctx, e); err != nil {
			return err
		}

		fmt.Printf("emergency created: %s (priority %d)\n", e.ID.String(), e.PriorityScore(types.Now()))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(createEmergencyCmd)
}
