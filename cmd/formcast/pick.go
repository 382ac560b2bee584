package main

import (
	"github.com/spf13/cobra"
)

var (
	pickFixture int64
	pickTeam    int64
)

func init() {
	pickCmd.Flags().Int64Var(&pickFixture, "fixture", 0, "Upcoming fixture id")
	pickCmd.Flags().Int64Var(&pickTeam, "team", 0, "Team whose settings drive the pick")
	_ = pickCmd.MarkFlagRequired("fixture")
	_ = pickCmd.MarkFlagRequired("team")
}

var pickCmd = &cobra.Command{
	Use:   "pick",
	Short: "Pick a market for an upcoming fixture",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc := newPickService()
		result, err := svc.PickByID(cmd.Context(), pickFixture, pickTeam)
		if err != nil {
			return err
		}
		return printJSON(result)
	},
}
