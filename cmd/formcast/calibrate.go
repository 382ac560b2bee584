package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	calibrateCompetition int64
	calibrateSeason      int
	calibrateOutput      string
)

func init() {
	calibrateCmd.Flags().Int64Var(&calibrateCompetition, "competition", 0, "Competition id")
	calibrateCmd.Flags().IntVar(&calibrateSeason, "season", 0, "Season, 0 for every season")
	calibrateCmd.Flags().StringVarP(&calibrateOutput, "output", "o", "", "Write the calibration table as JSON")
	_ = calibrateCmd.MarkFlagRequired("competition")
}

var calibrateCmd = &cobra.Command{
	Use:   "calibrate",
	Short: "Compare model probabilities with historical odds",
	RunE: func(cmd *cobra.Command, args []string) error {
		table, err := newCalibrationService().Calibrate(cmd.Context(), calibrateCompetition, calibrateSeason)
		if err != nil {
			return err
		}

		fmt.Printf("competition %d season %d: %d fixtures with odds, %d samples, overround %.2f%%\n",
			table.CompetitionID, table.Season, table.Fixtures, table.Samples, table.MeanOverround*100)
		for _, label := range table.SortedLabels() {
			line := table.Lines[label]
			fmt.Printf("  %-10s multiplier=%.3f median=%.3f samples=%d overround=%.2f%%\n",
				label, line.Multiplier, line.Median, line.Samples, line.MeanOverround*100)
		}

		if calibrateOutput != "" {
			return writeJSON(calibrateOutput, table)
		}
		return nil
	},
}
