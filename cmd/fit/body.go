package fit

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"github.com/johnpc/fit-cli/internal/service"
)

var (
	bodyListLimit int
	bmiJSON       bool
)

var weightCmd = &cobra.Command{
	Use:   "weight",
	Short: "Record and list body weight (lbs)",
}

var weightAddCmd = &cobra.Command{
	Use:   "add <lbs>",
	Short: "Record a body weight in pounds",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lbs, err := parsePositiveInt("weight", args[0])
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sqlx.DB) error {
			id, err := service.AddWeight(commandContext(cmd), sqldb, lbs)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Recorded weight %d lbs (%s)\n", lbs, id)
			return nil
		})
	},
}

var weightListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded weights, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sqlx.DB) error {
			items, err := service.ListWeights(commandContext(cmd), sqldb, bodyListLimit)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "RECORDED\tLBS")
			for _, w := range items {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\n", w.CreatedAt.Local().Format("2006-01-02 15:04"), w.CurrentWeight)
			}
			return nil
		})
	},
}

var heightCmd = &cobra.Command{
	Use:   "height",
	Short: "Record and list body height (inches)",
}

var heightAddCmd = &cobra.Command{
	Use:   "add <inches>",
	Short: "Record a body height in inches",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := parsePositiveInt("height", args[0])
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sqlx.DB) error {
			id, err := service.AddHeight(commandContext(cmd), sqldb, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Recorded height %d in (%s)\n", in, id)
			return nil
		})
	},
}

var heightListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded heights, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sqlx.DB) error {
			items, err := service.ListHeights(commandContext(cmd), sqldb, bodyListLimit)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "RECORDED\tIN")
			for _, h := range items {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\n", h.CreatedAt.Local().Format("2006-01-02 15:04"), h.CurrentHeight)
			}
			return nil
		})
	},
}

var bmiCmd = &cobra.Command{
	Use:   "bmi",
	Short: "Show BMI from the latest weight and height",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sqlx.DB) error {
			status, err := service.CurrentBodyStatus(commandContext(cmd), sqldb)
			if err != nil {
				return err
			}
			if bmiJSON {
				return printJSON(cmd, status)
			}
			out := cmd.OutOrStdout()
			weightNote, heightNote := "", ""
			if !status.WeightRecorded {
				weightNote = " (default)"
			}
			if !status.HeightRecorded {
				heightNote = " (default)"
			}
			fmt.Fprintf(out, "Weight: %d lbs%s\n", status.WeightLbs, weightNote)
			fmt.Fprintf(out, "Height: %d in%s\n", status.HeightIn, heightNote)
			fmt.Fprintf(out, "BMI: %.1f (%s)\n", status.BMI, status.Label)
			fmt.Fprintf(out, "Underweight below %.0f lbs, healthy to %.0f, overweight to %.0f\n", status.MaxUnderweight, status.MaxHealthy, status.MaxOverweight)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(weightCmd, heightCmd, bmiCmd)
	weightCmd.AddCommand(weightAddCmd, weightListCmd)
	heightCmd.AddCommand(heightAddCmd, heightListCmd)
	weightListCmd.Flags().IntVar(&bodyListLimit, "limit", 20, "Maximum rows (0 for all)")
	heightListCmd.Flags().IntVar(&bodyListLimit, "limit", 20, "Maximum rows (0 for all)")
	bmiCmd.Flags().BoolVar(&bmiJSON, "json", false, "Output as JSON")
}
