package fit

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"github.com/johnpc/fit-cli/internal/service"
)

var goalCmd = &cobra.Command{
	Use:   "goal",
	Short: "Manage the daily diet calorie goal",
}

var goalCalories int

var goalSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Set the daily diet calorie goal",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sqlx.DB) error {
			g, err := service.SetGoal(commandContext(cmd), sqldb, goalCalories)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Set goal to %d kcal\n", g.DietCalories)
			return nil
		})
	},
}

var goalShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current goal",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sqlx.DB) error {
			g, err := service.CurrentGoal(commandContext(cmd), sqldb)
			if err != nil {
				return err
			}
			if g == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "No goal configured")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Calories: %d\nUpdated: %s\n", g.DietCalories, g.UpdatedAt.Local().Format("2006-01-02 15:04"))
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(goalCmd)
	goalCmd.AddCommand(goalSetCmd, goalShowCmd)
	goalSetCmd.Flags().IntVar(&goalCalories, "calories", 0, "Daily diet calories")
	_ = goalSetCmd.MarkFlagRequired("calories")
}
