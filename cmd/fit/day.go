package fit

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/johnpc/fit-cli/internal/service"
)

var (
	dayDate string
	dayJSON bool
)

var dayCmd = &cobra.Command{
	Use:   "day",
	Short: "Show a day's consumed, burned and remaining calories",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(cmd, func(env *runtimeEnv) error {
			ctx := commandContext(cmd)
			_, date, err := resolveDay(env.deps.Days, "date", dayDate)
			if err != nil {
				return err
			}
			summary, err := service.DaySummary(ctx, env.deps, date)
			if err != nil {
				return err
			}
			if dayJSON {
				return printJSON(cmd, summary)
			}
			prefs, err := service.GetPreferences(ctx, env.db)
			if err != nil {
				return err
			}
			goal, err := service.CurrentGoal(ctx, env.db)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Day: %s\n", summary.Day)
			fmt.Fprintf(out, "Consumed: %d kcal\n", summary.Consumed)
			fmt.Fprintf(out, "Burned: %d kcal\n", summary.Burned)
			fmt.Fprintf(out, "Remaining: %d kcal\n", summary.Remaining)
			if goal != nil {
				fmt.Fprintf(out, "Diet goal: %d kcal (%d left)\n", goal.DietCalories, goal.DietCalories-summary.Consumed)
			}
			if !prefs.HideProtein {
				fmt.Fprintf(out, "Protein: %dg\n", summary.Protein)
			}
			if !prefs.HideSteps {
				fmt.Fprintf(out, "Steps: %d\n", summary.Steps)
			}
			if len(summary.Foods) == 0 {
				fmt.Fprintln(out, "No food logged")
				return nil
			}
			fmt.Fprintln(out, "ID\tNAME\tKCAL")
			for _, f := range summary.Foods {
				fmt.Fprintf(out, "%s\t%s\t%d\n", f.ID, f.DisplayName(), f.Calories)
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(dayCmd)
	dayCmd.Flags().StringVar(&dayDate, "date", "", "Date YYYY-MM-DD (default today)")
	dayCmd.Flags().BoolVar(&dayJSON, "json", false, "Output as JSON")
}
