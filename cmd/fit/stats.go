package fit

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/johnpc/fit-cli/internal/service"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Weekly rollup and tracking streak",
}

var (
	statsEnd    string
	statsFrom   string
	statsJSON   bool
	statsRecent bool
)

var statsWeekCmd = &cobra.Command{
	Use:   "week",
	Short: "Show the seven days ending on --end",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(cmd, func(env *runtimeEnv) error {
			_, end, err := resolveDay(env.deps.Days, "end", statsEnd)
			if err != nil {
				return err
			}
			week, err := service.Week(commandContext(cmd), env.weekLookup(), env.deps.Days, end)
			if err != nil {
				return err
			}
			if statsJSON {
				return printJSON(cmd, week)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "DAY\tEATEN\tBURNED\tNET")
			for _, d := range week.Days {
				if !d.Tracked {
					fmt.Fprintf(out, "%s\t-\t%d\t-\n", d.ShortDay, d.Burned)
					continue
				}
				fmt.Fprintf(out, "%s\t%d\t%d\t%+d\n", d.ShortDay, d.Consumed, d.Burned, d.Net)
			}
			fmt.Fprintf(out, "Net over %d tracked days: %+d kcal (%+.2f lbs)\n", week.Tracked, week.Net, week.Pounds())
			return nil
		})
	},
}

var statsStreakCmd = &cobra.Command{
	Use:   "streak",
	Short: "Count consecutive days with food logged, walking back from --from",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(cmd, func(env *runtimeEnv) error {
			_, from, err := resolveDay(env.deps.Days, "from", statsFrom)
			if err != nil {
				return err
			}
			started := time.Now()
			streak, err := service.Streak(commandContext(cmd), env.lookup(), env.deps.Days, from, env.cfg.Streak.BatchSize)
			if err != nil {
				return err
			}
			env.log.Debug("streak_computed", zap.Int("days", streak.Days), zap.Duration("took", time.Since(started)))
			if statsJSON {
				return printJSON(cmd, streak)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Streak: %d days\n", streak.Days)
			fmt.Fprintf(out, "Net: %+d kcal (%+.2f lbs)\n", streak.Net, streak.Pounds())
			if statsRecent {
				for _, d := range streak.Recent {
					fmt.Fprintf(out, "%s\t%d\t%d\t%+d\n", d.Day, d.Consumed, d.Burned, d.Net)
				}
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.AddCommand(statsWeekCmd, statsStreakCmd)
	statsCmd.PersistentFlags().BoolVar(&statsJSON, "json", false, "Output as JSON")
	statsWeekCmd.Flags().StringVar(&statsEnd, "end", "", "Last day of the week YYYY-MM-DD (default today)")
	statsStreakCmd.Flags().StringVar(&statsFrom, "from", "", "Day to walk back from YYYY-MM-DD (default today)")
	statsStreakCmd.Flags().BoolVar(&statsRecent, "days", false, "List each day in the streak")
}
