package fit

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/johnpc/fit-cli/internal/service"
)

var (
	doctorFix  bool
	doctorJSON bool
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Run data integrity checks",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(cmd, func(env *runtimeEnv) error {
			ctx := commandContext(cmd)
			report, err := service.RunDoctor(ctx, env.deps, doctorFix)
			if err != nil {
				return err
			}
			if doctorJSON {
				if err := printJSON(cmd, report); err != nil {
					return err
				}
			} else {
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Schema version: %d\n", report.SchemaVersion)
				fmt.Fprintf(out, "Unparseable days: %d", len(report.UnparseableDays))
				if len(report.UnparseableDays) > 0 {
					fmt.Fprintf(out, " (%s)", strings.Join(report.UnparseableDays, ", "))
				}
				fmt.Fprintln(out)
				fmt.Fprintf(out, "Empty health caches: %d\n", report.EmptyCaches)
				fmt.Fprintf(out, "Tracked days without cache: %d\n", len(report.MissingCacheDays))
				if report.LastHealthSync != "" {
					fmt.Fprintf(out, "Last health sync: %s\n", report.LastHealthSync)
				}
				if doctorFix {
					fmt.Fprintf(out, "Removed caches: %d\n", report.RemovedCaches)
					fmt.Fprintf(out, "Filled caches: %d\n", report.FilledCaches)
				}
			}
			if doctorFix {
				// Re-check after fixes so exit status reflects final state.
				report, err = service.RunDoctor(ctx, env.deps, false)
				if err != nil {
					return err
				}
			}
			if len(report.UnparseableDays) > 0 || report.EmptyCaches > 0 {
				return fmt.Errorf("doctor found integrity issues")
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
	doctorCmd.Flags().BoolVar(&doctorFix, "fix", false, "Remove empty caches and fill missing ones from health data")
	doctorCmd.Flags().BoolVar(&doctorJSON, "json", false, "Output as JSON")
}
