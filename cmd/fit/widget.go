package fit

import (
	"fmt"

	"github.com/spf13/cobra"
)

var widgetJSON bool

var widgetCmd = &cobra.Command{
	Use:   "widget",
	Short: "Show today's totals as published for widgets",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(cmd, func(env *runtimeEnv) error {
			w, err := env.deps.Mirror.Widget(commandContext(cmd))
			if err != nil {
				return err
			}
			if w == nil {
				if widgetJSON {
					return printJSON(cmd, nil)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "No totals published today")
				return nil
			}
			if widgetJSON {
				return printJSON(cmd, w)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d eaten, %d burned, %d remaining\n", w.Day, w.Consumed, w.Burned, w.Remaining())
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(widgetCmd)
	widgetCmd.Flags().BoolVar(&widgetJSON, "json", false, "Output as JSON")
}
