package fit

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"github.com/johnpc/fit-cli/internal/service"
)

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Show or change display preferences",
}

var (
	prefsHideProtein bool
	prefsHideSteps   bool
)

var prefsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show display preferences",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sqlx.DB) error {
			p, err := service.GetPreferences(commandContext(cmd), sqldb)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "hide_protein=%t\nhide_steps=%t\n", p.HideProtein, p.HideSteps)
			return nil
		})
	},
}

var prefsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Change display preferences",
	RunE: func(cmd *cobra.Command, args []string) error {
		var in service.PreferencesInput
		if cmd.Flags().Changed("hide-protein") {
			v := prefsHideProtein
			in.HideProtein = &v
		}
		if cmd.Flags().Changed("hide-steps") {
			v := prefsHideSteps
			in.HideSteps = &v
		}
		if in.HideProtein == nil && in.HideSteps == nil {
			return fmt.Errorf("nothing to set: pass --hide-protein and/or --hide-steps")
		}
		return withDB(func(sqldb *sqlx.DB) error {
			p, err := service.UpdatePreferences(commandContext(cmd), sqldb, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "hide_protein=%t\nhide_steps=%t\n", p.HideProtein, p.HideSteps)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(prefsCmd)
	prefsCmd.AddCommand(prefsShowCmd, prefsSetCmd)
	prefsSetCmd.Flags().BoolVar(&prefsHideProtein, "hide-protein", false, "Hide protein totals")
	prefsSetCmd.Flags().BoolVar(&prefsHideSteps, "hide-steps", false, "Hide step counts")
}
