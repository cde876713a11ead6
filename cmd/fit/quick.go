package fit

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"github.com/johnpc/fit-cli/internal/service"
)

var quickCmd = &cobra.Command{
	Use:   "quick",
	Short: "Manage quick-add presets",
}

var (
	quickName     string
	quickCalories int
	quickProtein  int
	quickIcon     string
	quickDate     string
	quickListJSON bool
)

var quickAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Save a quick-add preset",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sqlx.DB) error {
			id, err := service.CreateQuickAdd(commandContext(cmd), sqldb, service.QuickAddInput{
				Name:     quickName,
				Calories: quickCalories,
				Protein:  optionalIntFlag(cmd, "protein", quickProtein),
				Icon:     quickIcon,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved quick add %s\n", id)
			return nil
		})
	},
}

var quickListCmd = &cobra.Command{
	Use:   "list",
	Short: "List quick-add presets (defaults when none are saved)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sqlx.DB) error {
			items, err := service.EffectiveQuickAdds(commandContext(cmd), sqldb)
			if err != nil {
				return err
			}
			if quickListJSON {
				return printJSON(cmd, items)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ID\tICON\tNAME\tKCAL\tPROTEIN")
			for _, q := range items {
				protein := "-"
				if q.Protein != nil {
					protein = fmt.Sprintf("%dg", *q.Protein)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%d\t%s\n", q.ID, q.Icon, q.Name, q.Calories, protein)
			}
			return nil
		})
	},
}

var quickUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a saved quick-add preset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sqlx.DB) error {
			ctx := commandContext(cmd)
			existing, err := service.QuickAddByID(ctx, sqldb, args[0])
			if err != nil {
				return err
			}
			in := service.QuickAddInput{
				ID:       existing.ID,
				Name:     existing.Name,
				Calories: existing.Calories,
				Protein:  existing.Protein,
				Icon:     existing.Icon,
			}
			if cmd.Flags().Changed("name") {
				in.Name = quickName
			}
			if cmd.Flags().Changed("calories") {
				in.Calories = quickCalories
			}
			if cmd.Flags().Changed("protein") {
				in.Protein = optionalIntFlag(cmd, "protein", quickProtein)
				if quickProtein == 0 {
					in.Protein = nil
				}
			}
			if cmd.Flags().Changed("icon") {
				in.Icon = quickIcon
			}
			if err := service.UpdateQuickAdd(ctx, sqldb, in); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated quick add %s\n", in.ID)
			return nil
		})
	},
}

var quickDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a saved quick-add preset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sqlx.DB) error {
			if err := service.DeleteQuickAdd(commandContext(cmd), sqldb, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted quick add %s\n", args[0])
			return nil
		})
	},
}

var quickUseCmd = &cobra.Command{
	Use:   "use <id>",
	Short: "Log a food entry from a quick-add preset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(cmd, func(env *runtimeEnv) error {
			ctx := commandContext(cmd)
			day, _, err := resolveDay(env.deps.Days, "date", quickDate)
			if err != nil {
				return err
			}
			id, err := service.UseQuickAdd(ctx, env.db, args[0], day)
			if err != nil {
				return err
			}
			service.PublishToday(ctx, env.deps, day)
			fmt.Fprintf(cmd.OutOrStdout(), "Added food %s on %s\n", id, day)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(quickCmd)
	quickCmd.AddCommand(quickAddCmd, quickListCmd, quickUpdateCmd, quickDeleteCmd, quickUseCmd)

	for _, c := range []*cobra.Command{quickAddCmd, quickUpdateCmd} {
		c.Flags().StringVar(&quickName, "name", "", "Preset name")
		c.Flags().IntVar(&quickCalories, "calories", 0, "Calories")
		c.Flags().IntVar(&quickProtein, "protein", 0, "Protein grams (0 clears on update)")
		c.Flags().StringVar(&quickIcon, "icon", "", "Emoji icon")
	}
	_ = quickAddCmd.MarkFlagRequired("name")
	_ = quickAddCmd.MarkFlagRequired("calories")
	quickListCmd.Flags().BoolVar(&quickListJSON, "json", false, "Output as JSON")
	quickUseCmd.Flags().StringVar(&quickDate, "date", "", "Date YYYY-MM-DD (default today)")
}
