package fit

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/johnpc/fit-cli/internal/service"
)

var foodCmd = &cobra.Command{
	Use:   "food",
	Short: "Log and manage food entries",
}

var (
	foodName     string
	foodCalories int
	foodProtein  int
	foodDate     string
	foodNotes    string
	foodPhotos   []string
	foodListJSON bool
)

var foodAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Log a food entry",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(cmd, func(env *runtimeEnv) error {
			ctx := commandContext(cmd)
			day, _, err := resolveDay(env.deps.Days, "date", foodDate)
			if err != nil {
				return err
			}
			id, err := service.CreateFood(ctx, env.db, service.CreateFoodInput{
				Name:     foodName,
				Calories: foodCalories,
				Protein:  optionalIntFlag(cmd, "protein", foodProtein),
				Day:      day,
				Notes:    foodNotes,
				Photos:   foodPhotos,
			})
			if err != nil {
				return err
			}
			service.PublishToday(ctx, env.deps, day)
			fmt.Fprintf(cmd.OutOrStdout(), "Added food %s on %s\n", id, day)
			return nil
		})
	},
}

var foodListCmd = &cobra.Command{
	Use:   "list",
	Short: "List a day's food entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(cmd, func(env *runtimeEnv) error {
			day, _, err := resolveDay(env.deps.Days, "date", foodDate)
			if err != nil {
				return err
			}
			foods, err := service.ListFoodByDay(commandContext(cmd), env.db, day)
			if err != nil {
				return err
			}
			if foodListJSON {
				return printJSON(cmd, foods)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "ID\tNAME\tKCAL\tPROTEIN\tNOTES")
			total := 0
			for _, f := range foods {
				protein := "-"
				if f.Protein != nil {
					protein = fmt.Sprintf("%dg", *f.Protein)
				}
				fmt.Fprintf(out, "%s\t%s\t%d\t%s\t%s\n", f.ID, f.DisplayName(), f.Calories, protein, f.Notes)
				total += f.Calories
			}
			fmt.Fprintf(out, "Total: %d kcal over %d entries (%s)\n", total, len(foods), day)
			return nil
		})
	},
}

var foodUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a food entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(cmd, func(env *runtimeEnv) error {
			ctx := commandContext(cmd)
			existing, err := service.FoodByID(ctx, env.db, args[0])
			if err != nil {
				return err
			}
			in := service.UpdateFoodInput{
				ID:       existing.ID,
				Calories: existing.Calories,
				Protein:  existing.Protein,
				Day:      existing.Day,
				Notes:    existing.Notes,
			}
			if existing.Name != nil {
				in.Name = *existing.Name
			}
			if cmd.Flags().Changed("name") {
				in.Name = foodName
			}
			if cmd.Flags().Changed("calories") {
				in.Calories = foodCalories
			}
			if cmd.Flags().Changed("protein") {
				in.Protein = optionalIntFlag(cmd, "protein", foodProtein)
				if foodProtein == 0 {
					in.Protein = nil
				}
			}
			if cmd.Flags().Changed("notes") {
				in.Notes = foodNotes
			}
			if cmd.Flags().Changed("date") {
				day, _, err := resolveDay(env.deps.Days, "date", foodDate)
				if err != nil {
					return err
				}
				in.Day = day
			}
			if err := service.UpdateFood(ctx, env.db, in); err != nil {
				return err
			}
			service.PublishToday(ctx, env.deps, existing.Day)
			if in.Day != existing.Day {
				service.PublishToday(ctx, env.deps, in.Day)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated food %s\n", existing.ID)
			return nil
		})
	},
}

var foodDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a food entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(cmd, func(env *runtimeEnv) error {
			ctx := commandContext(cmd)
			existing, err := service.FoodByID(ctx, env.db, strings.TrimSpace(args[0]))
			if err != nil {
				return err
			}
			if err := service.DeleteFood(ctx, env.db, existing.ID); err != nil {
				return err
			}
			service.PublishToday(ctx, env.deps, existing.Day)
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted food %s\n", existing.ID)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(foodCmd)
	foodCmd.AddCommand(foodAddCmd, foodListCmd, foodUpdateCmd, foodDeleteCmd)

	for _, c := range []*cobra.Command{foodAddCmd, foodUpdateCmd} {
		c.Flags().StringVar(&foodName, "name", "", "Food name")
		c.Flags().IntVar(&foodCalories, "calories", 0, "Calories")
		c.Flags().IntVar(&foodProtein, "protein", 0, "Protein grams (0 clears on update)")
		c.Flags().StringVar(&foodNotes, "notes", "", "Notes")
		c.Flags().StringVar(&foodDate, "date", "", "Date YYYY-MM-DD (default today)")
	}
	foodAddCmd.Flags().StringSliceVar(&foodPhotos, "photo", nil, "Photo path or key (repeatable)")
	_ = foodAddCmd.MarkFlagRequired("calories")
	foodListCmd.Flags().StringVar(&foodDate, "date", "", "Date YYYY-MM-DD (default today)")
	foodListCmd.Flags().BoolVar(&foodListJSON, "json", false, "Output as JSON")
}
