package fit

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/johnpc/fit-cli/internal/health"
	"github.com/johnpc/fit-cli/internal/service"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Import health samples and refresh the daily burn cache",
}

var (
	healthDate     string
	healthWatch    bool
	healthInterval time.Duration
	healthShowJSON bool
)

var healthImportCmd = &cobra.Command{
	Use:   "import [file|-]",
	Short: "Import health samples from a JSON export",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var r io.Reader = cmd.InOrStdin()
		if len(args) == 1 && args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open health export: %w", err)
			}
			defer f.Close()
			r = f
		}
		samples, err := health.ParseJSON(r)
		if err != nil {
			return err
		}
		return withEnv(cmd, func(env *runtimeEnv) error {
			n, err := health.NewSampleStore(env.db).Add(commandContext(cmd), samples)
			if err != nil {
				return err
			}
			env.log.Info("health_import", zap.Int("read", len(samples)), zap.Int("new", n))
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d new samples (%d read)\n", n, len(samples))
			return nil
		})
	},
}

var healthSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Refresh a day's health cache from imported samples",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(cmd, func(env *runtimeEnv) error {
			if !healthWatch {
				_, date, err := resolveDay(env.deps.Days, "date", healthDate)
				if err != nil {
					return err
				}
				return syncHealthDay(commandContext(cmd), cmd, env, date)
			}

			interval := healthInterval
			if interval <= 0 {
				interval = env.cfg.Health.SyncInterval
			}
			ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()

			c := cron.New()
			_, err := c.AddFunc("@every "+interval.String(), func() {
				if err := syncHealthDay(ctx, cmd, env, time.Now()); err != nil {
					env.log.Warn("health_sync_failed", zap.Error(err))
				}
			})
			if err != nil {
				return fmt.Errorf("schedule health sync: %w", err)
			}
			if err := syncHealthDay(ctx, cmd, env, time.Now()); err != nil {
				env.log.Warn("health_sync_failed", zap.Error(err))
			}
			env.log.Info("health_sync_watch", zap.Duration("interval", interval))
			c.Start()
			<-ctx.Done()
			<-c.Stop().Done()
			return nil
		})
	},
}

func syncHealthDay(ctx context.Context, cmd *cobra.Command, env *runtimeEnv, date time.Time) error {
	cache, err := service.SyncHealthCache(ctx, env.db, env.deps.Health, env.deps.Days, date, env.log)
	if err != nil {
		return err
	}
	day := env.deps.Days.Format(date)
	if cache == nil {
		fmt.Fprintf(cmd.OutOrStdout(), "No health data for %s\n", day)
		return nil
	}
	if env.deps.Days.IsToday(day, time.Now()) {
		env.deps.Mirror.SaveBurned(ctx, cache.Burned())
	}
	if err := service.MarkTime(ctx, env.db, service.StateLastHealthSync, time.Now()); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Synced %s: burned %d kcal, %d steps\n", day, cache.Burned(), cache.StepCount())
	return nil
}

var healthShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show cached daily health totals and imported sample counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(cmd, func(env *runtimeEnv) error {
			ctx := commandContext(cmd)
			caches, err := service.ListHealthCaches(ctx, env.db)
			if err != nil {
				return err
			}
			if healthShowJSON {
				return printJSON(cmd, caches)
			}
			counts, err := health.NewSampleStore(env.db).Count(ctx)
			if err != nil {
				return err
			}
			last, ok, err := service.GetState(ctx, env.db, service.StateLastHealthSync)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if ok {
				fmt.Fprintf(out, "Last sync: %s\n", last)
			} else {
				fmt.Fprintln(out, "Last sync: never")
			}
			kinds := make([]string, 0, len(counts))
			for k := range counts {
				kinds = append(kinds, string(k))
			}
			sort.Strings(kinds)
			for _, k := range kinds {
				fmt.Fprintf(out, "Samples %s: %d\n", k, counts[health.Kind(k)])
			}
			fmt.Fprintln(out, "DAY\tACTIVE\tBASE\tBURNED\tSTEPS")
			for _, c := range caches {
				fmt.Fprintf(out, "%s\t%.0f\t%.0f\t%d\t%d\n", c.Day, c.ActiveCalories, c.BaseCalories, c.Burned(), c.StepCount())
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
	healthCmd.AddCommand(healthImportCmd, healthSyncCmd, healthShowCmd)
	healthSyncCmd.Flags().StringVar(&healthDate, "date", "", "Date YYYY-MM-DD (default today)")
	healthSyncCmd.Flags().BoolVar(&healthWatch, "watch", false, "Keep running and sync today on a schedule")
	healthSyncCmd.Flags().DurationVar(&healthInterval, "interval", 0, "Sync interval for --watch (default from config)")
	healthShowCmd.Flags().BoolVar(&healthShowJSON, "json", false, "Output as JSON")
}
