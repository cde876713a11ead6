package fit

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/johnpc/fit-cli/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change fit configuration",
}

var configShowJSON bool

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolveConfigPath()
		if err != nil {
			return err
		}
		cfg, err := config.Load(path)
		if err != nil {
			return err
		}
		if configShowJSON {
			masked := *cfg
			if masked.Server.JWTSecret != "" {
				masked.Server.JWTSecret = "(set)"
			}
			return printJSON(cmd, masked)
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "config_file\t%s\n", path)
		fmt.Fprintf(out, "db_path\t%s\n", cfg.DBPath)
		fmt.Fprintf(out, "day_format\t%s\n", cfg.DayFormat)
		fmt.Fprintf(out, "streak.batch_size\t%d\n", cfg.Streak.BatchSize)
		fmt.Fprintf(out, "log.level\t%s\n", cfg.Log.Level)
		fmt.Fprintf(out, "log.file\t%s\n", cfg.Log.File)
		fmt.Fprintf(out, "mirror.backend\t%s\n", cfg.Mirror.Backend)
		fmt.Fprintf(out, "mirror.path\t%s\n", cfg.Mirror.Path)
		fmt.Fprintf(out, "mirror.redis_addr\t%s\n", cfg.Mirror.RedisAddr)
		fmt.Fprintf(out, "health.sync_interval\t%s\n", cfg.Health.SyncInterval)
		fmt.Fprintf(out, "server.addr\t%s\n", cfg.Server.Addr)
		fmt.Fprintf(out, "server.rate_limit\t%g\n", cfg.Server.RateLimit)
		secret := "(keyring)"
		if cfg.Server.JWTSecret != "" {
			secret = "(set)"
		}
		fmt.Fprintf(out, "server.jwt_secret\t%s\n", secret)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolveConfigPath()
		if err != nil {
			return err
		}
		if err := config.Set(path, args[0], args[1]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Set %s in %s\n", args[0], path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd, configSetCmd)
	configShowCmd.Flags().BoolVar(&configShowJSON, "json", false, "Output as JSON")
}
