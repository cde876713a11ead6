package fit

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/johnpc/fit-cli/internal/config"
	"github.com/johnpc/fit-cli/internal/credential"
	"github.com/johnpc/fit-cli/internal/server"
)

var (
	serveAddr   string
	tokenDevice string
	tokenTTL    time.Duration
)

// signingSecret prefers the configured secret and otherwise uses the one kept
// in the keyring next to the config file.
func signingSecret(cfg *config.AppConfig) ([]byte, error) {
	if cfg.Server.JWTSecret != "" {
		return []byte(cfg.Server.JWTSecret), nil
	}
	cfgPath, err := resolveConfigPath()
	if err != nil {
		return nil, err
	}
	store, err := credential.Open(filepath.Join(filepath.Dir(cfgPath), "credentials"))
	if err != nil {
		return nil, err
	}
	secret, err := store.SigningSecret()
	if err != nil {
		return nil, err
	}
	return []byte(secret), nil
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the JSON API for companion devices",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(cmd, func(env *runtimeEnv) error {
			secret, err := signingSecret(env.cfg)
			if err != nil {
				return err
			}
			addr := serveAddr
			if addr == "" {
				addr = env.cfg.Server.Addr
			}
			srv := server.New(env.deps, server.Options{
				Secret:      secret,
				RateLimit:   env.cfg.Server.RateLimit,
				Burst:       int(env.cfg.Server.RateLimit) * 2,
				StreakBatch: env.cfg.Streak.BatchSize,
			})
			ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()
			fmt.Fprintf(cmd.OutOrStdout(), "Listening on %s\n", addr)
			return srv.Run(ctx, addr)
		})
	},
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a bearer token for a companion device",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		secret, err := signingSecret(cfg)
		if err != nil {
			return err
		}
		token, err := server.IssueToken(secret, tokenDevice, tokenTTL, time.Now())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd, tokenCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config)")
	tokenCmd.Flags().StringVar(&tokenDevice, "device", "watch", "Device name carried in the token")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 0, "Token lifetime (0 never expires)")
}
