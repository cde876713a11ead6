package fit

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/johnpc/fit-cli/internal/relay"
)

var relayFile string

var relayCmd = &cobra.Command{
	Use:   "relay",
	Short: "Apply companion-device messages (one JSON object per line) and print today's snapshot after each",
	RunE: func(cmd *cobra.Command, args []string) error {
		var r io.Reader = cmd.InOrStdin()
		if relayFile != "" && relayFile != "-" {
			f, err := os.Open(relayFile)
			if err != nil {
				return fmt.Errorf("open messages: %w", err)
			}
			defer f.Close()
			r = f
		}
		return withEnv(cmd, func(env *runtimeEnv) error {
			n, err := relay.NewDispatcher(env.deps).Serve(commandContext(cmd), r, cmd.OutOrStdout())
			env.log.Info("relay_done", zap.Int("messages", n))
			return err
		})
	},
}

func init() {
	rootCmd.AddCommand(relayCmd)
	relayCmd.Flags().StringVar(&relayFile, "file", "", "Read messages from a file instead of stdin")
}
