package fit

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/johnpc/fit-cli/internal/service"
)

var aphorismCmd = &cobra.Command{
	Use:   "aphorism",
	Short: "Print a random motivational line",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), service.RandomAphorism(nil))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(aphorismCmd)
}
