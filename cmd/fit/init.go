package fit

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/johnpc/fit-cli/internal/app"
	"github.com/johnpc/fit-cli/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize local fit database and config",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolveDBPath()
		if err != nil {
			return err
		}
		sqldb, err := openDB(path)
		if err != nil {
			return err
		}
		defer sqldb.Close()

		cfgPath, err := resolveConfigPath()
		if err != nil {
			return err
		}
		if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
			if err := config.Set(cfgPath, "log.file", app.LogPath(cfgPath)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote config to %s\n", cfgPath)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Initialized fit database at %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
