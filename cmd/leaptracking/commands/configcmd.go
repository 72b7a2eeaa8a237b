package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/alokshah14/LeapTracking/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the default settings",
	Long: `Write a configuration file populated with the default settings so they
can be edited. Refuses to overwrite an existing file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, dataDir, err := loadConfig()
		if err != nil {
			return err
		}

		path := flagConfig
		if path == "" {
			path = config.Path(dataDir)
		}
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file %s already exists", path)
		}

		if err := cfg.Save(path); err != nil {
			return err
		}
		fmt.Println("Wrote", path)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}
