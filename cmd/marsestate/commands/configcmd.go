package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/jask/marsestate/internal/config"
	"github.com/jask/marsestate/internal/listing"
)

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
		// The file may not exist yet, so skip the root's config load.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	}
	cmd.AddCommand(configInitCmd())
	return cmd
}

func configInitCmd() *cobra.Command {
	var force bool
	var filterFlag string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the default settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := configPath
			if path == "" {
				path = config.Path()
			}
			var filter *listing.Filter
			if cmd.Flags().Changed("default-filter") {
				f, err := listing.ParseFilter(filterFlag)
				if err != nil {
					return err
				}
				filter = &f
			}
			if err := initConfig(path, force, filter); err != nil {
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return err
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")
	cmd.Flags().StringVar(&filterFlag, "default-filter", "all", "filter shown at startup: all, rent or buy")
	return cmd
}

// initConfig writes the default configuration to path. An existing file is kept
// unless force is set.
func initConfig(path string, force bool, filter *listing.Filter) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config %s already exists (use --force to overwrite)", path)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("stat config: %w", err)
		}
	}
	c, err := config.Defaults()
	if err != nil {
		return err
	}
	if logLevel != "" {
		c.Log.Level = logLevel
	}
	if filter != nil {
		c.UI.DefaultFilter = filter.Value()
	}
	return config.Save(path, c)
}
