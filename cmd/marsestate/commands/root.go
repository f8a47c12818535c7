package commands

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jask/marsestate/internal/config"
	"github.com/jask/marsestate/internal/marsapi"
)

var (
	configPath string
	logLevel   string
	cfg        config.Config
)

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "marsestate",
		Short:        "Browse Mars real-estate listings",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if logLevel != "" {
				loaded.Log.Level = logLevel
			}
			cfg = loaded
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBrowse(cmd.Context())
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.config/marsestate/config.toml)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	root.AddCommand(browseCmd(), listCmd(), configCmd())
	return root
}

func newClient(log zerolog.Logger) *marsapi.Client {
	return marsapi.New(cfg.API.BaseURL,
		marsapi.WithTimeout(cfg.API.Timeout),
		marsapi.WithUserAgent(cfg.API.UserAgent),
		marsapi.WithLogger(log.With().Str("component", "marsapi").Logger()),
	)
}
