package commands

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/jask/marsestate/internal/logging"
	"github.com/jask/marsestate/internal/overview"
	"github.com/jask/marsestate/internal/tui"
)

func browseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Open the interactive listings browser",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBrowse(cmd.Context())
		},
	}
}

func runBrowse(ctx context.Context) error {
	log, closer, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer closer.Close()

	filter, err := cfg.Filter()
	if err != nil {
		return err
	}

	client := newClient(log)

	bridge := tui.NewBridge()
	ctrl := overview.New(client,
		overview.WithDispatcher(bridge.Dispatch),
		overview.WithLogger(log.With().Str("component", "overview").Logger()),
		overview.WithInitialFilter(filter),
	)
	app := tui.New(ctrl, bridge, cfg, log)

	log.Info().Str("base_url", cfg.API.BaseURL).Str("filter", filter.String()).Msg("starting browser")
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	_, runErr := p.Run()

	app.Close()
	bridge.Close()
	ctrl.Dispose()

	if runErr != nil {
		return fmt.Errorf("run ui: %w", runErr)
	}
	return nil
}
