package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jask/marsestate/internal/listing"
	"github.com/jask/marsestate/internal/logging"
	"github.com/jask/marsestate/internal/overview"
)

func listCmd() *cobra.Command {
	var filterFlag, output string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Fetch listings once and print them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := cfg.Filter()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("filter") {
				if filter, err = listing.ParseFilter(filterFlag); err != nil {
					return err
				}
			}
			level, err := logging.ParseLevel(cfg.Log.Level)
			if err != nil {
				return err
			}
			log := logging.Console(os.Stderr, level)
			return runList(cmd.Context(), cmd.OutOrStdout(), newClient(log), listOptions{
				Filter:   filter,
				Format:   output,
				Currency: cfg.UI.CurrencySymbol,
			}, log)
		},
	}
	cmd.Flags().StringVar(&filterFlag, "filter", "all", "listing filter: all, rent or buy")
	cmd.Flags().StringVarP(&output, "output", "o", "table", "output format: table, json or yaml")
	return cmd
}

type listOptions struct {
	Filter   listing.Filter
	Format   string
	Currency string
}

// runList observes a controller until its first fetch resolves, then renders the items.
func runList(ctx context.Context, w io.Writer, src overview.Source, opts listOptions, log zerolog.Logger) error {
	format := strings.ToLower(strings.TrimSpace(opts.Format))
	if !validFormat(format) {
		return fmt.Errorf("unknown output format %q", opts.Format)
	}

	ctrl := overview.New(src,
		overview.WithInitialFilter(opts.Filter),
		overview.WithLogger(log.With().Str("component", "overview").Logger()),
	)
	defer ctrl.Dispose()

	resolved := make(chan listing.LoadStatus, 1)
	stop := ctrl.Status().Observe(func(s listing.LoadStatus) {
		if !s.Resolved() {
			return
		}
		select {
		case resolved <- s:
		default:
		}
	})
	defer stop()

	var status listing.LoadStatus
	select {
	case status = <-resolved:
	case <-ctx.Done():
		return ctx.Err()
	}
	if status == listing.StatusError {
		return ctrl.LastError()
	}

	items, _ := ctrl.Items().Value()
	return render(w, items, format, opts.Currency)
}

func validFormat(format string) bool {
	switch format {
	case "table", "json", "yaml":
		return true
	}
	return false
}

func render(w io.Writer, items []listing.Listing, format, currency string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(items)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(items); err != nil {
			return err
		}
		return enc.Close()
	default:
		if len(items) == 0 {
			_, err := fmt.Fprintln(w, "No listings match this filter.")
			return err
		}
		t := table.New().
			Border(lipgloss.NormalBorder()).
			Headers("ID", "TYPE", "PRICE", "IMAGE")
		for _, it := range items {
			t.Row(it.ID, it.DisplayType(), it.DisplayPrice(currency), it.ImgSrc)
		}
		_, err := fmt.Fprintln(w, t.Render())
		return err
	}
}
