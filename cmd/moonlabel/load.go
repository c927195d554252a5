package main

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"moonlabel.dev/internal/app"
	"moonlabel.dev/internal/appconf"
	"moonlabel.dev/internal/chart"
	"moonlabel.dev/internal/dataset"
	"moonlabel.dev/internal/logging"
)

type loadSummary struct {
	Source       string        `json:"source"`
	Hash         string        `json:"hash"`
	Columns      []string      `json:"columns"`
	CodeColumn   string        `json:"codeColumn"`
	LabelColumn  string        `json:"labelColumn"`
	Marker       string        `json:"marker"`
	Stats        dataset.Stats `json:"stats"`
	ClassifiedAt int64         `json:"classifiedAt"`
}

func newLoadCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "load <source>",
		Short: "Fetch and classify a classification sheet",
		Long: `Fetch a CSV or XLSX sheet from a URL or a local path, classify its code
column and print a JSON summary. With --view the chart data of that view
(marked, plain or all) is printed instead.

Defaults come from MOONLABEL_* environment variables and then the flags.`,
		Args: cobra.ExactArgs(1),
		RunE: executeLoadCommand,
	}

	defaults := appconf.Default()
	cmd.Flags().String("encoding", defaults.Encoding, "Text encoding of CSV sources")
	cmd.Flags().String("code-column", defaults.CodeColumn, "Column holding the classification code")
	cmd.Flags().String("label-column", defaults.LabelColumn, "Column used for labels and tooltips")
	cmd.Flags().String("view", "", "Print a chart view (marked|plain|all) instead of the summary")
	cmd.Flags().Bool("verbose", false, "Log progress to stderr")

	return cmd
}

// loadOverrides maps the flags set on cmd onto configuration keys.
func loadOverrides(cmd *cobra.Command, source string) (map[string]any, error) {
	overrides := map[string]any{
		"source":           source,
		"refresh_interval": time.Duration(0),
	}
	for _, name := range []string{"encoding", "code-column", "label-column", "marker"} {
		if !cmd.Flags().Changed(name) {
			continue
		}
		value, err := cmd.Flags().GetString(name)
		if err != nil {
			return nil, err
		}
		overrides[strings.ReplaceAll(name, "-", "_")] = value
	}
	return overrides, nil
}

func executeLoadCommand(cmd *cobra.Command, args []string) error {
	viewName, err := cmd.Flags().GetString("view")
	if err != nil {
		return err
	}
	var name chart.Name
	if viewName != "" {
		var ok bool
		if name, ok = chart.ParseName(viewName); !ok {
			return fmt.Errorf("unknown view %q (want one of marked, plain, all)", viewName)
		}
	}

	overrides, err := loadOverrides(cmd, args[0])
	if err != nil {
		return err
	}
	cfg, err := appconf.Load("", overrides)
	if err != nil {
		return err
	}

	logger := logging.Discard()
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		logger = logging.NewLogger(cmd.ErrOrStderr(), slog.LevelInfo, logging.FormatText)
	}

	manager, err := dataset.InitManager(cmd.Context(), app.DatasetConfig(cfg), dataset.WithLogger(logger))
	if err != nil {
		return err
	}
	defer manager.Shutdown()

	view := manager.View()
	if name != "" {
		built, err := chart.Build(view, name)
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), built)
	}

	return writeJSON(cmd.OutOrStdout(), loadSummary{
		Source:       view.Source,
		Hash:         view.Hash,
		Columns:      view.Columns,
		CodeColumn:   view.CodeColumn,
		LabelColumn:  view.LabelColumn,
		Marker:       view.Marker,
		Stats:        view.Stats(),
		ClassifiedAt: view.ClassifiedAt.UnixMilli(),
	})
}
