package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"tracksplit/internal/history"
	"tracksplit/internal/services"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent split requests",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openHistory(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if jsonOutput {
				if entries == nil {
					entries = []history.Entry{}
				}
				return writeJSON(cmd, entries)
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No split requests recorded")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderHistoryTable(entries))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of entries to show (0 for all)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	var showJSON bool
	showCmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one recorded request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openHistory(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			entry, err := store.Get(cmd.Context(), strings.TrimSpace(args[0]))
			if err != nil {
				return err
			}
			if entry == nil {
				return services.Wrap(services.ErrNotFound, "history", "show", fmt.Sprintf("no request with id %q", args[0]), nil)
			}
			if showJSON {
				return writeJSON(cmd, entry)
			}
			for _, line := range historyEntryLines(*entry) {
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}
	showCmd.Flags().BoolVar(&showJSON, "json", false, "Output as JSON")
	cmd.AddCommand(showCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Delete every recorded request",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openHistory(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			removed, err := store.Clear(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d history %s\n", removed, pluralize(removed, "entry", "entries"))
			return nil
		},
	})
	return cmd
}

func openHistory(ctx *commandContext) (*history.Store, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	if !cfg.History.Enabled {
		return nil, services.Wrap(services.ErrConfiguration, "history", "open", "history is disabled in configuration", nil)
	}
	return history.Open(cfg)
}

func renderHistoryTable(entries []history.Entry) string {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		outcome := e.OutputPath
		if e.Status == history.StatusFailed {
			outcome = e.Error
		}
		rows = append(rows, []string{
			shortID(e.ID),
			humanize.Time(e.CreatedAt),
			string(e.Status),
			e.Locator,
			e.Extractor,
			strconv.Itoa(e.TrackCount),
			outcome,
		})
	}
	return renderTable(
		[]string{"Request", "When", "Status", "Source", "Extractor", "Tracks", "Output / Error"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
	)
}

func historyEntryLines(e history.Entry) []string {
	lines := []string{
		fmt.Sprintf("Request:    %s", e.ID),
		fmt.Sprintf("Recorded:   %s (%s)", e.CreatedAt.Local().Format("2006-01-02 15:04:05"), humanize.Time(e.CreatedAt)),
		fmt.Sprintf("Status:     %s", e.Status),
		fmt.Sprintf("Source:     %s", e.Locator),
		fmt.Sprintf("Extractor:  %s", valueOrDash(e.Extractor)),
		fmt.Sprintf("Tracks:     %d", e.TrackCount),
	}
	if e.OutputPath != "" {
		lines = append(lines, fmt.Sprintf("Output:     %s", e.OutputPath))
	}
	if e.Error != "" {
		lines = append(lines, fmt.Sprintf("Error:      %s", e.Error))
	}
	return lines
}

func pluralize(n int64, singular, plural string) string {
	if n == 1 {
		return singular
	}
	return plural
}
