package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"tracksplit/internal/staging"
)

func newStagingCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "staging",
		Short: "Inspect or prune leftover working directories",
	}

	var jsonOutput bool
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List working directories in the staging area",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			dirs, err := staging.List(cfg.Paths.StagingDir)
			if err != nil {
				return fmt.Errorf("list staging directory: %w", err)
			}
			if jsonOutput {
				if dirs == nil {
					dirs = []staging.Workdir{}
				}
				return writeJSON(cmd, dirs)
			}
			if len(dirs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No working directories in staging")
				return nil
			}
			rows := make([][]string, 0, len(dirs))
			var total int64
			for _, d := range dirs {
				total += d.Size
				rows = append(rows, []string{d.Name, humanize.Time(d.ModTime), humanize.Bytes(uint64(d.Size))})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable([]string{"Directory", "Modified", "Size"}, rows, []columnAlignment{alignLeft, alignLeft, alignRight}))
			fmt.Fprintf(out, "%d directories, %s total\n", len(dirs), humanize.Bytes(uint64(total)))
			return nil
		},
	}
	listCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	var olderThan time.Duration
	cleanCmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove working directories older than --older-than",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			logger, err := ctx.logger(cfg)
			if err != nil {
				return err
			}
			result := staging.CleanStale(cmd.Context(), cfg.Paths.StagingDir, olderThan, logger)
			out := cmd.OutOrStdout()
			for _, path := range result.Removed {
				fmt.Fprintf(out, "Removed %s\n", path)
			}
			fmt.Fprintf(out, "Removed %d working %s\n", len(result.Removed), pluralize(int64(len(result.Removed)), "directory", "directories"))
			if len(result.Errors) > 0 {
				first := result.Errors[0]
				return fmt.Errorf("clean %s: %w (%d failures)", first.Path, first.Error, len(result.Errors))
			}
			return nil
		},
	}
	cleanCmd.Flags().DurationVar(&olderThan, "older-than", 24*time.Hour, "Only remove directories older than this (0 removes all)")

	cmd.AddCommand(listCmd, cleanCmd)
	return cmd
}
