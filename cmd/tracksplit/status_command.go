package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tracksplit/internal/deps"
	"tracksplit/internal/history"
	"tracksplit/internal/preflight"
	"tracksplit/internal/services"
)

type statusReport struct {
	ConfigPath   string             `json:"config_path"`
	ConfigExists bool               `json:"config_exists"`
	HistoryPath  string             `json:"history_path,omitempty"`
	Dependencies []deps.Status      `json:"dependencies"`
	Checks       []preflight.Result `json:"checks"`
	Healthy      bool               `json:"healthy"`
}

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Check external binaries and configured directories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}

			report := statusReport{
				ConfigPath:   ctx.resolvedPath,
				ConfigExists: ctx.configExists,
				Dependencies: preflight.CheckSystemDeps(cmd.Context(), cfg),
				Checks:       preflight.RunAll(cmd.Context(), cfg),
			}
			historyDetail := "disabled"
			if cfg.History.Enabled {
				store, err := history.Open(cfg)
				if err != nil {
					report.Checks = append(report.Checks, preflight.Result{Name: "History database", Detail: err.Error()})
				} else {
					report.HistoryPath = store.Path()
					historyDetail = store.Path()
					_ = store.Close()
				}
			}
			report.Healthy = len(deps.Missing(report.Dependencies)) == 0 && preflight.AllPassed(report.Checks)

			if jsonOutput {
				if err := writeJSON(cmd, report); err != nil {
					return err
				}
			} else {
				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)
				configDetail := report.ConfigPath
				if !report.ConfigExists {
					configDetail += " (not found, using defaults)"
				}
				fmt.Fprintln(out, renderStatusLine("Config", statusInfo, configDetail, colorize))
				fmt.Fprintln(out, renderStatusLine("History", statusInfo, historyDetail, colorize))
				fmt.Fprintln(out)
				for _, line := range renderSectionHeader("Dependencies", colorize) {
					fmt.Fprintln(out, line)
				}
				for _, line := range dependencyLines(report.Dependencies, colorize) {
					fmt.Fprintln(out, line)
				}
				fmt.Fprintln(out)
				for _, line := range renderSectionHeader("Directories", colorize) {
					fmt.Fprintln(out, line)
				}
				for _, line := range checkLines(report.Checks, colorize) {
					fmt.Fprintln(out, line)
				}
			}

			if !report.Healthy {
				return services.Wrap(services.ErrConfiguration, "status", "check", "one or more checks failed", nil)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}
