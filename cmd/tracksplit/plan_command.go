package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"tracksplit/internal/segment"
	"tracksplit/internal/splitter"
	"tracksplit/internal/timecode"
	"tracksplit/internal/transcoder"
)

func newPlanCommand(ctx *commandContext) *cobra.Command {
	var flags requestFlags
	var showCommand bool

	cmd := &cobra.Command{
		Use:   "plan <file>",
		Short: "Show the tracks a split would produce without cutting anything",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			req, err := flags.request()
			if err != nil {
				return err
			}
			p, err := ctx.newPipeline(cmd, cfg, pipelineOptions{cueFile: flags.cueFile})
			if err != nil {
				return err
			}
			defer p.Close()

			plan, err := p.splitter.PlanOnly(cmd.Context(), args[0], req)
			if err != nil {
				return err
			}
			if flags.jsonOutput {
				return writeJSON(cmd, plan)
			}
			out := cmd.OutOrStdout()
			for _, line := range planSummaryLines(plan, p.splitter.Extractors().Names()) {
				fmt.Fprintln(out, line)
			}
			fmt.Fprintln(out, renderPlanTable(plan))
			if showCommand {
				fmt.Fprintln(out)
				for _, line := range planCommandLines(p.transcoder, plan) {
					fmt.Fprintln(out, line)
				}
			}
			return nil
		},
	}

	flags.bind(cmd)
	cmd.Flags().BoolVar(&showCommand, "command", false, "Also print the ffmpeg invocations a split would run")
	return cmd
}

func planSummaryLines(plan *splitter.Plan, chain []string) []string {
	tl := plan.Tracklist
	lines := []string{
		fmt.Sprintf("Source:     %s (%s)", plan.Locator, plan.Source.Duration),
		fmt.Sprintf("Chain:      %s", strings.Join(chain, " -> ")),
		fmt.Sprintf("Extractor:  %s", tl.Extractor),
		fmt.Sprintf("Album:      %s", valueOrDash(tl.AlbumName)),
		fmt.Sprintf("Artist:     %s", valueOrDash(tl.ArtistName)),
	}
	if tl.AlbumYear > 0 {
		lines = append(lines, fmt.Sprintf("Year:       %d", tl.AlbumYear))
	}
	lines = append(lines,
		fmt.Sprintf("Tracks:     %d (%s)", tl.Len(), timecode.FormatSeconds(segment.TotalDuration(plan.Jobs))),
		fmt.Sprintf("Normalize:  %s", yesNo(plan.Normalize)),
	)
	return lines
}

// planCommandLines renders the normalize step, when needed, and the batch cut
// as shell command lines.
func planCommandLines(tc *transcoder.Transcoder, plan *splitter.Plan) []string {
	source := plan.Locator
	lines := []string{fmt.Sprintf("# commands run by %s", tc.Binary())}
	if plan.Normalize {
		intermediate := plan.Locator + segment.DefaultExtension
		lines = append(lines, tc.DryRun(tc.NormalizeArgs(plan.Locator, intermediate)))
		source = intermediate
	}
	return append(lines, tc.DryRun(tc.CutArgs(source, plan.Jobs)))
}

func renderPlanTable(plan *splitter.Plan) string {
	rows := make([][]string, 0, len(plan.Jobs))
	for _, job := range plan.Jobs {
		rows = append(rows, []string{
			strconv.Itoa(job.Metadata.TrackNumber),
			job.Metadata.Title,
			timecode.FormatSeconds(job.StartOffsetSeconds),
			timecode.FormatSeconds(job.DurationSeconds),
			job.OutputFilename,
		})
	}
	return renderTable(
		[]string{"#", "Title", "Start", "Length", "File"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignRight, alignRight, alignLeft},
	)
}

func valueOrDash(value string) string {
	if value == "" {
		return "-"
	}
	return value
}
