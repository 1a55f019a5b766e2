package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"tracksplit/internal/splitter"
)

type splitResultView struct {
	RequestID  string `json:"request_id"`
	Locator    string `json:"locator"`
	Extractor  string `json:"extractor,omitempty"`
	TrackCount int    `json:"track_count"`
	OutputPath string `json:"output_path,omitempty"`
	Error      string `json:"error,omitempty"`
}

func newSplitCommand(ctx *commandContext) *cobra.Command {
	var flags requestFlags
	var limit int

	cmd := &cobra.Command{
		Use:   "split <file>...",
		Short: "Split one or more recordings into tracks",
		Long: `Infer a tracklist for each file and cut it into one tagged MP3 per track.

The tracklist comes from the file's description sidecar (<name>.description or
<name>.txt), its embedded description tag, --tracklist-file, or a cue sheet.

Examples:
  tracksplit split concert.mkv
  tracksplit split set.webm --album "Live at Home" --year 2024
  tracksplit split a.mkv b.mkv --output ~/Music/live --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			req, err := flags.request()
			if err != nil {
				return err
			}
			p, err := ctx.newPipeline(cmd, cfg, pipelineOptions{cueFile: flags.cueFile, withHistory: true})
			if err != nil {
				return err
			}
			defer p.Close()

			results, splitErr := p.splitter.SplitAll(cmd.Context(), args, req, limit)
			views := splitResultViews(results)
			if flags.jsonOutput {
				if err := writeJSON(cmd, views); err != nil {
					return err
				}
				return splitErr
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderSplitTable(views))
			return splitErr
		},
	}

	flags.bind(cmd)
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum requests processed at once (default: split.max_concurrent)")
	return cmd
}

func splitResultViews(results []splitter.Result) []splitResultView {
	views := make([]splitResultView, 0, len(results))
	for _, res := range results {
		view := splitResultView{
			RequestID:  res.RequestID,
			Locator:    res.Locator,
			OutputPath: res.OutputPath,
		}
		if res.Tracklist != nil {
			view.Extractor = res.Tracklist.Extractor
			view.TrackCount = res.Tracklist.Len()
		}
		if res.Err != nil {
			view.Error = res.Err.Error()
		}
		views = append(views, view)
	}
	return views
}

func renderSplitTable(views []splitResultView) string {
	rows := make([][]string, 0, len(views))
	for _, v := range views {
		outcome := v.OutputPath
		if v.Error != "" {
			outcome = "failed: " + v.Error
		}
		rows = append(rows, []string{
			shortID(v.RequestID),
			v.Locator,
			v.Extractor,
			strconv.Itoa(v.TrackCount),
			outcome,
		})
	}
	return renderTable(
		[]string{"Request", "Source", "Extractor", "Tracks", "Output"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
	)
}
