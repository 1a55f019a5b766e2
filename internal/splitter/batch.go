package splitter

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"tracksplit/internal/segment"
	"tracksplit/internal/services"
	"tracksplit/internal/source"
	"tracksplit/internal/tracklist"
)

// SplitAll runs one Split per locator with at most limit in flight; limit <= 0
// uses the configured concurrency. Requests are independent: a failure does
// not cancel the others. Results keep the order of locators and the returned
// error joins every request error.
func (s *Splitter) SplitAll(ctx context.Context, locators []string, req Request, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = s.limit
	}
	results := make([]Result, len(locators))

	var g errgroup.Group
	g.SetLimit(limit)
	for i, locator := range locators {
		g.Go(func() error {
			res, err := s.Split(ctx, locator, req)
			res.Err = err
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()

	var errs []error
	for _, res := range results {
		if res.Err != nil {
			errs = append(errs, res.Err)
		}
	}
	return results, errors.Join(errs...)
}

// Plan is the dry-run view of a request.
type Plan struct {
	Locator   string               `json:"locator"`
	Source    source.Info          `json:"source"`
	Tracklist *tracklist.Tracklist `json:"tracklist"`
	Jobs      []segment.Job        `json:"jobs"`
	Normalize bool                 `json:"normalize"`
}

// PlanOnly infers the tracklist and job list for locator without fetching or
// transcoding anything.
func (s *Splitter) PlanOnly(ctx context.Context, locator string, req Request) (*Plan, error) {
	requestID := uuid.NewString()
	ctx = services.WithRequestID(ctx, requestID)
	info, tl, err := s.resolve(ctx, requestID, locator, req)
	if err != nil {
		return nil, err
	}

	outputDir := req.OutputDir
	if outputDir == "" {
		outputDir = s.outputDir
	}
	if outputDir == "" {
		outputDir = filepath.Dir(locator)
	}
	jobs, err := segment.Plan(locator, tl, segment.Options{OutputDir: outputDir, Extension: s.extension})
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "splitter", "plan", "", err)
	}
	return &Plan{
		Locator:   locator,
		Source:    info,
		Tracklist: tl,
		Jobs:      jobs,
		Normalize: !strings.EqualFold(filepath.Ext(locator), s.extension),
	}, nil
}
