package logging

import (
	"context"
	"log/slog"

	"tracksplit/internal/services"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldRequestID is the standardized structured logging key for split request identifiers.
	FieldRequestID = "request_id"
	// FieldLocator is the standardized structured logging key for source locators.
	FieldLocator = "locator"
	// FieldExtractor names the extractor that produced a tracklist.
	FieldExtractor = "extractor"
	// FieldTrackCount is the number of tracks in a tracklist or plan.
	FieldTrackCount = "track_count"
	FieldSource     = "source"
	FieldOutput     = "output"
	FieldError      = "error"
)

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 2)
	if rid, ok := services.RequestIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldRequestID, rid))
	}
	if loc, ok := services.LocatorFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldLocator, loc))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(attrsToArgs(fields)...)
}
