package services_test

import (
	"context"
	"testing"

	"tracksplit/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithRequestID(ctx, "req-123")
	ctx = services.WithLocator(ctx, "/music/live.webm")

	if rid, ok := services.RequestIDFromContext(ctx); !ok || rid != "req-123" {
		t.Fatalf("unexpected request id: %v %v", rid, ok)
	}
	if loc, ok := services.LocatorFromContext(ctx); !ok || loc != "/music/live.webm" {
		t.Fatalf("unexpected locator: %v %v", loc, ok)
	}
}

func TestBlankValuesPreserveContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithRequestID(ctx, "")
	ctx = services.WithLocator(ctx, "")
	if _, ok := services.RequestIDFromContext(ctx); ok {
		t.Fatal("expected no request id")
	}
	if _, ok := services.LocatorFromContext(ctx); ok {
		t.Fatal("expected no locator")
	}
}
