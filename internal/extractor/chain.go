package extractor

import (
	"context"
	"fmt"
	"sync"

	"tracksplit/internal/events"
	"tracksplit/internal/tracklist"
)

// Decision is an extractor's verdict for one attempt.
type Decision int

const (
	// Decline hands control to the next extractor.
	Decline Decision = iota
	// Halt makes this extractor's tracklist final and stops the chain.
	Halt
)

func (d Decision) String() string {
	if d == Halt {
		return "halt"
	}
	return "decline"
}

// AssetContext is the read-only input shared by every extractor.
type AssetContext struct {
	Description     string
	Duration        string
	DurationSeconds int
	AlbumName       string
	ArtistName      string
	AlbumYear       int
	TracklistData   string
}

// EffectiveDescription returns caller-supplied tracklist text when present,
// otherwise the asset description.
func (a AssetContext) EffectiveDescription() string {
	if a.TracklistData != "" {
		return a.TracklistData
	}
	return a.Description
}

// Overrides returns the caller-supplied album fields.
func (a AssetContext) Overrides() tracklist.Overrides {
	return tracklist.Overrides{AlbumName: a.AlbumName, ArtistName: a.ArtistName, AlbumYear: a.AlbumYear}
}

// Context is handed to each extractor. Tracklist starts empty for every
// attempt.
type Context struct {
	Asset     AssetContext
	Tracklist *tracklist.Tracklist

	requestID string
	bus       *events.Bus
}

// Messagef reports diagnostic progress to the chain's observers.
func (c *Context) Messagef(format string, args ...any) {
	c.bus.Messagef(c.requestID, format, args...)
}

// Extractor is one tracklist inference strategy.
type Extractor interface {
	Name() string
	Extract(ctx context.Context, ec *Context) (Decision, error)
}

// Func adapts a plain function to Extractor.
func Func(name string, fn func(ctx context.Context, ec *Context) (Decision, error)) Extractor {
	return funcExtractor{name: name, fn: fn}
}

type funcExtractor struct {
	name string
	fn   func(ctx context.Context, ec *Context) (Decision, error)
}

func (f funcExtractor) Name() string { return f.name }

func (f funcExtractor) Extract(ctx context.Context, ec *Context) (Decision, error) {
	return f.fn(ctx, ec)
}

// Chain runs extractors in registration order until one halts.
type Chain struct {
	mu         sync.RWMutex
	extractors []Extractor
	bus        *events.Bus
}

// NewChain builds a chain with the given extractors.
func NewChain(bus *events.Bus, extractors ...Extractor) *Chain {
	c := &Chain{bus: bus}
	for _, e := range extractors {
		c.Add(e)
	}
	return c
}

// Default builds a chain holding only the free-text heuristic.
func Default(bus *events.Bus) *Chain {
	return NewChain(bus, NewHeuristic())
}

// Add appends an extractor; it runs after every extractor already present.
func (c *Chain) Add(e Extractor) {
	if e == nil {
		return
	}
	c.mu.Lock()
	c.extractors = append(c.extractors, e)
	c.mu.Unlock()
}

// Names lists extractor names in run order.
func (c *Chain) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.extractors))
	for _, e := range c.extractors {
		names = append(names, e.Name())
	}
	return names
}

// Run executes the chain against asset. The first extractor to halt wins and
// its tracklist is returned. When every extractor declines the returned
// tracklist is empty and err is nil; callers must treat that as failure.
func (c *Chain) Run(ctx context.Context, asset AssetContext) (*tracklist.Tracklist, error) {
	return c.RunRequest(ctx, "", asset)
}

// RunRequest is Run with a request ID stamped on emitted events.
func (c *Chain) RunRequest(ctx context.Context, requestID string, asset AssetContext) (*tracklist.Tracklist, error) {
	c.mu.RLock()
	extractors := append([]Extractor(nil), c.extractors...)
	c.mu.RUnlock()

	for _, e := range extractors {
		if err := ctx.Err(); err != nil {
			return tracklist.New(), err
		}
		name := e.Name()
		ec := &Context{Asset: asset, Tracklist: tracklist.New(), requestID: requestID, bus: c.bus}
		ec.Messagef("Extractor %q starting...", name)

		decision, err := e.Extract(ctx, ec)
		if err != nil {
			return tracklist.New(), fmt.Errorf("extractor %s: %w", name, err)
		}
		if ec.Tracklist == nil {
			ec.Tracklist = tracklist.New()
		}
		if ec.Tracklist.Empty() {
			ec.Messagef("Extractor %q did not find any songs.", name)
		} else {
			ec.Messagef("Extractor %q found %d songs.", name, ec.Tracklist.Len())
		}
		if decision == Halt {
			if ec.Tracklist.Extractor == "" {
				ec.Tracklist.Extractor = name
			}
			return ec.Tracklist, nil
		}
	}
	return tracklist.New(), nil
}
