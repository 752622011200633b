package imagecatalog

import (
	"context"
	"log"
	"sync"

	"github.com/jtylerm/PTExerciseApp/internal/matching"
	"github.com/jtylerm/PTExerciseApp/internal/observability"
)

// State describes the dataset load lifecycle.
type State string

const (
	StateUnloaded   State = "unloaded"
	StateLoading    State = "loading"
	StateLoaded     State = "loaded"
	StateLoadFailed State = "load_failed"
)

// Catalog holds the process-scoped image reference dataset. The dataset is
// fetched lazily on first lookup and kept for the process lifetime. A failed
// load is retried on the next lookup. The mutex is held across the fetch so
// concurrent lookups wait for a single in-flight load instead of racing
// duplicate fetches.
type Catalog struct {
	source  Source
	baseURL string
	logger  *log.Logger

	mu      sync.Mutex
	state   State
	entries []matching.Entry
}

// Option configures catalog behaviour.
type Option func(*Catalog)

// WithLogger sets a custom logger.
func WithLogger(l *log.Logger) Option {
	return func(c *Catalog) { c.logger = l }
}

// New constructs a catalog over the given source. baseURL prefixes every
// relative image fragment returned by Lookup.
func New(source Source, baseURL string, opts ...Option) *Catalog {
	c := &Catalog{
		source:  source,
		baseURL: baseURL,
		logger:  log.Default(),
		state:   StateUnloaded,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Lookup resolves the exercise name to fully-qualified image URLs. Every
// failure mode, including an unavailable dataset, degrades to a not-found
// result; Lookup never returns an error.
func (c *Catalog) Lookup(ctx context.Context, exerciseName string) matching.Result {
	entries, ok := c.ensureLoaded(ctx)
	if !ok {
		observability.RecordImageLookup(false)
		return matching.NoMatch
	}

	result := matching.Lookup(exerciseName, entries, c.baseURL)
	observability.RecordImageLookup(result.Found)
	return result
}

// State reports the current lifecycle state.
func (c *Catalog) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Catalog) ensureLoaded(ctx context.Context) ([]matching.Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateLoaded {
		return c.entries, true
	}

	c.setState(StateLoading)
	entries, err := c.source.Load(ctx)
	if err != nil {
		c.setState(StateLoadFailed)
		c.logger.Printf("image dataset load failed: %v", err)
		return nil, false
	}

	c.entries = entries
	c.setState(StateLoaded)
	c.logger.Printf("image dataset loaded (%d entries)", len(entries))
	observability.RecordCatalogLoaded(len(entries))
	return c.entries, true
}

func (c *Catalog) setState(state State) {
	c.state = state
	observability.RecordCatalogState(string(state))
}
