// Package lookup implements the concurrency-bounded, deduplicated cache
// fronting the ontology search service and the sample repository. Misses
// and failures are values (StatusNotFound), never errors: an absent
// upstream response is a normal, handled outcome.
package lookup

import (
	"context"
	"sync"

	"biovalid/pkg/domain"
)

// TermClient searches the ontology service for candidate labels.
type TermClient interface {
	SearchTerm(ctx context.Context, id string) ([]domain.TermLabel, error)
}

// SampleClient fetches one repository accession.
type SampleClient interface {
	FetchSample(ctx context.Context, id string) (domain.ExternalSample, error)
}

// Observer receives cache and lookup outcome notifications. The metrics
// package provides a prometheus-backed implementation; tests inject fakes.
type Observer interface {
	CacheHit(kind string)
	CacheMiss(kind string)
	LookupOutcome(service, outcome string, seconds float64)
}

type nopObserver struct{}

func (nopObserver) CacheHit(string)                      {}
func (nopObserver) CacheMiss(string)                     {}
func (nopObserver) LookupOutcome(string, string, float64) {}

// Entry kinds used for persistence and observability.
const (
	kindTerm   = "term"
	kindSample = "sample"
)

// Cache is the shared lookup cache. It is safe for concurrent use; a given
// key is fetched at most once per run regardless of caller count, and
// entries are write-once until Clear.
type Cache struct {
	terms    TermClient
	samples  SampleClient
	cfg      domain.Config
	logger   domain.Logger
	observer Observer
	store    Store

	mu            sync.Mutex
	termEntries   map[string]domain.TermResult
	sampleEntries map[string]domain.ExternalSample
	inflight      map[string]chan struct{}

	sem chan struct{}
}

// Option configures optional cache collaborators.
type Option func(*Cache)

// WithLogger injects a logger for lookup-failure diagnostics.
func WithLogger(logger domain.Logger) Option {
	return func(c *Cache) { c.logger = logger }
}

// WithObserver injects an outcome observer.
func WithObserver(obs Observer) Option {
	return func(c *Cache) { c.observer = obs }
}

// WithStore attaches a persistent entry store. Existing entries are loaded
// eagerly; new resolutions are appended best-effort.
func WithStore(store Store) Option {
	return func(c *Cache) { c.store = store }
}

// New constructs a cache over the supplied clients. Either client may be
// nil, in which case its resolutions report NotFound.
func New(terms TermClient, samples SampleClient, cfg domain.Config, opts ...Option) *Cache {
	cfg = cfg.Normalized()
	c := &Cache{
		terms:         terms,
		samples:       samples,
		cfg:           cfg,
		logger:        domain.NopLogger{},
		observer:      nopObserver{},
		termEntries:   make(map[string]domain.TermResult),
		sampleEntries: make(map[string]domain.ExternalSample),
		inflight:      make(map[string]chan struct{}),
		sem:           make(chan struct{}, cfg.MaxConcurrentLookups),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.store != nil {
		c.loadStore()
	}
	return c
}

func (c *Cache) loadStore() {
	ctx := context.Background()
	terms, err := c.store.LoadTerms(ctx)
	if err != nil {
		c.logger.Warn("load cached terms", "error", err)
	}
	samples, err := c.store.LoadSamples(ctx)
	if err != nil {
		c.logger.Warn("load cached samples", "error", err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, v := range terms {
		c.termEntries[k] = v
	}
	for k, v := range samples {
		c.sampleEntries[k] = v
	}
}

// Clear empties the cache for long-running-process reuse. The persistent
// store, when attached, is left untouched.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.termEntries = make(map[string]domain.TermResult)
	c.sampleEntries = make(map[string]domain.ExternalSample)
}

// Len returns the number of resolved entries currently held.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.termEntries) + len(c.sampleEntries)
}

// ResolveTerm resolves one ontology term identifier. Sentinel values
// short-circuit to StatusSkipped without a network call.
func (c *Cache) ResolveTerm(ctx context.Context, id string) domain.TermResult {
	if id == "" || domain.IsSentinel(id) {
		return domain.TermResult{Status: domain.StatusSkipped}
	}
	return c.resolveTermKey(ctx, domain.NormalizeTermID(id))
}

// ResolveTerms resolves a batch of term identifiers concurrently, bounded
// by the configured pool size. All results are gathered before returning;
// the map is keyed by the identifiers as supplied.
func (c *Cache) ResolveTerms(ctx context.Context, ids []string) map[string]domain.TermResult {
	out := make(map[string]domain.TermResult, len(ids))
	seen := make(map[string]struct{}, len(ids))
	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			res := c.ResolveTerm(ctx, id)
			// Workers are the only writers of out.
			mu.Lock()
			out[id] = res
			mu.Unlock()
		}(id)
	}
	wg.Wait()
	return out
}

// ResolveExternalSample resolves one repository accession.
func (c *Cache) ResolveExternalSample(ctx context.Context, id string) domain.ExternalSample {
	if id == "" || domain.IsSentinel(id) {
		return domain.ExternalSample{Status: domain.StatusSkipped}
	}
	return c.resolveSampleKey(ctx, domain.NormalizeTermID(id))
}

// ResolveExternalSamples resolves a batch of accessions concurrently,
// bounded by the configured pool size.
func (c *Cache) ResolveExternalSamples(ctx context.Context, ids []string) map[string]domain.ExternalSample {
	out := make(map[string]domain.ExternalSample, len(ids))
	seen := make(map[string]struct{}, len(ids))
	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			res := c.ResolveExternalSample(ctx, id)
			// Workers are the only writers of out.
			mu.Lock()
			out[id] = res
			mu.Unlock()
		}(id)
	}
	wg.Wait()
	return out
}

func (c *Cache) resolveTermKey(ctx context.Context, key string) domain.TermResult {
	for {
		c.mu.Lock()
		if res, ok := c.termEntries[key]; ok {
			c.mu.Unlock()
			c.observer.CacheHit(kindTerm)
			return res
		}
		wait, ok := c.inflight[kindTerm+":"+key]
		if ok {
			c.mu.Unlock()
			select {
			case <-wait:
				continue
			case <-ctx.Done():
				return domain.TermResult{Status: domain.StatusNotFound}
			}
		}
		done := make(chan struct{})
		c.inflight[kindTerm+":"+key] = done
		c.mu.Unlock()

		c.observer.CacheMiss(kindTerm)
		res := c.fetchTerm(ctx, key)

		c.mu.Lock()
		c.termEntries[key] = res
		delete(c.inflight, kindTerm+":"+key)
		c.mu.Unlock()
		close(done)

		if c.store != nil {
			if err := c.store.PutTerm(context.Background(), key, res); err != nil {
				c.logger.Warn("persist term entry", "key", key, "error", err)
			}
		}
		return res
	}
}

func (c *Cache) resolveSampleKey(ctx context.Context, key string) domain.ExternalSample {
	for {
		c.mu.Lock()
		if res, ok := c.sampleEntries[key]; ok {
			c.mu.Unlock()
			c.observer.CacheHit(kindSample)
			return res
		}
		wait, ok := c.inflight[kindSample+":"+key]
		if ok {
			c.mu.Unlock()
			select {
			case <-wait:
				continue
			case <-ctx.Done():
				return domain.ExternalSample{Status: domain.StatusNotFound}
			}
		}
		done := make(chan struct{})
		c.inflight[kindSample+":"+key] = done
		c.mu.Unlock()

		c.observer.CacheMiss(kindSample)
		res := c.fetchSample(ctx, key)

		c.mu.Lock()
		c.sampleEntries[key] = res
		delete(c.inflight, kindSample+":"+key)
		c.mu.Unlock()
		close(done)

		if c.store != nil {
			if err := c.store.PutSample(context.Background(), key, res); err != nil {
				c.logger.Warn("persist sample entry", "key", key, "error", err)
			}
		}
		return res
	}
}
