package lookup

import (
	"context"
	"time"

	"biovalid/pkg/domain"
)

// Outcome labels reported to the observer.
const (
	outcomeFound    = "found"
	outcomeNotFound = "not_found"
	outcomeFailure  = "failure"
)

// acquire blocks until a semaphore slot is free or the context ends. The
// slot count bounds simultaneous outbound calls regardless of batch size.
func (c *Cache) acquire(ctx context.Context) bool {
	select {
	case c.sem <- struct{}{}:
		return true
	case <-ctx.Done():
		return false
	}
}

func (c *Cache) release() {
	<-c.sem
}

func (c *Cache) fetchTerm(ctx context.Context, key string) domain.TermResult {
	if c.terms == nil {
		return domain.TermResult{Status: domain.StatusNotFound}
	}
	if !c.acquire(ctx) {
		return domain.TermResult{Status: domain.StatusNotFound}
	}
	defer c.release()

	callCtx, cancel := context.WithTimeout(ctx, c.cfg.LookupTimeout)
	defer cancel()

	start := time.Now()
	labels, err := c.terms.SearchTerm(callCtx, key)
	elapsed := time.Since(start).Seconds()

	// A failed or timed-out call is isolated: the key resolves NotFound
	// and siblings in the same batch proceed.
	if err != nil {
		c.logger.Warn("term lookup failed", "term", key, "error", err)
		c.observer.LookupOutcome(kindTerm, outcomeFailure, elapsed)
		return domain.TermResult{Status: domain.StatusNotFound}
	}
	if len(labels) == 0 {
		c.observer.LookupOutcome(kindTerm, outcomeNotFound, elapsed)
		return domain.TermResult{Status: domain.StatusNotFound}
	}
	c.observer.LookupOutcome(kindTerm, outcomeFound, elapsed)
	return domain.TermResult{Status: domain.StatusFound, Labels: labels}
}

func (c *Cache) fetchSample(ctx context.Context, key string) domain.ExternalSample {
	if c.samples == nil {
		return domain.ExternalSample{Status: domain.StatusNotFound}
	}
	if !c.acquire(ctx) {
		return domain.ExternalSample{Status: domain.StatusNotFound}
	}
	defer c.release()

	callCtx, cancel := context.WithTimeout(ctx, c.cfg.LookupTimeout)
	defer cancel()

	start := time.Now()
	sample, err := c.samples.FetchSample(callCtx, key)
	elapsed := time.Since(start).Seconds()

	if err != nil {
		c.logger.Warn("sample lookup failed", "accession", key, "error", err)
		c.observer.LookupOutcome(kindSample, outcomeFailure, elapsed)
		return domain.ExternalSample{Status: domain.StatusNotFound}
	}
	switch sample.Status {
	case domain.StatusFound:
		c.observer.LookupOutcome(kindSample, outcomeFound, elapsed)
	default:
		c.observer.LookupOutcome(kindSample, outcomeNotFound, elapsed)
	}
	return sample
}
