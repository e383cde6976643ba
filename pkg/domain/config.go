package domain

import "time"

// Default limits applied when Config fields are zero.
const (
	DefaultMaxRelationshipDepth = 10
	DefaultLookupTimeout        = 10 * time.Second
	DefaultMaxConcurrentLookups = 10
)

// Config carries the tunables consumed by the validation engine. The
// surrounding CLI/API layer constructs it; the engine treats it as opaque
// policy.
type Config struct {
	// EnableExternalLookup permits network resolution of repository
	// accessions and ontology terms.
	EnableExternalLookup bool
	// TreatMissingExternalAsError escalates unresolved external references
	// to existence errors instead of skipping them.
	TreatMissingExternalAsError bool
	// MaxRelationshipDepth bounds the derivation-chain walk.
	MaxRelationshipDepth int
	// LookupTimeout applies to every outbound external call.
	LookupTimeout time.Duration
	// MaxConcurrentLookups bounds simultaneous in-flight external calls.
	MaxConcurrentLookups int
}

// DefaultConfig returns the engine defaults: external lookups enabled,
// unresolved external references treated as errors.
func DefaultConfig() Config {
	return Config{
		EnableExternalLookup:        true,
		TreatMissingExternalAsError: true,
		MaxRelationshipDepth:        DefaultMaxRelationshipDepth,
		LookupTimeout:               DefaultLookupTimeout,
		MaxConcurrentLookups:        DefaultMaxConcurrentLookups,
	}
}

// Normalized returns a copy with zero limits replaced by defaults.
func (c Config) Normalized() Config {
	if c.MaxRelationshipDepth <= 0 {
		c.MaxRelationshipDepth = DefaultMaxRelationshipDepth
	}
	if c.LookupTimeout <= 0 {
		c.LookupTimeout = DefaultLookupTimeout
	}
	if c.MaxConcurrentLookups <= 0 {
		c.MaxConcurrentLookups = DefaultMaxConcurrentLookups
	}
	return c
}
