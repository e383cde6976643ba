// Package cli implements the biovalid command line interface.
package cli

import (
	"context"
	"fmt"
	"os"
	"path"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"biovalid/internal/ingest"
	"biovalid/internal/lookup"
	"biovalid/internal/validator"
	"biovalid/pkg/domain"
)

var (
	flagNoLookup    bool
	flagLenient     bool
	flagMaxDepth    int
	flagTimeout     time.Duration
	flagConcurrency int

	flagNoRelationships bool
	flagNoOntology      bool
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "biovalid",
	Short: "Batch validation for biological sample metadata",
	Long: "biovalid validates batches of sample metadata records: per-field rules, " +
		"derivation-relationship consistency, and ontology term labels.",
}

func init() {
	pf := RootCmd.PersistentFlags()
	pf.BoolVar(&flagNoLookup, "no-lookup", false, "Disable external repository and ontology lookups")
	pf.BoolVar(&flagLenient, "lenient", false, "Do not treat unresolved external references as errors")
	pf.IntVar(&flagMaxDepth, "max-depth", domain.DefaultMaxRelationshipDepth, "Maximum derivation chain depth")
	pf.DurationVar(&flagTimeout, "lookup-timeout", domain.DefaultLookupTimeout, "Timeout per external lookup call")
	pf.IntVar(&flagConcurrency, "max-lookups", domain.DefaultMaxConcurrentLookups, "Maximum concurrent external lookups")

	RootCmd.AddCommand(serveCmd, validateCmd, exportCmd)
}

func engineConfig() domain.Config {
	return domain.Config{
		EnableExternalLookup:        !flagNoLookup,
		TreatMissingExternalAsError: !flagLenient,
		MaxRelationshipDepth:        flagMaxDepth,
		LookupTimeout:               flagTimeout,
		MaxConcurrentLookups:        flagConcurrency,
	}.Normalized()
}

func checkOptions() validator.Options {
	return validator.Options{
		CheckRelationships: !flagNoRelationships,
		CheckOntologyText:  !flagNoOntology,
	}
}

// newCache builds the shared lookup cache: HTTP clients, optional
// persistent store, and any extra options the caller supplies.
func newCache(ctx context.Context, cfg domain.Config, logger domain.Logger, opts ...lookup.Option) (*lookup.Cache, func(), error) {
	store, err := lookup.OpenStore(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("open cache store: %w", err)
	}

	var terms lookup.TermClient
	var samples lookup.SampleClient
	if cfg.EnableExternalLookup {
		terms = lookup.NewOLSClient(lookup.DefaultOLSBaseURL, cfg.LookupTimeout)
		samples = lookup.NewBioSamplesClient(lookup.DefaultBioSamplesBaseURL, cfg.LookupTimeout)
	}

	opts = append(opts, lookup.WithLogger(logger))
	if store != nil {
		opts = append(opts, lookup.WithStore(store))
	}
	cache := lookup.New(terms, samples, cfg, opts...)

	cleanup := func() {
		if store != nil {
			_ = store.Close()
		}
	}
	return cache, cleanup, nil
}

// readBatchFile loads a batch from a .json or .xlsx file.
func readBatchFile(name string) (ingest.Batch, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	switch strings.ToLower(path.Ext(name)) {
	case ".json":
		return ingest.ReadJSON(f)
	case ".xlsx":
		return ingest.ReadXLSX(f)
	default:
		return nil, fmt.Errorf("unsupported file type %s, expected .json or .xlsx", path.Ext(name))
	}
}
