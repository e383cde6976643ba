package lookup

import (
	"context"
	"path/filepath"
	"testing"

	"biovalid/pkg/domain"
)

func TestSQLiteStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")

	store, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	ctx := context.Background()
	term := domain.TermResult{Status: domain.StatusFound, Labels: []domain.TermLabel{{Label: "liver", Ontology: "uberon"}}}
	sample := domain.ExternalSample{Status: domain.StatusFound, MaterialKind: "organism", Organism: "Sus scrofa"}
	if err := store.PutTerm(ctx, "UBERON:0002107", term); err != nil {
		t.Fatalf("put term: %v", err)
	}
	if err := store.PutSample(ctx, "SAMEA123", sample); err != nil {
		t.Fatalf("put sample: %v", err)
	}
	// Upsert must replace, not duplicate.
	if err := store.PutTerm(ctx, "UBERON:0002107", term); err != nil {
		t.Fatalf("put term again: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close store: %v", err)
	}

	store, err = NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	defer func() { _ = store.Close() }()

	terms, err := store.LoadTerms(ctx)
	if err != nil {
		t.Fatalf("load terms: %v", err)
	}
	if len(terms) != 1 || terms["UBERON:0002107"].Labels[0].Label != "liver" {
		t.Fatalf("terms = %v", terms)
	}
	samples, err := store.LoadSamples(ctx)
	if err != nil {
		t.Fatalf("load samples: %v", err)
	}
	if samples["SAMEA123"].Organism != "Sus scrofa" {
		t.Fatalf("samples = %v", samples)
	}
}

func TestCacheLoadsPersistedEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	store, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer func() { _ = store.Close() }()

	ctx := context.Background()
	seeded := domain.TermResult{Status: domain.StatusFound, Labels: []domain.TermLabel{{Label: "adult", Ontology: "efo"}}}
	if err := store.PutTerm(ctx, "EFO:0001272", seeded); err != nil {
		t.Fatalf("seed term: %v", err)
	}

	client := &countingTermClient{}
	cache := New(client, nil, domain.DefaultConfig(), WithStore(store))

	res := cache.ResolveTerm(ctx, "EFO:0001272")
	if client.calls != 0 {
		t.Fatalf("preloaded entry must not refetch, got %d calls", client.calls)
	}
	if res.Status != domain.StatusFound || res.Labels[0].Label != "adult" {
		t.Fatalf("res = %v", res)
	}
}

func TestOpenStoreDriverSelection(t *testing.T) {
	t.Setenv("BIOVALID_CACHE_DRIVER", "")
	store, err := OpenStore(context.Background())
	if err != nil || store != nil {
		t.Fatalf("empty driver: store=%v err=%v", store, err)
	}

	t.Setenv("BIOVALID_CACHE_DRIVER", "sqlite")
	t.Setenv("BIOVALID_CACHE_SQLITE_PATH", filepath.Join(t.TempDir(), "cache.db"))
	store, err = OpenStore(context.Background())
	if err != nil {
		t.Fatalf("sqlite driver: %v", err)
	}
	if _, ok := store.(*SQLiteStore); !ok {
		t.Fatalf("store = %T", store)
	}
	_ = store.Close()

	t.Setenv("BIOVALID_CACHE_DRIVER", "bogus")
	if _, err := OpenStore(context.Background()); err == nil {
		t.Fatalf("unknown driver must error")
	}
}
