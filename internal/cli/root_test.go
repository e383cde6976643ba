package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestReadBatchFileJSON(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "batch.json")
	payload := `{"organism": [{"Sample Name": "O1", "Material": "organism"}]}`
	if err := os.WriteFile(name, []byte(payload), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	batch, err := readBatchFile(name)
	if err != nil {
		t.Fatalf("readBatchFile: %v", err)
	}
	if len(batch["organism"]) != 1 {
		t.Fatalf("expected 1 organism record, got %d", len(batch["organism"]))
	}
}

func TestReadBatchFileRejectsUnknownExtension(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "batch.csv")
	if err := os.WriteFile(name, []byte("a,b\n"), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	if _, err := readBatchFile(name); err == nil || !strings.Contains(err.Error(), "unsupported file type") {
		t.Fatalf("expected unsupported file type error, got %v", err)
	}
}

func TestReadBatchFileMissing(t *testing.T) {
	if _, err := readBatchFile(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestEngineConfigNormalizes(t *testing.T) {
	origDepth, origTimeout, origConc := flagMaxDepth, flagTimeout, flagConcurrency
	defer func() {
		flagMaxDepth, flagTimeout, flagConcurrency = origDepth, origTimeout, origConc
	}()

	flagMaxDepth = 0
	flagTimeout = 0
	flagConcurrency = -1

	cfg := engineConfig()
	if cfg.MaxRelationshipDepth <= 0 {
		t.Errorf("MaxRelationshipDepth not normalized: %d", cfg.MaxRelationshipDepth)
	}
	if cfg.LookupTimeout <= 0 {
		t.Errorf("LookupTimeout not normalized: %v", cfg.LookupTimeout)
	}
	if cfg.MaxConcurrentLookups <= 0 {
		t.Errorf("MaxConcurrentLookups not normalized: %d", cfg.MaxConcurrentLookups)
	}
}
