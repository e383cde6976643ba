package blob

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"
)

func testStoreRoundTrip(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	info, err := store.Put(ctx, "reports/a.txt", "text/plain", strings.NewReader("first report"))
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if info.Key != "reports/a.txt" || info.Size != int64(len("first report")) {
		t.Fatalf("info = %+v", info)
	}

	if _, err := store.Put(ctx, "reports/b.txt", "text/plain", strings.NewReader("second")); err != nil {
		t.Fatalf("put second: %v", err)
	}
	if _, err := store.Put(ctx, "other/c.txt", "text/plain", strings.NewReader("unrelated")); err != nil {
		t.Fatalf("put other: %v", err)
	}

	_, rc, err := store.Get(ctx, "reports/a.txt")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	data, err := io.ReadAll(rc)
	_ = rc.Close()
	if err != nil || string(data) != "first report" {
		t.Fatalf("read back %q, err %v", data, err)
	}

	listed, err := store.List(ctx, "reports/")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != 2 || listed[0].Key != "reports/a.txt" || listed[1].Key != "reports/b.txt" {
		t.Fatalf("listed = %+v", listed)
	}

	if _, _, err := store.Get(ctx, "reports/missing.txt"); err == nil {
		t.Fatalf("missing key must error")
	}
}

func TestMemoryStore(t *testing.T) {
	testStoreRoundTrip(t, NewMemory())
}

func TestFilesystemStore(t *testing.T) {
	store, err := NewFilesystem(t.TempDir())
	if err != nil {
		t.Fatalf("new filesystem: %v", err)
	}
	testStoreRoundTrip(t, store)
}

func TestFilesystemRejectsTraversal(t *testing.T) {
	store, err := NewFilesystem(t.TempDir())
	if err != nil {
		t.Fatalf("new filesystem: %v", err)
	}
	for _, key := range []string{"", "/abs", "../escape", "a/../../b"} {
		if _, err := store.Put(context.Background(), key, "", strings.NewReader("x")); err == nil {
			t.Errorf("key %q must be rejected", key)
		}
	}
}

func TestArchiveReport(t *testing.T) {
	store := NewMemory()
	ts := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)

	key, err := ArchiveReport(context.Background(), store, ts, "report body")
	if err != nil {
		t.Fatalf("archive: %v", err)
	}
	if !strings.HasPrefix(key, "reports/20260825T120000Z-") || !strings.HasSuffix(key, ".txt") {
		t.Fatalf("key = %q", key)
	}

	_, rc, err := store.Get(context.Background(), key)
	if err != nil {
		t.Fatalf("get archived: %v", err)
	}
	data, _ := io.ReadAll(rc)
	_ = rc.Close()
	if string(data) != "report body" {
		t.Fatalf("archived body = %q", data)
	}

	if key, err := ArchiveReport(context.Background(), nil, ts, "x"); err != nil || key != "" {
		t.Fatalf("nil store must be a no-op, got %q %v", key, err)
	}
}

func TestOpenDriverSelection(t *testing.T) {
	t.Setenv("BIOVALID_BLOB_DRIVER", "")
	store, err := Open(context.Background())
	if err != nil || store != nil {
		t.Fatalf("empty driver: %v %v", store, err)
	}

	t.Setenv("BIOVALID_BLOB_DRIVER", "memory")
	store, err = Open(context.Background())
	if err != nil {
		t.Fatalf("memory driver: %v", err)
	}
	if store.Driver() != DriverMemory {
		t.Fatalf("driver = %v", store.Driver())
	}

	t.Setenv("BIOVALID_BLOB_DRIVER", "fs")
	t.Setenv("BIOVALID_BLOB_FS_ROOT", t.TempDir())
	store, err = Open(context.Background())
	if err != nil {
		t.Fatalf("fs driver: %v", err)
	}
	if store.Driver() != DriverFilesystem {
		t.Fatalf("driver = %v", store.Driver())
	}

	t.Setenv("BIOVALID_BLOB_DRIVER", "bogus")
	if _, err := Open(context.Background()); err == nil {
		t.Fatalf("unknown driver must error")
	}
}
