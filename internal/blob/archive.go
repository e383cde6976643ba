package blob

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// ReportKey derives a stable archive key for a report generated at ts:
// reports/<timestamp>-<content hash>.txt.
func ReportKey(ts time.Time, report string) string {
	sum := sha256.Sum256([]byte(report))
	return fmt.Sprintf("reports/%s-%s.txt",
		ts.UTC().Format("20060102T150405Z"), hex.EncodeToString(sum[:8]))
}

// ArchiveReport stores one rendered report and returns its key. A nil
// store is a no-op: archiving is always best-effort optional.
func ArchiveReport(ctx context.Context, store Store, ts time.Time, report string) (string, error) {
	if store == nil {
		return "", nil
	}
	key := ReportKey(ts, report)
	if _, err := store.Put(ctx, key, "text/plain; charset=utf-8", strings.NewReader(report)); err != nil {
		return "", fmt.Errorf("archive report: %w", err)
	}
	return key, nil
}
