package lookup

import (
	"sort"
	"strings"
	"testing"

	"golang.org/x/tools/go/packages"
)

// TestDriverImportsConfinedToLookupAndBlob ensures database drivers and the
// cloud SDK stay behind their owning packages: the lookup store wraps the
// sql drivers, the blob package wraps the object-storage SDK. Everything
// else depends on the interfaces.
func TestDriverImportsConfinedToLookupAndBlob(t *testing.T) {
	confined := map[string]string{
		"modernc.org/sqlite":           "biovalid/internal/lookup",
		"github.com/jackc/pgx":         "biovalid/internal/lookup",
		"github.com/aws/aws-sdk-go-v2": "biovalid/internal/blob",
	}

	cfg := &packages.Config{Mode: packages.NeedName | packages.NeedImports, Tests: true}
	pkgs, err := packages.Load(cfg, "biovalid/...")
	if err != nil {
		t.Fatalf("load packages: %v", err)
	}

	seen := make(map[string]struct{})
	for _, pkg := range pkgs {
		for importPath := range pkg.Imports {
			for prefix, owner := range confined {
				if !matchesPrefix(importPath, prefix) {
					continue
				}
				if matchesPrefix(pkg.PkgPath, owner) {
					continue
				}
				seen[pkg.PkgPath+": "+importPath] = struct{}{}
			}
		}
	}

	if len(seen) > 0 {
		violations := make([]string, 0, len(seen))
		for v := range seen {
			violations = append(violations, v)
		}
		sort.Strings(violations)
		for _, v := range violations {
			t.Errorf("forbidden driver import: %s", v)
		}
		t.Fatalf("found %d forbidden driver imports", len(violations))
	}
}

func matchesPrefix(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}
