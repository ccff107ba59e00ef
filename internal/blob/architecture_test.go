package blob

import (
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"golang.org/x/tools/go/packages"
)

// TestOnlyBlobPackageImportsInfra ensures that only the top-level blob
// package wraps the infra-backed drivers. Record stores and the service must
// depend on the blob.Store interface instead of importing drivers directly.
func TestOnlyBlobPackageImportsInfra(t *testing.T) {
	infraPrefixes := []string{"leaguestore/internal/infra/blob", "leaguestore/internal/infra/persistence"}
	allowedPrefix := "leaguestore/internal/blob"

	cfg := &packages.Config{Mode: packages.NeedName | packages.NeedImports, Tests: true}
	pkgs, err := packages.Load(cfg, "leaguestore/...")
	if err != nil {
		t.Fatalf("load packages: %v", err)
	}

	seen := make(map[string]struct{})

	for _, pkg := range pkgs {
		if strings.HasPrefix(pkg.PkgPath, allowedPrefix) || strings.HasPrefix(pkg.PkgPath, "leaguestore/internal/infra/") {
			continue
		}
		for importPath := range pkg.Imports {
			for _, prefix := range infraPrefixes {
				if isInfraImport(importPath, prefix) {
					pos := filepath.Join(pkg.PkgPath, "...")
					seen[pos+": "+importPath] = struct{}{}
				}
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
			t.Errorf("forbidden import of infra driver package: %s", v)
		}
		t.Fatalf("found %d forbidden imports of infra driver packages", len(violations))
	}
}

func isInfraImport(importPath, prefix string) bool {
	return importPath == prefix || strings.HasPrefix(importPath, prefix+"/")
}
