package query

import (
	"testing"

	"leaguestore/testutil"
)

func TestQueryEngineHasNoIO(t *testing.T) {
	io := func(path string) bool {
		return path == "os" || path == "io" || path == "net/http" || testutil.StorageImportForbidden(path)
	}
	testutil.AssertNoDirectImports(t, ".", testutil.AnyOf(io, testutil.ThirdPartyImport), "query engine is pure")
}
