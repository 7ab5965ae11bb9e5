package main

import (
	"path/filepath"
	"testing"

	"github.com/hazyhaar/recherche/dbopen"
	"github.com/hazyhaar/recherche/internal/store"
)

// WHAT: Opens and migrates the cache database using only the binary's own
// import graph.
// WHY: dbopen.Open needs the sqlite driver registered by a blank import in
// this package; the library tests carry their own and would hide a missing
// one here. This test file imports no driver, so it fails if main.go stops
// registering it.
func TestOpenCacheDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "recherche.db")
	db, err := dbopen.Open(path, dbopen.WithMkdirAll())
	if err != nil {
		t.Fatalf("dbopen.Open: %v", err)
	}
	defer db.Close()
	if err := store.ApplySchema(db); err != nil {
		t.Fatalf("ApplySchema: %v", err)
	}
}

// WHAT: Resolves a config with no flags and no file.
// WHY: the database is opened before Service defaults run, so the resolved
// config must already carry a usable db path.
func TestResolveConfigDefaultDBPath(t *testing.T) {
	cfg, err := resolveConfig("", "", "", "")
	if err != nil {
		t.Fatalf("resolveConfig: %v", err)
	}
	if cfg.DBPath != "recherche.db" {
		t.Fatalf("DBPath = %q, want recherche.db", cfg.DBPath)
	}
}
