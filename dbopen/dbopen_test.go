package dbopen

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

func TestOpenMemory(t *testing.T) {
	// WHAT: OpenMemory returns a usable in-memory database.
	// WHY: Every store test depends on this helper.
	db := OpenMemory(t)
	if err := db.Ping(); err != nil {
		t.Fatalf("ping: %v", err)
	}
}

func TestOpen_Pragmas(t *testing.T) {
	// WHAT: Open applies WAL and busy_timeout pragmas.
	// WHY: Without WAL, concurrent readers block writers on file databases.
	path := filepath.Join(t.TempDir(), "sub", "cache.db")
	db, err := Open(path, WithMkdirAll(), WithBusyTimeout(5000))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	var timeout int
	if err := db.QueryRow("PRAGMA busy_timeout").Scan(&timeout); err != nil {
		t.Fatalf("busy_timeout: %v", err)
	}
	if timeout != 5000 {
		t.Errorf("busy_timeout: got %d, want 5000", timeout)
	}
}

func TestOpen_WithSchema(t *testing.T) {
	// WHAT: Inline schema executes during Open.
	// WHY: The cmd wiring passes the cache schema at startup.
	db := OpenMemory(t, WithSchema(`CREATE TABLE t (id INTEGER PRIMARY KEY)`))
	if _, err := db.Exec(`INSERT INTO t (id) VALUES (1)`); err != nil {
		t.Fatalf("insert: %v", err)
	}
}

func TestRunTx_CommitAndRollback(t *testing.T) {
	// WHAT: RunTx commits on success and rolls back on error.
	// WHY: Upserts run inside RunTx; partial batches must not persist.
	db := OpenMemory(t, WithSchema(`CREATE TABLE t (id INTEGER PRIMARY KEY)`))
	ctx := context.Background()

	if err := RunTx(ctx, db, func(tx *sql.Tx) error {
		_, err := tx.Exec(`INSERT INTO t (id) VALUES (1)`)
		return err
	}); err != nil {
		t.Fatalf("commit tx: %v", err)
	}

	wantErr := RunTx(ctx, db, func(tx *sql.Tx) error {
		if _, err := tx.Exec(`INSERT INTO t (id) VALUES (2)`); err != nil {
			return err
		}
		_, err := tx.Exec(`INSERT INTO t (id) VALUES (1)`) // duplicate key
		return err
	})
	if wantErr == nil {
		t.Fatal("expected duplicate key error")
	}

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM t`).Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Errorf("count: got %d, want 1 (rollback should discard id=2)", count)
	}
}

func TestIsBusy(t *testing.T) {
	// WHAT: IsBusy matches known SQLite lock messages only.
	// WHY: Retrying non-BUSY errors would mask real failures.
	if IsBusy(nil) {
		t.Error("nil should not be busy")
	}
	if !IsBusy(errString("database is locked (5) (SQLITE_BUSY)")) {
		t.Error("SQLITE_BUSY should be busy")
	}
	if IsBusy(errString("no such table: t")) {
		t.Error("schema error should not be busy")
	}
}

type errString string

func (e errString) Error() string { return string(e) }
