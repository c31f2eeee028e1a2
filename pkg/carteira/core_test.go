package carteira

import (
	"os"
	"path/filepath"
	"testing"
)

func TestOpenCreatesParentDirectories(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "carteira-test-*")
	assertNoError(t, err, "create temp dir")
	defer os.RemoveAll(tmpDir)

	dbPath := filepath.Join(tmpDir, "nested", "data", "carteira.db")
	core, err := Open(dbPath)
	assertNoError(t, err, "open with nested path")
	defer core.Close()

	if core.DBPath() != dbPath {
		t.Errorf("expected db path %s, got %s", dbPath, core.DBPath())
	}
	if _, err := os.Stat(dbPath); err != nil {
		t.Errorf("expected database file to exist: %v", err)
	}
}

func TestReopenKeepsData(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "carteira-test-*")
	assertNoError(t, err, "create temp dir")
	defer os.RemoveAll(tmpDir)

	dbPath := filepath.Join(tmpDir, "carteira.db")
	core, err := Open(dbPath)
	assertNoError(t, err, "first open")
	id := testPurchase(t, core, "BBAS3", "stock", 100, 19.75, 0)
	assertNoError(t, core.Close(), "close")

	core, err = Open(dbPath)
	assertNoError(t, err, "reopen")
	defer core.Close()

	rec, err := core.GetPurchase(testContext(), id)
	assertNoError(t, err, "get after reopen")
	if rec == nil || rec.Ticker != "BBAS3" {
		t.Fatalf("expected persisted purchase, got %+v", rec)
	}
}
