package storage

import (
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

func TestRecordSettlementWritesLedgerRow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wormz.db")
	store, err := Open(path)
	if err != nil {
		t.Skipf("sqlite unavailable: %v", err)
	}

	store.RecordSettlement("tg-1001", "worm", 10, 12.5, "leave")
	store.RecordSettlement("tg-1002", "other", 10, 0, "killed")
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer db.Close()

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM settlements").Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Fatalf("ledger rows = %d, want 2", count)
	}

	var usdt float64
	var reason string
	err = db.QueryRow("SELECT usdt, reason FROM settlements WHERE player_id = ?", "tg-1001").Scan(&usdt, &reason)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if usdt != 12.5 || reason != "leave" {
		t.Fatalf("row = (%.2f, %s), want (12.50, leave)", usdt, reason)
	}
}
