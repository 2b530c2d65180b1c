package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"fretecalc/internal"
)

type DB struct {
	conn *sql.DB
}

func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return db, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS stores (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  branchCode TEXT,
  national INTEGER NOT NULL DEFAULT 0,
  ownership TEXT,
  isMain INTEGER NOT NULL DEFAULT 0,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_stores_branchCode ON stores(branchCode);

CREATE TABLE IF NOT EXISTS runs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  traceId TEXT NOT NULL,
  kind TEXT NOT NULL,
  cep TEXT,
  sku TEXT,
  countsJson TEXT NOT NULL,
  durationMs REAL NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS metadata (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

	_, err := d.conn.Exec(schema)
	return err
}

// ReplaceStores swaps the whole catalog for the given list, as an XLSX
// import does.
func (d *DB) ReplaceStores(stores []internal.StoreRecord) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM stores`); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
INSERT INTO stores (id, name, branchCode, national, ownership, isMain)
VALUES (?, ?, ?, ?, ?, ?)
`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, store := range stores {
		if _, err := stmt.Exec(store.ID, store.Name, store.BranchCode, boolInt(store.National), store.Ownership, boolInt(store.Main)); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (d *DB) UpsertStore(store internal.StoreRecord) error {
	_, err := d.conn.Exec(`
INSERT INTO stores (id, name, branchCode, national, ownership, isMain)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
  name=excluded.name,
  branchCode=excluded.branchCode,
  national=excluded.national,
  ownership=excluded.ownership,
  isMain=excluded.isMain,
  updatedAt=CURRENT_TIMESTAMP
`, store.ID, store.Name, store.BranchCode, boolInt(store.National), store.Ownership, boolInt(store.Main))
	return err
}

func (d *DB) ListStores() ([]internal.StoreRecord, error) {
	rows, err := d.conn.Query(`
SELECT id, name, branchCode, national, ownership, isMain
FROM stores ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.StoreRecord
	for rows.Next() {
		var store internal.StoreRecord
		var branchCode, ownership sql.NullString
		var national, isMain int
		if err := rows.Scan(&store.ID, &store.Name, &branchCode, &national, &ownership, &isMain); err != nil {
			return nil, err
		}
		store.BranchCode = branchCode.String
		store.Ownership = ownership.String
		store.National = national != 0
		store.Main = isMain != 0
		out = append(out, store)
	}
	return out, rows.Err()
}

func (d *DB) StoreIDs() ([]string, error) {
	stores, err := d.ListStores()
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(stores))
	for _, store := range stores {
		ids = append(ids, store.ID)
	}
	return ids, nil
}

// BranchNames maps branch codes to friendly names for store-id lookups.
func (d *DB) BranchNames() (map[string]string, error) {
	stores, err := d.ListStores()
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(stores))
	for _, store := range stores {
		if store.BranchCode != "" && store.Name != "" {
			names[store.BranchCode] = store.Name
		}
	}
	return names, nil
}

// NationalBranches is the subset of BranchNames flagged national.
func (d *DB) NationalBranches() (map[string]string, error) {
	stores, err := d.ListStores()
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(stores))
	for _, store := range stores {
		if store.National && store.BranchCode != "" && store.Name != "" {
			names[store.BranchCode] = store.Name
		}
	}
	return names, nil
}

func (d *DB) InsertRun(traceID, kind, cep, sku string, counts map[string]int, duration time.Duration) error {
	countsJSON, _ := json.Marshal(counts)
	_, err := d.conn.Exec(`
INSERT INTO runs (traceId, kind, cep, sku, countsJson, durationMs)
VALUES (?, ?, ?, ?, ?, ?)
`, traceID, kind, cep, sku, string(countsJSON), float64(duration.Milliseconds()))
	return err
}

func (d *DB) SetMetadata(key, value string) error {
	_, err := d.conn.Exec(`
INSERT INTO metadata (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updatedAt = CURRENT_TIMESTAMP
`, key, value)
	return err
}

func (d *DB) GetMetadata(key string) (*string, error) {
	var value string
	err := d.conn.QueryRow(`SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &value, nil
}

const recentSKUsKey = "skus.recent"

func (d *DB) RecentSKUs() ([]string, error) {
	value, err := d.GetMetadata(recentSKUsKey)
	if err != nil || value == nil {
		return nil, err
	}
	var skus []string
	_ = json.Unmarshal([]byte(*value), &skus)
	return skus, nil
}

// PushRecentSKU moves sku to the front of the history, deduplicated and
// capped at max entries.
func (d *DB) PushRecentSKU(sku string, max int) error {
	if max <= 0 {
		max = 5
	}
	current, err := d.RecentSKUs()
	if err != nil {
		return err
	}

	next := make([]string, 0, max)
	next = append(next, sku)
	for _, existing := range current {
		if existing == sku {
			continue
		}
		next = append(next, existing)
		if len(next) == max {
			break
		}
	}

	blob, _ := json.Marshal(next)
	return d.SetMetadata(recentSKUsKey, string(blob))
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
