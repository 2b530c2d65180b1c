package storage

import (
	"path/filepath"
	"testing"

	"fretecalc/internal"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "app.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestReplaceStoresAndLookups(t *testing.T) {
	db := openTestDB(t)

	err := db.ReplaceStores([]internal.StoreRecord{
		{ID: "lojabr001234", Name: "Filial Centro", BranchCode: "001234", National: true, Main: true},
		{ID: "lojabr009999", Name: "Filial Sul", BranchCode: "009999"},
	})
	if err != nil {
		t.Fatal(err)
	}

	ids, err := db.StoreIDs()
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 2 {
		t.Fatalf("ids = %v", ids)
	}

	branches, err := db.BranchNames()
	if err != nil {
		t.Fatal(err)
	}
	if branches["001234"] != "Filial Centro" || branches["009999"] != "Filial Sul" {
		t.Fatalf("branches = %v", branches)
	}

	national, err := db.NationalBranches()
	if err != nil {
		t.Fatal(err)
	}
	if len(national) != 1 || national["001234"] != "Filial Centro" {
		t.Fatalf("national = %v", national)
	}

	// A second import replaces, not appends.
	if err := db.ReplaceStores([]internal.StoreRecord{{ID: "lojabr000001", Name: "Nova"}}); err != nil {
		t.Fatal(err)
	}
	ids, _ = db.StoreIDs()
	if len(ids) != 1 || ids[0] != "lojabr000001" {
		t.Fatalf("ids after replace = %v", ids)
	}
}

func TestPushRecentSKU(t *testing.T) {
	db := openTestDB(t)

	for _, sku := range []string{"111", "222", "333", "222"} {
		if err := db.PushRecentSKU(sku, 3); err != nil {
			t.Fatal(err)
		}
	}

	skus, err := db.RecentSKUs()
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"222", "333", "111"}
	if len(skus) != len(want) {
		t.Fatalf("skus = %v", skus)
	}
	for i := range want {
		if skus[i] != want[i] {
			t.Fatalf("skus = %v, want %v", skus, want)
		}
	}

	// The cap drops the oldest entry.
	_ = db.PushRecentSKU("444", 3)
	skus, _ = db.RecentSKUs()
	if len(skus) != 3 || skus[0] != "444" || skus[2] != "333" {
		t.Fatalf("capped skus = %v", skus)
	}
}
