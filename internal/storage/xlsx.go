package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"fretecalc/internal"
)

var storeSheetHeaders = []string{"ID", "Nome", "Codigo Filial", "Nacional", "Propriedade", "Conta Principal"}

// ImportStoresXLSX reads a store list from the first sheet of an XLSX
// file. The header row must match the export format exactly; blank rows
// are skipped and rows missing id or name are rejected.
func ImportStoresXLSX(path string) ([]internal.StoreRecord, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("empty spreadsheet: %s", path)
	}

	header := rows[0]
	for i, want := range storeSheetHeaders {
		if i >= len(header) || strings.TrimSpace(header[i]) != want {
			return nil, fmt.Errorf("unexpected header row, want: %s", strings.Join(storeSheetHeaders, ", "))
		}
	}

	stores := make([]internal.StoreRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if cell(row, 0) == "" {
			continue
		}
		store := internal.StoreRecord{
			ID:         cell(row, 0),
			Name:       cell(row, 1),
			BranchCode: cell(row, 2),
			National:   parseYes(cell(row, 3)),
			Ownership:  cell(row, 4),
			Main:       parseYes(cell(row, 5)),
		}
		if store.Name == "" {
			return nil, fmt.Errorf("store %s has no name", store.ID)
		}
		stores = append(stores, store)
	}

	if len(stores) == 0 {
		return nil, fmt.Errorf("no valid stores in %s", path)
	}
	return stores, nil
}

// ExportStoresXLSX writes the store list in the same format the import
// expects.
func ExportStoresXLSX(stores []internal.StoreRecord, outputPath string) error {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	for i, h := range storeSheetHeaders {
		coord, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, coord, h)
	}

	for i, store := range stores {
		r := i + 2
		set := func(col int, value any) {
			coord, _ := excelize.CoordinatesToCellName(col, r)
			_ = f.SetCellValue(sheet, coord, value)
		}

		set(1, store.ID)
		set(2, store.Name)
		set(3, store.BranchCode)
		set(4, yesNo(store.National))
		set(5, store.Ownership)
		set(6, yesNo(store.Main))
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return f.SaveAs(outputPath)
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func parseYes(value string) bool {
	switch strings.ToLower(value) {
	case "sim", "s", "yes", "y", "1", "true":
		return true
	default:
		return false
	}
}

func yesNo(b bool) string {
	if b {
		return "Sim"
	}
	return "Não"
}
