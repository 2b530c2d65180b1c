package report

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/xuri/excelize/v2"

	"fretecalc/internal"
	"fretecalc/internal/util"
)

// ExportRankingToXLSX writes the ranking table to a spreadsheet, one row
// per ranked store.
func ExportRankingToXLSX(entries []RankingEntry, branchNames map[string]string, outputPath string) error {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	headers := []string{"posicao", "loja", "nome", "tipo", "preco_frete", "prazo", "prazo_dias", "transportadora", "estoque"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for i, entry := range entries {
		r := i + 2
		set := func(col int, value any) {
			cell, _ := excelize.CoordinatesToCellName(col, r)
			_ = f.SetCellValue(sheet, cell, value)
		}

		set(1, entry.Position)
		set(2, entry.Store)
		set(3, util.FriendlyStoreName(entry.Store, branchNames))
		set(4, entry.Type)
		set(5, util.FormatCurrencyFromCents(entry.Price))
		set(6, entry.LeadTime)
		set(7, entry.LeadTimeDays)
		set(8, entry.CourierName)
		set(9, entry.StockTotal)
	}

	return saveWorkbook(f, outputPath)
}

// ExportStockToXLSX writes per-store stock totals, sorted by store id.
func ExportStockToXLSX(levels map[string]internal.StockLevel, branchNames map[string]string, outputPath string) error {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	headers := []string{"loja", "nome", "estoque_total", "estoque_principal"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	stores := make([]string, 0, len(levels))
	for store := range levels {
		stores = append(stores, store)
	}
	sort.Strings(stores)

	for i, store := range stores {
		r := i + 2
		set := func(col int, value any) {
			cell, _ := excelize.CoordinatesToCellName(col, r)
			_ = f.SetCellValue(sheet, cell, value)
		}

		set(1, store)
		set(2, util.FriendlyStoreName(store, branchNames))
		set(3, levels[store].Total)
		set(4, levels[store].Principal)
	}

	return saveWorkbook(f, outputPath)
}

func saveWorkbook(f *excelize.File, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return f.SaveAs(outputPath)
}
