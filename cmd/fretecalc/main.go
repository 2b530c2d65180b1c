package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"fretecalc/internal"
	"fretecalc/internal/aggregate"
	"fretecalc/internal/config"
	"fretecalc/internal/freight"
	"fretecalc/internal/report"
	"fretecalc/internal/storage"
	"fretecalc/internal/util"
)

func main() {
	cfg, err := config.Load()
	must(err)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	db, err := storage.Open(cfg.DBPath)
	must(err)
	defer db.Close()

	cmd := os.Args[1]
	switch cmd {
	case "simulate":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		cep := fs.String("cep", "", "destination CEP, format 00000-000")
		sku := fs.String("sku", cfg.DefaultSKU, "SKU id")
		stores := fs.String("stores", "", "comma-separated store accounts (default: full catalog)")
		workers := fs.Int("workers", cfg.MaxWorkers, "concurrent stores")
		out := fs.String("out", "", "optional output xlsx path")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*cep) == "" {
			must(fmt.Errorf("--cep is required"))
		}

		svc := freight.NewService(db, cfg)
		targets, err := resolveStores(db, *stores)
		must(err)

		ctx, stop := signalContext()
		defer stop()

		events, err := svc.RunFreightSimulation(ctx, *cep, *sku, targets, *workers)
		must(err)
		results := drainSimulation(events)

		branchNames, err := db.BranchNames()
		must(err)
		national, err := db.NationalBranches()
		must(err)

		printSimulation(results, branchNames, national)

		if strings.TrimSpace(*out) != "" {
			ranking := report.BuildRanking(results, national)
			must(report.ExportRankingToXLSX(ranking, branchNames, *out))
			fmt.Printf("ranking exported to %s\n", *out)
		}
	case "stock":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		sku := fs.String("sku", cfg.DefaultSKU, "SKU id")
		stores := fs.String("stores", "", "comma-separated store accounts (default: full catalog)")
		workers := fs.Int("workers", cfg.MaxWorkers, "concurrent stores")
		out := fs.String("out", "", "optional output xlsx path")
		_ = fs.Parse(os.Args[2:])

		svc := freight.NewService(db, cfg)
		targets, err := resolveStores(db, *stores)
		must(err)

		ctx, stop := signalContext()
		defer stop()

		events, err := svc.RunStockQuery(ctx, *sku, targets, *workers)
		must(err)
		levels := drainStock(events)

		branchNames, err := db.BranchNames()
		must(err)
		printStock(levels, branchNames)

		if strings.TrimSpace(*out) != "" {
			must(report.ExportStockToXLSX(levels, branchNames, *out))
			fmt.Printf("stock exported to %s\n", *out)
		}
	case "stores:import":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		in := fs.String("in", "", "input xlsx path")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*in) == "" {
			must(fmt.Errorf("--in is required"))
		}
		stores, err := storage.ImportStoresXLSX(*in)
		must(err)
		must(db.ReplaceStores(stores))
		fmt.Printf("imported %d stores from %s\n", len(stores), *in)
	case "stores:export":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		out := fs.String("out", filepath.Join(cfg.OutputDir, "lojas.xlsx"), "output xlsx path")
		_ = fs.Parse(os.Args[2:])
		stores, err := db.ListStores()
		must(err)
		if len(stores) == 0 {
			must(fmt.Errorf("store catalog is empty, run stores:import first"))
		}
		must(storage.ExportStoresXLSX(stores, *out))
		fmt.Printf("exported %d stores to %s\n", len(stores), *out)
	case "stores:list":
		stores, err := db.ListStores()
		must(err)
		for _, store := range stores {
			main := ""
			if store.Main {
				main = " [principal]"
			}
			fmt.Printf("%s  %s  filial=%s  %s%s\n", store.ID, store.Name, store.BranchCode, classificationLabel(store.National), main)
		}
		fmt.Printf("%d stores\n", len(stores))
	default:
		usage()
		os.Exit(1)
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// resolveStores parses the --stores flag, falling back to the whole
// catalog when it is empty.
func resolveStores(db *storage.DB, flagValue string) ([]string, error) {
	if strings.TrimSpace(flagValue) != "" {
		parts := strings.Split(flagValue, ",")
		stores := make([]string, 0, len(parts))
		for _, p := range parts {
			if s := strings.TrimSpace(p); s != "" {
				stores = append(stores, s)
			}
		}
		return stores, nil
	}
	stores, err := db.StoreIDs()
	if err != nil {
		return nil, err
	}
	if len(stores) == 0 {
		return nil, fmt.Errorf("store catalog is empty, run stores:import or pass --stores")
	}
	return stores, nil
}

func drainSimulation(events <-chan aggregate.Event[internal.StoreResult]) map[string]internal.StoreResult {
	var results map[string]internal.StoreResult
	for ev := range events {
		switch ev.Kind {
		case aggregate.EventStarted:
			fmt.Printf("querying %d stores...\n", ev.Total)
		case aggregate.EventProgress:
			fmt.Printf("\r%d/%d", ev.Done, ev.Total)
		case aggregate.EventTaskError:
			fmt.Printf("\nstore %s failed: %v\n", ev.Store, ev.Err)
		case aggregate.EventCompleted:
			fmt.Printf("\rdone: %d/%d\n", len(ev.Results), ev.Total)
			results = ev.Results
		}
	}
	return results
}

func drainStock(events <-chan aggregate.Event[internal.StockLevel]) map[string]internal.StockLevel {
	var levels map[string]internal.StockLevel
	for ev := range events {
		switch ev.Kind {
		case aggregate.EventStarted:
			fmt.Printf("querying %d stores...\n", ev.Total)
		case aggregate.EventProgress:
			fmt.Printf("\r%d/%d", ev.Done, ev.Total)
		case aggregate.EventTaskError:
			fmt.Printf("\nstore %s failed: %v\n", ev.Store, ev.Err)
		case aggregate.EventCompleted:
			fmt.Printf("\rdone: %d/%d\n", len(ev.Results), ev.Total)
			levels = ev.Results
		}
	}
	return levels
}

func printSimulation(results map[string]internal.StoreResult, branchNames, national map[string]string) {
	ranking := report.BuildRanking(results, national)

	fmt.Println()
	fmt.Println("=== Ranking de frete ===")
	if len(ranking) == 0 {
		fmt.Println("nenhuma loja entrega neste CEP")
	}
	for _, entry := range ranking {
		fmt.Printf("%2d. %-30s %-8s %-12s prazo=%s (%s) estoque=%d via %s\n",
			entry.Position,
			util.FriendlyStoreName(entry.Store, branchNames),
			entry.Type,
			util.FormatCurrencyFromCents(entry.Price),
			entry.LeadTime,
			util.EstimatedDeliveryDate(entry.LeadTime, time.Now()),
			entry.StockTotal,
			entry.CourierName,
		)
	}

	pickups := report.PickupPoints(results)
	if len(pickups) > 0 {
		fmt.Println()
		fmt.Println("=== Retirada em loja ===")
		for _, p := range pickups {
			fmt.Printf("%s:\n", util.FriendlyStoreName(p.Store, branchNames))
			for _, sla := range p.SLAs {
				name := sla.Name
				if sla.PickupStoreInfo != nil && sla.PickupStoreInfo.FriendlyName != "" {
					name = sla.PickupStoreInfo.FriendlyName
				}
				fmt.Printf("  - %s (%s)\n", name, util.FormatCurrencyFromCents(sla.ListPrice))
				if sla.PickupStoreInfo != nil && sla.PickupStoreInfo.Address != nil {
					for _, line := range strings.Split(util.FormatAddress(sla.PickupStoreInfo.Address), "\n") {
						fmt.Printf("    %s\n", line)
					}
				}
			}
		}
	}

	noDelivery := report.NoDeliverySet(results)
	if len(noDelivery) > 0 {
		fmt.Println()
		fmt.Println("=== Sem entrega ===")
		for _, entry := range noDelivery {
			reason := "fora da área de entrega"
			if entry.StockTotal == 0 {
				reason = "sem estoque"
			}
			result := results[entry.Store]
			if result.Error != "" {
				reason = result.Error
			}
			fmt.Printf("%-30s estoque=%d (%s)\n", util.FriendlyStoreName(entry.Store, branchNames), entry.StockTotal, reason)
		}
	}
}

func printStock(levels map[string]internal.StockLevel, branchNames map[string]string) {
	fmt.Println()
	fmt.Println("=== Estoque por loja ===")
	total := 0
	for _, entry := range report.SortedStockEntries(levels) {
		fmt.Printf("%-30s total=%-5d principal=%d\n", util.FriendlyStoreName(entry.Store, branchNames), entry.Total, entry.Principal)
		total += entry.Total
	}
	fmt.Printf("total geral: %d\n", total)
}

func classificationLabel(national bool) string {
	if national {
		return "Nacional"
	}
	return "Local"
}

func usage() {
	fmt.Println("usage: fretecalc <command>")
	fmt.Println("commands:")
	fmt.Println("  simulate --cep=00000-000 [--sku=...] [--stores=a,b] [--workers=20] [--out=./out/ranking.xlsx]")
	fmt.Println("  stock [--sku=...] [--stores=a,b] [--workers=20] [--out=./out/estoque.xlsx]")
	fmt.Println("  stores:import --in=./lojas.xlsx")
	fmt.Println("  stores:export [--out=./out/lojas.xlsx]")
	fmt.Println("  stores:list")
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
