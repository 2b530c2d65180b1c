package report

import (
	"sort"

	"fretecalc/internal"
	"fretecalc/internal/util"
)

type RankingEntry struct {
	Position     int
	Store        string
	Type         string
	Price        int64
	LeadTime     string
	LeadTimeDays int
	CourierName  string
	StockTotal   int
}

// BuildRanking picks, per store with normal delivery, the cheapest
// normal SLA (first one wins a price tie) and orders stores by lead
// time, then price, then descending stock.
func BuildRanking(results map[string]internal.StoreResult, national map[string]string) []RankingEntry {
	entries := make([]RankingEntry, 0, len(results))

	for _, store := range sortedStores(results) {
		result := results[store]
		if !HasNormalDelivery(result) {
			continue
		}

		var best *internal.SLA
		for i := range result.Simulation.LogisticsInfo[0].SLAs {
			sla := &result.Simulation.LogisticsInfo[0].SLAs[i]
			if sla.IsPickup() {
				continue
			}
			if best == nil || sla.ListPrice < best.ListPrice {
				best = sla
			}
		}

		entries = append(entries, RankingEntry{
			Store:        store,
			Type:         util.StoreClassification(store, national),
			Price:        best.ListPrice,
			LeadTime:     best.ShippingEstimate,
			LeadTimeDays: util.ParseLeadTimeDays(best.ShippingEstimate),
			CourierName:  best.CourierName(),
			StockTotal:   result.Inventory.Total(),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.LeadTimeDays != b.LeadTimeDays {
			return a.LeadTimeDays < b.LeadTimeDays
		}
		if a.Price != b.Price {
			return a.Price < b.Price
		}
		return a.StockTotal > b.StockTotal
	})

	for i := range entries {
		entries[i].Position = i + 1
	}
	return entries
}
