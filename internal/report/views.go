package report

import (
	"sort"

	"fretecalc/internal"
)

// The derived views below are pure: they recompute from the aggregated
// map on every call and never mutate it, so consumers may re-run them at
// will. Stores are visited in sorted id order to keep output stable even
// though the map itself carries no order.

// HasAnyDelivery reports whether the store's simulation survived with at
// least one SLA after the policy filter. Stores where the simulation
// call failed count as having none.
func HasAnyDelivery(result internal.StoreResult) bool {
	if result.Simulation == nil || len(result.Simulation.LogisticsInfo) == 0 {
		return false
	}
	return len(result.Simulation.LogisticsInfo[0].SLAs) > 0
}

// HasNormalDelivery reports whether at least one surviving SLA is a real
// delivery rather than a pickup point.
func HasNormalDelivery(result internal.StoreResult) bool {
	if !HasAnyDelivery(result) {
		return false
	}
	for _, sla := range result.Simulation.LogisticsInfo[0].SLAs {
		if !sla.IsPickup() {
			return true
		}
	}
	return false
}

type StorePickups struct {
	Store string
	SLAs  []internal.SLA
}

// PickupPoints groups pickup SLAs by store; stores without any are
// omitted.
func PickupPoints(results map[string]internal.StoreResult) []StorePickups {
	out := make([]StorePickups, 0)
	for _, store := range sortedStores(results) {
		result := results[store]
		if !HasAnyDelivery(result) {
			continue
		}
		pickups := make([]internal.SLA, 0)
		for _, sla := range result.Simulation.LogisticsInfo[0].SLAs {
			if sla.IsPickup() {
				pickups = append(pickups, sla)
			}
		}
		if len(pickups) > 0 {
			out = append(out, StorePickups{Store: store, SLAs: pickups})
		}
	}
	return out
}

type NoDeliveryEntry struct {
	Store      string
	StockTotal int
}

// NoDeliverySet lists stores with no delivery option at all, annotated
// with their stock total. StockTotal zero reads as "no stock"; positive
// reads as "stock available but out of the CEP's delivery range".
func NoDeliverySet(results map[string]internal.StoreResult) []NoDeliveryEntry {
	out := make([]NoDeliveryEntry, 0)
	for _, store := range sortedStores(results) {
		result := results[store]
		if HasAnyDelivery(result) {
			continue
		}
		out = append(out, NoDeliveryEntry{Store: store, StockTotal: result.Inventory.Total()})
	}
	return out
}

type StockEntry struct {
	Store     string
	Total     int
	Principal int
}

// SortedStockEntries flattens a stock-query result map into a slice
// ordered by store id.
func SortedStockEntries(levels map[string]internal.StockLevel) []StockEntry {
	stores := make([]string, 0, len(levels))
	for store := range levels {
		stores = append(stores, store)
	}
	sort.Strings(stores)

	out := make([]StockEntry, 0, len(stores))
	for _, store := range stores {
		out = append(out, StockEntry{Store: store, Total: levels[store].Total, Principal: levels[store].Principal})
	}
	return out
}

func sortedStores(results map[string]internal.StoreResult) []string {
	stores := make([]string, 0, len(results))
	for store := range results {
		stores = append(stores, store)
	}
	sort.Strings(stores)
	return stores
}
