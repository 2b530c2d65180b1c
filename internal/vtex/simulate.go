package vtex

import (
	"context"
	"fmt"
	"strings"

	"fretecalc/internal"
	"fretecalc/internal/config"
)

// Simulator runs the per-store freight flow: active policies, order
// simulation, policy filter over the returned SLAs, then inventory.
type Simulator struct {
	client      *Client
	mainAccount string
}

func NewSimulator(cfg config.Config) *Simulator {
	return &Simulator{client: NewClient(cfg), mainAccount: cfg.VTEXMainAccount}
}

// SellerFor maps a store to its seller id: the main account sells as "1",
// every other store sells as itself.
func SellerFor(store, mainAccount string) string {
	if store == mainAccount {
		return "1"
	}
	return store
}

type simulationItem struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
	Seller   string `json:"seller"`
}

type simulationRequest struct {
	Items      []simulationItem `json:"items"`
	PostalCode string           `json:"postalCode"`
	Country    string           `json:"country"`
}

// Simulate produces the StoreResult for one store. Transport failures
// never escape: a failed simulation call yields a result with Error set
// and whatever policies were already fetched; inventory is not attempted.
func (s *Simulator) Simulate(ctx context.Context, store, cep, sku string) internal.StoreResult {
	seller := SellerFor(store, s.mainAccount)

	policies, policyErr := s.client.ActiveShippingPolicies(ctx, store)

	result := internal.StoreResult{ActivePolicies: policies}
	if policyErr != nil {
		result.PolicyError = policyErr.Error()
	}

	payload := simulationRequest{
		Items:      []simulationItem{{ID: sku, Quantity: 1, Seller: seller}},
		PostalCode: strings.ReplaceAll(cep, "-", ""),
		Country:    "BRA",
	}

	var sim internal.Simulation
	url := s.client.accountURL(store, "/api/checkout/pub/orderForms/simulation")
	if err := s.client.postJSON(ctx, url, payload, &sim); err != nil {
		result.Error = fmt.Sprintf("order simulation failed: %v", err)
		return result
	}

	filterSLAsByPolicy(&sim, policies)
	result.Simulation = &sim
	result.Inventory = s.client.Inventory(ctx, store, seller, sku)
	return result
}

// StockLevel is the stock-only flow: inventory for the store's seller,
// collapsed to total and principal-warehouse quantities.
func (s *Simulator) StockLevel(ctx context.Context, store, sku string) internal.StockLevel {
	seller := SellerFor(store, s.mainAccount)
	record := s.client.Inventory(ctx, store, seller, sku)
	return internal.StockLevel{Total: record.Total(), Principal: record.Principal()}
}

// filterSLAsByPolicy keeps only SLAs backed by at least one active
// policy's courier. SLAs without deliveryIds are dropped: an offer no
// active policy can fulfil must not be shown.
func filterSLAsByPolicy(sim *internal.Simulation, active map[string]internal.ShippingPolicy) {
	for i := range sim.LogisticsInfo {
		kept := make([]internal.SLA, 0, len(sim.LogisticsInfo[i].SLAs))
		for _, sla := range sim.LogisticsInfo[i].SLAs {
			for _, delivery := range sla.DeliveryIDs {
				if _, ok := active[delivery.CourierID]; ok {
					kept = append(kept, sla)
					break
				}
			}
		}
		sim.LogisticsInfo[i].SLAs = kept
	}
}
