package vtex

import (
	"context"

	"fretecalc/internal"
)

type policiesResponse struct {
	Items []internal.ShippingPolicy `json:"items"`
}

// ActiveShippingPolicies fetches the store's shipping policies and keeps
// the active ones, keyed by policy id (the courier id SLAs reference).
// On failure the map is empty and the error says why, so "store
// unreachable" stays distinguishable from "store has no active policies";
// either way downstream filtering sees zero couriers.
func (c *Client) ActiveShippingPolicies(ctx context.Context, store string) (map[string]internal.ShippingPolicy, error) {
	active := map[string]internal.ShippingPolicy{}

	var resp policiesResponse
	if err := c.getJSON(ctx, c.accountURL(store, "/api/logistics/pvt/shipping-policies"), nil, &resp); err != nil {
		return active, err
	}

	for _, policy := range resp.Items {
		if policy.IsActive {
			active[policy.ID] = policy
		}
	}
	return active, nil
}
