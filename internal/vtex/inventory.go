package vtex

import (
	"context"

	"fretecalc/internal"
)

// Inventory fetches warehouse balances for one SKU under one seller.
// Any failure degrades to nil; the zero stock it implies is how the rest
// of the pipeline treats an unreachable inventory API.
func (c *Client) Inventory(ctx context.Context, store, seller, sku string) *internal.InventoryRecord {
	var record internal.InventoryRecord
	url := c.accountURL(store, "/api/logistics/pvt/inventory/skus/"+sku)
	if err := c.getJSON(ctx, url, map[string]string{"sellerId": seller}, &record); err != nil {
		return nil
	}
	return &record
}
