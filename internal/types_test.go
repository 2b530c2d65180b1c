package internal

import "testing"

func TestInventoryTotals(t *testing.T) {
	record := &InventoryRecord{Balance: []WarehouseBalance{
		{WarehouseID: "1_1", TotalQuantity: 3},
		{WarehouseID: "2_1", TotalQuantity: 4},
	}}

	if got := record.Total(); got != 7 {
		t.Errorf("Total() = %d, want 7", got)
	}
	if got := record.Principal(); got != 3 {
		t.Errorf("Principal() = %d, want 3", got)
	}
}

func TestInventoryTotalsNil(t *testing.T) {
	var record *InventoryRecord

	if got := record.Total(); got != 0 {
		t.Errorf("Total() = %d, want 0", got)
	}
	if got := record.Principal(); got != 0 {
		t.Errorf("Principal() = %d, want 0", got)
	}
}

func TestInventoryPrincipalMissing(t *testing.T) {
	record := &InventoryRecord{Balance: []WarehouseBalance{
		{WarehouseID: "2_1", TotalQuantity: 10},
	}}

	if got := record.Principal(); got != 0 {
		t.Errorf("Principal() = %d, want 0", got)
	}
}

func TestSLAIsPickup(t *testing.T) {
	cases := []struct {
		channel string
		want    bool
	}{
		{channel: "pickup-in-point", want: true},
		{channel: "Pickup-In-Point", want: true},
		{channel: "delivery", want: false},
		{channel: "", want: false},
	}

	for _, tc := range cases {
		sla := SLA{DeliveryChannel: tc.channel}
		if got := sla.IsPickup(); got != tc.want {
			t.Errorf("IsPickup(%q) = %v, want %v", tc.channel, got, tc.want)
		}
	}
}

func TestSLACourierName(t *testing.T) {
	sla := SLA{Name: "Normal", DeliveryIDs: []DeliveryID{{CourierID: "c1", CourierName: "Transportadora X"}}}
	if got := sla.CourierName(); got != "Transportadora X" {
		t.Errorf("got %q", got)
	}

	sla = SLA{Name: "Normal"}
	if got := sla.CourierName(); got != "Normal" {
		t.Errorf("got %q", got)
	}
}
