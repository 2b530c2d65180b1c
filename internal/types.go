package internal

import "strings"

// PrincipalWarehouseID is the warehouse whose quantity is reported
// separately as "estoque principal".
const PrincipalWarehouseID = "1_1"

const PickupChannel = "pickup-in-point"

type Credentials struct {
	AppKey   string
	AppToken string
}

type ShippingPolicy struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	IsActive bool   `json:"isActive"`
}

type DeliveryID struct {
	CourierID   string `json:"courierId"`
	CourierName string `json:"courierName"`
}

type PickupAddress struct {
	Street       string `json:"street"`
	Number       string `json:"number"`
	Complement   string `json:"complement"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`
	PostalCode   string `json:"postalCode"`
}

type PickupStoreInfo struct {
	IsPickupStore bool           `json:"isPickupStore"`
	FriendlyName  string         `json:"friendlyName"`
	Address       *PickupAddress `json:"address"`
}

// SLA is one delivery or pickup offer returned by the order simulation.
type SLA struct {
	Name             string           `json:"name"`
	DeliveryChannel  string           `json:"deliveryChannel"`
	ListPrice        int64            `json:"listPrice"`
	Price            int64            `json:"price"`
	ShippingEstimate string           `json:"shippingEstimate"`
	TransitTime      string           `json:"transitTime"`
	DeliveryIDs      []DeliveryID     `json:"deliveryIds"`
	PickupStoreInfo  *PickupStoreInfo `json:"pickupStoreInfo,omitempty"`
	PickupDistance   float64          `json:"pickupDistance"`
}

func (s SLA) IsPickup() bool {
	return strings.EqualFold(s.DeliveryChannel, PickupChannel)
}

// CourierName prefers the first deliveryIds courier, falling back to the
// SLA name.
func (s SLA) CourierName() string {
	if len(s.DeliveryIDs) > 0 && s.DeliveryIDs[0].CourierName != "" {
		return s.DeliveryIDs[0].CourierName
	}
	return s.Name
}

type LogisticsInfo struct {
	ItemIndex int   `json:"itemIndex"`
	SLAs      []SLA `json:"slas"`
}

type Simulation struct {
	LogisticsInfo []LogisticsInfo `json:"logisticsInfo"`
}

type WarehouseBalance struct {
	WarehouseID   string `json:"warehouseId"`
	TotalQuantity int    `json:"totalQuantity"`
}

type InventoryRecord struct {
	Balance []WarehouseBalance `json:"balance"`
}

func (r *InventoryRecord) Total() int {
	if r == nil {
		return 0
	}
	total := 0
	for _, wh := range r.Balance {
		total += wh.TotalQuantity
	}
	return total
}

func (r *InventoryRecord) Principal() int {
	if r == nil {
		return 0
	}
	for _, wh := range r.Balance {
		if wh.WarehouseID == PrincipalWarehouseID {
			return wh.TotalQuantity
		}
	}
	return 0
}

// StoreResult is what one freight-simulation task produces for one store.
// A nil Simulation plus a non-empty Error means the simulation call failed;
// policies fetched before the failure are still reported. PolicyError keeps
// "policy API unreachable" distinguishable from "store has no active
// policies" without changing how empty policy sets filter SLAs.
type StoreResult struct {
	Simulation     *Simulation               `json:"simulation"`
	ActivePolicies map[string]ShippingPolicy `json:"active_policies"`
	Inventory      *InventoryRecord          `json:"inventory"`
	Error          string                    `json:"error,omitempty"`
	PolicyError    string                    `json:"policy_error,omitempty"`
}

type StockLevel struct {
	Total     int `json:"total"`
	Principal int `json:"principal"`
}

// StoreRecord is one catalog entry ("loja") as kept by storage.
type StoreRecord struct {
	ID         string
	Name       string
	BranchCode string
	National   bool
	Ownership  string
	Main       bool
}
