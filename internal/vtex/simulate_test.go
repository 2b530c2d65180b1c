package vtex

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"fretecalc/internal/config"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func testConfig() config.Config {
	return config.Config{
		VTEXAppKey:         "key",
		VTEXAppToken:       "token",
		VTEXMainAccount:    "minhaloja",
		VTEXPlatformDomain: "vtexcommercestable.com.br",
		VTEXTimeoutSeconds: 10,
	}
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
	}
}

func newTestSimulator(t *testing.T, handler roundTripFunc) *Simulator {
	t.Helper()
	sim := NewSimulator(testConfig())
	sim.client.httpClient = &http.Client{Transport: handler}
	return sim
}

func TestSimulateFiltersSLAsByActivePolicy(t *testing.T) {
	sim := newTestSimulator(t, func(r *http.Request) (*http.Response, error) {
		if r.Header.Get("X-VTEX-API-AppKey") != "key" {
			t.Fatalf("missing app key header")
		}
		switch {
		case strings.Contains(r.URL.Path, "shipping-policies"):
			return jsonResponse(200, `{"items": [
				{"id": "correios", "name": "Correios", "isActive": true},
				{"id": "desativada", "name": "Old", "isActive": false}
			]}`), nil
		case strings.Contains(r.URL.Path, "orderForms/simulation"):
			return jsonResponse(200, `{"logisticsInfo": [{"itemIndex": 0, "slas": [
				{"name": "Normal", "deliveryChannel": "delivery", "listPrice": 1500, "shippingEstimate": "3bd",
				 "deliveryIds": [{"courierId": "correios", "courierName": "Correios"}]},
				{"name": "Antiga", "deliveryChannel": "delivery", "listPrice": 900,
				 "deliveryIds": [{"courierId": "desativada", "courierName": "Old"}]},
				{"name": "SemCourier", "deliveryChannel": "delivery", "listPrice": 100}
			]}]}`), nil
		case strings.Contains(r.URL.Path, "/inventory/skus/"):
			if r.URL.Query().Get("sellerId") != "lojaoutra" {
				t.Fatalf("sellerId = %q", r.URL.Query().Get("sellerId"))
			}
			return jsonResponse(200, `{"balance": [{"warehouseId": "1_1", "totalQuantity": 8}]}`), nil
		}
		t.Fatalf("unexpected path %s", r.URL.Path)
		return nil, nil
	})

	result := sim.Simulate(context.Background(), "lojaoutra", "05372-110", "149718")

	if result.Error != "" {
		t.Fatalf("unexpected error: %s", result.Error)
	}
	if len(result.ActivePolicies) != 1 {
		t.Fatalf("active policies = %d, want 1", len(result.ActivePolicies))
	}
	if result.Simulation == nil || len(result.Simulation.LogisticsInfo) != 1 {
		t.Fatalf("missing simulation")
	}
	slas := result.Simulation.LogisticsInfo[0].SLAs
	if len(slas) != 1 || slas[0].Name != "Normal" {
		t.Fatalf("filtered slas = %+v", slas)
	}
	if result.Inventory.Total() != 8 {
		t.Fatalf("inventory total = %d", result.Inventory.Total())
	}
}

func TestSimulateStripsHyphenFromCEP(t *testing.T) {
	var postedBody string
	sim := newTestSimulator(t, func(r *http.Request) (*http.Response, error) {
		switch {
		case strings.Contains(r.URL.Path, "shipping-policies"):
			return jsonResponse(200, `{"items": []}`), nil
		case strings.Contains(r.URL.Path, "orderForms/simulation"):
			blob, _ := io.ReadAll(r.Body)
			postedBody = string(blob)
			return jsonResponse(200, `{"logisticsInfo": []}`), nil
		}
		return jsonResponse(200, `{"balance": []}`), nil
	})

	sim.Simulate(context.Background(), "minhaloja", "05372-110", "149718")

	if !strings.Contains(postedBody, `"postalCode":"05372110"`) {
		t.Fatalf("postal code not stripped: %s", postedBody)
	}
	if !strings.Contains(postedBody, `"seller":"1"`) {
		t.Fatalf("main account must sell as 1: %s", postedBody)
	}
	if !strings.Contains(postedBody, `"country":"BRA"`) {
		t.Fatalf("country missing: %s", postedBody)
	}
}

func TestSimulateFailureKeepsPoliciesSkipsInventory(t *testing.T) {
	inventoryCalled := false
	sim := newTestSimulator(t, func(r *http.Request) (*http.Response, error) {
		switch {
		case strings.Contains(r.URL.Path, "shipping-policies"):
			return jsonResponse(200, `{"items": [{"id": "correios", "isActive": true}]}`), nil
		case strings.Contains(r.URL.Path, "orderForms/simulation"):
			return jsonResponse(500, `{"error": "boom"}`), nil
		case strings.Contains(r.URL.Path, "/inventory/skus/"):
			inventoryCalled = true
		}
		return jsonResponse(200, `{}`), nil
	})

	result := sim.Simulate(context.Background(), "lojaoutra", "05372-110", "149718")

	if result.Error == "" {
		t.Fatalf("expected error")
	}
	if result.Simulation != nil {
		t.Fatalf("simulation must be nil on failure")
	}
	if len(result.ActivePolicies) != 1 {
		t.Fatalf("policies fetched before the failure must be kept")
	}
	if result.Inventory != nil || inventoryCalled {
		t.Fatalf("inventory must not be attempted after a failed simulation")
	}
}

func TestSimulatePolicyFetchFailureIsRecorded(t *testing.T) {
	sim := newTestSimulator(t, func(r *http.Request) (*http.Response, error) {
		switch {
		case strings.Contains(r.URL.Path, "shipping-policies"):
			return jsonResponse(503, `unavailable`), nil
		case strings.Contains(r.URL.Path, "orderForms/simulation"):
			return jsonResponse(200, `{"logisticsInfo": [{"itemIndex": 0, "slas": [
				{"name": "Normal", "deliveryChannel": "delivery", "listPrice": 1500,
				 "deliveryIds": [{"courierId": "correios"}]}
			]}]}`), nil
		}
		return jsonResponse(200, `{"balance": []}`), nil
	})

	result := sim.Simulate(context.Background(), "lojaoutra", "05372-110", "149718")

	if result.PolicyError == "" {
		t.Fatalf("policy fetch failure must be surfaced")
	}
	if result.Error != "" {
		t.Fatalf("simulation itself did not fail: %s", result.Error)
	}
	// Zero active policies filter out every SLA.
	if len(result.Simulation.LogisticsInfo[0].SLAs) != 0 {
		t.Fatalf("slas must be empty with no active policies")
	}
}

func TestStockLevel(t *testing.T) {
	sim := newTestSimulator(t, func(r *http.Request) (*http.Response, error) {
		if !strings.Contains(r.URL.Path, "/inventory/skus/149718") {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		return jsonResponse(200, `{"balance": [
			{"warehouseId": "1_1", "totalQuantity": 3},
			{"warehouseId": "2_1", "totalQuantity": 4}
		]}`), nil
	})

	level := sim.StockLevel(context.Background(), "lojaoutra", "149718")
	if level.Total != 7 || level.Principal != 3 {
		t.Fatalf("got %+v", level)
	}
}

func TestStockLevelFailureYieldsZero(t *testing.T) {
	sim := newTestSimulator(t, func(r *http.Request) (*http.Response, error) {
		return jsonResponse(404, `not found`), nil
	})

	level := sim.StockLevel(context.Background(), "lojaoutra", "149718")
	if level.Total != 0 || level.Principal != 0 {
		t.Fatalf("got %+v", level)
	}
}

func TestSellerFor(t *testing.T) {
	if got := SellerFor("minhaloja", "minhaloja"); got != "1" {
		t.Errorf("got %q", got)
	}
	if got := SellerFor("lojaoutra", "minhaloja"); got != "lojaoutra" {
		t.Errorf("got %q", got)
	}
}
