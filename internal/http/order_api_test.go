package handlers_test

import (
	"net/http"
	"testing"

	"github.com/ashwin-2504/BharatMandi-Backend/internal/domain"
	"github.com/ashwin-2504/BharatMandi-Backend/internal/repos"
)

func TestOrderStatusUpdate(t *testing.T) {
	app, db := newApp(t, &fakeGateway{})
	orders := repos.NewOrderRepo(db)

	created, err := orders.Create(domain.Order{
		SellerID: "s1", BuyerID: "b1", TotalAmount: 500, Status: domain.OrderPending,
	})
	if err != nil {
		t.Fatal(err)
	}

	// outside the fixed allowed set
	resp, err := app.Test(jsonReq("PATCH", "/api/orders/"+created.ID+"/status", map[string]any{"status": "LOST"}))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("invalid status: want 400, got %d", resp.StatusCode)
	}

	resp, err = app.Test(jsonReq("PATCH", "/api/orders/no-such-order/status", map[string]any{"status": "SHIPPED"}))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown order: want 404, got %d", resp.StatusCode)
	}

	resp, err = app.Test(jsonReq("PATCH", "/api/orders/"+created.ID+"/status", map[string]any{"status": "ACCEPTED"}))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("valid update: want 200, got %d", resp.StatusCode)
	}
	var updated domain.Order
	decode(t, resp, &updated)
	if updated.Status != domain.OrderAccepted {
		t.Fatalf("status not applied: %+v", updated)
	}
}

func TestSellerOrdersAndStats(t *testing.T) {
	app, db := newApp(t, &fakeGateway{})
	orders := repos.NewOrderRepo(db)

	seed := []domain.Order{
		{SellerID: "seller_demo_1", BuyerID: "b1", TotalAmount: 300, Status: domain.OrderPending,
			Items: []domain.OrderItem{{ID: "prod-wheat-01", Quantity: 2}}},
		{SellerID: "seller_demo_1", BuyerID: "b2", TotalAmount: 700, Status: domain.OrderDelivered},
	}
	for _, o := range seed {
		if _, err := orders.Create(o); err != nil {
			t.Fatal(err)
		}
	}

	resp, err := app.Test(jsonReq("GET", "/api/orders/seller/seller_demo_1", nil))
	if err != nil {
		t.Fatal(err)
	}
	var listed []domain.Order
	decode(t, resp, &listed)
	if len(listed) != 2 {
		t.Fatalf("want 2 orders, got %d", len(listed))
	}
	for _, o := range listed {
		if o.Items == nil {
			t.Fatalf("items not decoded: %+v", o)
		}
	}

	resp, err = app.Test(jsonReq("GET", "/api/orders/seller/seller_demo_1/stats", nil))
	if err != nil {
		t.Fatal(err)
	}
	var stats domain.OrderStats
	decode(t, resp, &stats)
	// seller_demo_1 owns two seeded demo products
	if stats.ProductsCount != 2 || stats.OrdersCount != 2 {
		t.Fatalf("bad counts: %+v", stats)
	}
	if stats.Revenue != 1000 || stats.PendingOrdersCount != 1 {
		t.Fatalf("bad revenue/pending: %+v", stats)
	}

	resp, err = app.Test(jsonReq("GET", "/api/orders/buyer/b1/stats", nil))
	if err != nil {
		t.Fatal(err)
	}
	var buyer domain.OrderStats
	decode(t, resp, &buyer)
	if buyer.ProductsCount != 0 || buyer.OrdersCount != 1 || buyer.Revenue != 300 {
		t.Fatalf("bad buyer stats: %+v", buyer)
	}
}
