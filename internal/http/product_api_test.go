package handlers_test

import (
	"net/http"
	"testing"

	"github.com/ashwin-2504/BharatMandi-Backend/internal/domain"
)

func TestProductCreateAndList(t *testing.T) {
	app, _ := newApp(t, &fakeGateway{})

	resp, err := app.Test(jsonReq("POST", "/api/products", map[string]any{
		"name":           "Basmati Rice",
		"price":          2100.0,
		"category":       "grains",
		"stock_quantity": 30,
		"seller_id":      "seller-777",
	}))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("want 201, got %d", resp.StatusCode)
	}
	var created domain.Product
	decode(t, resp, &created)
	if created.ID == "" || created.SellerID != "seller-777" || created.StockQuantity != 30 {
		t.Fatalf("bad created product: %+v", created)
	}

	resp, err = app.Test(jsonReq("GET", "/api/products/seller/seller-777", nil))
	if err != nil {
		t.Fatal(err)
	}
	var listed []domain.Product
	decode(t, resp, &listed)
	if len(listed) != 1 || listed[0].ID != created.ID {
		t.Fatalf("bad seller listing: %+v", listed)
	}
}

func TestProductCreateValidation(t *testing.T) {
	app, _ := newApp(t, &fakeGateway{})

	resp, err := app.Test(jsonReq("POST", "/api/products", map[string]any{
		"name": "No price or seller",
	}))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("want 400, got %d", resp.StatusCode)
	}
}

func TestProductUpdateOwnershipGuard(t *testing.T) {
	app, db := newApp(t, &fakeGateway{})

	// seeded prod-wheat-01 belongs to seller_demo_1
	resp, err := app.Test(jsonReq("PUT", "/api/products/prod-wheat-01", map[string]any{
		"seller_id": "intruder",
		"price":     1.0,
	}))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("foreign seller update: want 404, got %d", resp.StatusCode)
	}
	var price float64
	if err := db.Get(&price, `SELECT price FROM products WHERE id='prod-wheat-01'`); err != nil {
		t.Fatal(err)
	}
	if price != 1450 {
		t.Fatalf("price changed despite guard: %v", price)
	}

	// the owner can update
	resp, err = app.Test(jsonReq("PUT", "/api/products/prod-wheat-01", map[string]any{
		"seller_id": "seller_demo_1",
		"price":     1500.0,
	}))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("owner update: want 200, got %d", resp.StatusCode)
	}
	var updated domain.Product
	decode(t, resp, &updated)
	if updated.Price != 1500 {
		t.Fatalf("update not applied: %+v", updated)
	}
}

func TestProductDeleteOwnershipGuard(t *testing.T) {
	app, db := newApp(t, &fakeGateway{})

	resp, err := app.Test(jsonReq("DELETE", "/api/products/prod-wheat-01?seller_id=intruder", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("foreign seller delete: want 404, got %d", resp.StatusCode)
	}
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM products WHERE id='prod-wheat-01'`); err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatal("product deleted despite guard")
	}

	resp, err = app.Test(jsonReq("DELETE", "/api/products/prod-wheat-01?seller_id=seller_demo_1", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("owner delete: want 200, got %d", resp.StatusCode)
	}
	if err := db.Get(&n, `SELECT COUNT(*) FROM products WHERE id='prod-wheat-01'`); err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Fatal("owner delete had no effect")
	}
}

func TestProductSearchValidation(t *testing.T) {
	app, _ := newApp(t, &fakeGateway{})

	resp, err := app.Test(jsonReq("GET", "/api/products/search", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("missing q: want 400, got %d", resp.StatusCode)
	}

	resp, err = app.Test(jsonReq("GET", "/api/products/search?q=wheat", nil))
	if err != nil {
		t.Fatal(err)
	}
	var found []domain.Product
	decode(t, resp, &found)
	if len(found) != 1 || found[0].ID != "prod-wheat-01" {
		t.Fatalf("bad search result: %+v", found)
	}
}

func TestProductFeedLimit(t *testing.T) {
	app, _ := newApp(t, &fakeGateway{})

	resp, err := app.Test(jsonReq("GET", "/api/products/feed?limit=2", nil))
	if err != nil {
		t.Fatal(err)
	}
	var feed []domain.Product
	decode(t, resp, &feed)
	if len(feed) != 2 {
		t.Fatalf("want 2 items, got %d", len(feed))
	}
}
