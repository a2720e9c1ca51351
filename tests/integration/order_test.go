//go:build integration

package integration

import (
	"net/http"
	"testing"
)

func TestOrderFlow(t *testing.T) {
	const session = "it-order-flow"

	resp := doRequest(t, http.MethodPost, "/api/cart/items", session, addCartItemRequest{
		ItemID:   "ceviche-pacifico",
		Quantity: 2,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("add to cart: expected 201, got %d", resp.StatusCode)
	}
	cart := decodeJSON[cartResponse](t, resp)
	resp.Body.Close()
	if cart.Total != "170.00" {
		t.Fatalf("expected cart total 170.00, got %q", cart.Total)
	}

	resp = doRequest(t, http.MethodPost, "/api/orders", session, placeOrderRequest{
		CustomerName:    "Ana Morales",
		CustomerPhone:   "555-0101",
		CustomerAddress: "Av. del Mar 12",
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("place order: expected 201, got %d", resp.StatusCode)
	}

	order := decodeJSON[orderResponse](t, resp)
	if order.ID == 0 {
		t.Fatal("expected a generated order ID")
	}
	if order.TotalAmount != "170.00" {
		t.Fatalf("expected total 170.00, got %q", order.TotalAmount)
	}
	if order.Status != "pending" {
		t.Fatalf("expected status pending, got %q", order.Status)
	}
	if len(order.Items) != 1 || order.Items[0].Price != "85.00" {
		t.Fatalf("unexpected order items: %+v", order.Items)
	}
	if order.Items[0].LineTotal != "170.00" {
		t.Fatalf("expected line total 170.00, got %q", order.Items[0].LineTotal)
	}

	// The cart is cleared after checkout.
	resp2 := doRequest(t, http.MethodGet, "/api/cart", session, nil)
	defer resp2.Body.Close()
	cart = decodeJSON[cartResponse](t, resp2)
	if len(cart.Lines) != 0 {
		t.Fatalf("expected empty cart after checkout, got %d lines", len(cart.Lines))
	}
}

func TestOrderValidation(t *testing.T) {
	const session = "it-order-validation"

	// Empty cart is rejected before any write.
	resp := doRequest(t, http.MethodPost, "/api/orders", session, placeOrderRequest{
		CustomerName:    "Ana Morales",
		CustomerPhone:   "555-0102",
		CustomerAddress: "Av. del Mar 12",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("empty cart: expected 400, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Incomplete customer info is rejected, cart stays intact.
	resp = doRequest(t, http.MethodPost, "/api/cart/items", session, addCartItemRequest{
		ItemID:   "patacones",
		Quantity: 1,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("add to cart: expected 201, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = doRequest(t, http.MethodPost, "/api/orders", session, placeOrderRequest{
		CustomerName: "Ana Morales",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("invalid customer: expected 400, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = doRequest(t, http.MethodGet, "/api/cart", session, nil)
	defer resp.Body.Close()
	cart := decodeJSON[cartResponse](t, resp)
	if len(cart.Lines) != 1 {
		t.Fatalf("expected cart kept after failed submission, got %d lines", len(cart.Lines))
	}
}

func TestOrderHistory(t *testing.T) {
	const (
		session = "it-order-history"
		phone   = "555-0199"
	)

	for _, item := range []string{"agua-coco", "arroz-coco"} {
		resp := doRequest(t, http.MethodPost, "/api/cart/items", session, addCartItemRequest{
			ItemID:   item,
			Quantity: 1,
		})
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("add %s: expected 201, got %d", item, resp.StatusCode)
		}
		resp.Body.Close()

		resp = doRequest(t, http.MethodPost, "/api/orders", session, placeOrderRequest{
			CustomerName:    "Luis Vega",
			CustomerPhone:   phone,
			CustomerAddress: "Calle Sol 3",
		})
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("place order for %s: expected 201, got %d", item, resp.StatusCode)
		}
		resp.Body.Close()
	}

	resp := doGet(t, "/api/orders?phone="+phone)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("history: expected 200, got %d", resp.StatusCode)
	}

	orders := decodeJSON[[]orderResponse](t, resp)
	if len(orders) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(orders))
	}
	// Newest first.
	if orders[0].ID < orders[1].ID {
		t.Fatalf("expected newest order first, got ids %d, %d", orders[0].ID, orders[1].ID)
	}

	// Unknown phone yields an empty list, not an error.
	resp2 := doGet(t, "/api/orders?phone=555-0000")
	defer resp2.Body.Close()
	if resp2.StatusCode != http.StatusOK {
		t.Fatalf("unknown phone: expected 200, got %d", resp2.StatusCode)
	}
	orders = decodeJSON[[]orderResponse](t, resp2)
	if len(orders) != 0 {
		t.Fatalf("expected no orders, got %d", len(orders))
	}
}
