package handler

import (
	"net/http"
	"time"

	"github.com/go-faster/errors"

	"github.com/rincon-pacifico/orders-api/internal/domain/cart"
	"github.com/rincon-pacifico/orders-api/internal/domain/menu"
	"github.com/rincon-pacifico/orders-api/internal/domain/order"
	"github.com/rincon-pacifico/orders-api/internal/feedback"
)

type placeOrderRequest struct {
	CustomerName    string `json:"customerName"`
	CustomerPhone   string `json:"customerPhone"`
	CustomerAddress string `json:"customerAddress"`
}

type orderItemResponse struct {
	MenuItemID   string `json:"menuItemId"`
	MenuItemName string `json:"menuItemName,omitempty"`
	Quantity     int    `json:"quantity"`
	Price        string `json:"price"`
	LineTotal    string `json:"lineTotal"`
	Notes        string `json:"notes,omitempty"`
}

type orderResponse struct {
	ID              int64               `json:"id"`
	CustomerName    string              `json:"customerName"`
	CustomerPhone   string              `json:"customerPhone"`
	CustomerAddress string              `json:"customerAddress"`
	TotalAmount     string              `json:"totalAmount"`
	Status          string              `json:"status"`
	CreatedAt       time.Time           `json:"createdAt"`
	Items           []orderItemResponse `json:"items"`
}

func toOrderResponse(o order.Order) orderResponse {
	resp := orderResponse{
		ID:              o.ID,
		CustomerName:    o.CustomerName,
		CustomerPhone:   o.CustomerPhone,
		CustomerAddress: o.CustomerAddress,
		TotalAmount:     o.TotalAmount.StringFixed(2),
		Status:          string(o.Status),
		CreatedAt:       o.CreatedAt,
		Items:           make([]orderItemResponse, len(o.Items)),
	}
	for i, it := range o.Items {
		resp.Items[i] = orderItemResponse{
			MenuItemID:   it.MenuItemID,
			MenuItemName: it.MenuItemName,
			Quantity:     it.Quantity,
			Price:        it.Price.StringFixed(2),
			LineTotal:    it.Price.Mul(quantityDecimal(it.Quantity)).StringFixed(2),
			Notes:        it.Notes,
		}
	}
	return resp
}

// placeOrder turns the session cart into a persisted order. Prices are
// snapshotted from the live catalog at this moment; the cart itself never
// holds prices. The cart is cleared only after the order is durably stored.
func (h *Handler) placeOrder(w http.ResponseWriter, r *http.Request, c *cart.Cart) {
	ctx := r.Context()

	var req placeOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := c.BeginSubmit(); err != nil {
		writeError(w, r, http.StatusConflict, "order submission already in progress")
		return
	}
	defer c.FinishSubmit()

	lines := make([]order.Line, 0, len(c.Lines()))
	for _, line := range c.Lines() {
		item, err := h.catalog.GetByID(ctx, line.ItemID)
		if err != nil {
			if errors.Is(err, menu.ErrNotFound) {
				writeError(w, r, http.StatusUnprocessableEntity, "menu item "+line.ItemID+" no longer exists")
				return
			}
			writeError(w, r, http.StatusInternalServerError, "failed to price order")
			return
		}
		lines = append(lines, order.Line{
			ItemID:   line.ItemID,
			Quantity: line.Quantity,
			Price:    item.Price,
			Notes:    line.Instructions,
		})
	}

	o, err := h.orders.Submit(ctx, lines, order.CustomerInfo{
		Name:    req.CustomerName,
		Phone:   req.CustomerPhone,
		Address: req.CustomerAddress,
	})
	if err != nil {
		var persistErr *order.PersistError
		switch {
		case errors.Is(err, order.ErrEmptyCart):
			writeError(w, r, http.StatusBadRequest, "cart is empty")
		case errors.Is(err, order.ErrInvalidCustomerInfo):
			writeError(w, r, http.StatusBadRequest, "customer name, phone and address are required")
		case errors.As(err, &persistErr):
			// Nothing was written; the cart is kept so the client can retry.
			writeError(w, r, http.StatusBadGateway, "order could not be saved, please retry")
		default:
			writeError(w, r, http.StatusInternalServerError, "failed to place order")
		}
		return
	}

	c.Clear()
	h.player.Play(ctx, feedback.CueOrderConfirmed, 1)

	writeJSON(w, r, http.StatusCreated, toOrderResponse(*o))
}

// listOrders returns the order history for the phone query parameter,
// newest first. Lookup failures degrade to an empty list.
func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	phone := r.URL.Query().Get("phone")

	orders := h.orders.History(r.Context(), phone)

	resp := make([]orderResponse, len(orders))
	for i, o := range orders {
		resp[i] = toOrderResponse(o)
	}
	writeJSON(w, r, http.StatusOK, resp)
}
