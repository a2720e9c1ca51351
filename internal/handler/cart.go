package handler

import (
	"net/http"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/rincon-pacifico/orders-api/internal/domain/cart"
	"github.com/rincon-pacifico/orders-api/internal/domain/menu"
	"github.com/rincon-pacifico/orders-api/internal/feedback"
)

type addCartItemRequest struct {
	ItemID       string `json:"itemId"`
	Quantity     int    `json:"quantity"`
	Instructions string `json:"instructions,omitempty"`
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

type cartLineResponse struct {
	ID           string `json:"id"`
	ItemID       string `json:"itemId"`
	Name         string `json:"name"`
	Quantity     int    `json:"quantity"`
	Instructions string `json:"instructions,omitempty"`
	UnitPrice    string `json:"unitPrice"`
	LineTotal    string `json:"lineTotal"`
}

type cartResponse struct {
	Lines []cartLineResponse `json:"lines"`
	Total string             `json:"total"`
}

// cartView prices the cart's lines against the live catalog. Lines whose
// item has vanished from the catalog are shown with an empty name and a
// zero price rather than dropped; submission will surface the real error.
func (h *Handler) cartView(r *http.Request, c *cart.Cart) (cartResponse, error) {
	ctx := r.Context()

	total, err := c.Total(ctx)
	if err != nil {
		return cartResponse{}, err
	}

	lines := c.Lines()
	resp := cartResponse{
		Lines: make([]cartLineResponse, len(lines)),
		Total: total.StringFixed(2),
	}
	for i, line := range lines {
		lr := cartLineResponse{
			ID:           line.ID,
			ItemID:       line.ItemID,
			Quantity:     line.Quantity,
			Instructions: line.Instructions,
			UnitPrice:    "0.00",
			LineTotal:    "0.00",
		}
		if item, err := h.catalog.GetByID(ctx, line.ItemID); err == nil {
			lr.Name = item.Name
			lr.UnitPrice = item.Price.StringFixed(2)
			lr.LineTotal = item.Price.Mul(quantityDecimal(line.Quantity)).StringFixed(2)
		}
		resp.Lines[i] = lr
	}
	return resp, nil
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request, c *cart.Cart) {
	resp, err := h.cartView(r, c)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "failed to price cart")
		return
	}
	writeJSON(w, r, http.StatusOK, resp)
}

func (h *Handler) addCartItem(w http.ResponseWriter, r *http.Request, c *cart.Cart) {
	var req addCartItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ItemID == "" {
		writeError(w, r, http.StatusBadRequest, "itemId is required")
		return
	}

	_, err := c.AddLine(r.Context(), req.ItemID, req.Quantity, req.Instructions)
	if err != nil {
		switch {
		case errors.Is(err, menu.ErrNotFound):
			writeError(w, r, http.StatusNotFound, "menu item not found")
		case errors.Is(err, cart.ErrItemUnavailable):
			writeError(w, r, http.StatusUnprocessableEntity, "item is not available")
		default:
			writeError(w, r, http.StatusInternalServerError, "failed to add item")
		}
		return
	}

	h.player.Play(r.Context(), feedback.CueAddToCart, 1)

	resp, err := h.cartView(r, c)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "failed to price cart")
		return
	}
	writeJSON(w, r, http.StatusCreated, resp)
}

func (h *Handler) updateCartItem(w http.ResponseWriter, r *http.Request, c *cart.Cart) {
	var req updateCartItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	if !c.SetQuantity(r.PathValue("lineID"), req.Quantity) {
		writeError(w, r, http.StatusNotFound, "cart line not found")
		return
	}

	resp, err := h.cartView(r, c)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "failed to price cart")
		return
	}
	writeJSON(w, r, http.StatusOK, resp)
}

func (h *Handler) removeCartItem(w http.ResponseWriter, r *http.Request, c *cart.Cart) {
	if !c.RemoveLine(r.PathValue("lineID")) {
		writeError(w, r, http.StatusNotFound, "cart line not found")
		return
	}

	resp, err := h.cartView(r, c)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "failed to price cart")
		return
	}
	writeJSON(w, r, http.StatusOK, resp)
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request, c *cart.Cart) {
	c.Clear()
	w.WriteHeader(http.StatusNoContent)
}

func quantityDecimal(q int) decimal.Decimal {
	return decimal.NewFromInt(int64(q))
}
