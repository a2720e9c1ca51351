// Package handler exposes the HTTP API: catalog reads, cart management,
// order submission and history, highlight signals, and the event stream.
package handler

import (
	"net/http"

	"github.com/rincon-pacifico/orders-api/internal/bus"
	"github.com/rincon-pacifico/orders-api/internal/domain/cart"
	"github.com/rincon-pacifico/orders-api/internal/domain/highlight"
	"github.com/rincon-pacifico/orders-api/internal/domain/menu"
	"github.com/rincon-pacifico/orders-api/internal/domain/order"
	"github.com/rincon-pacifico/orders-api/internal/feedback"
)

// SessionHeader carries the cart session identifier. Every cart endpoint
// requires it; carts are isolated per session.
const SessionHeader = "X-Session-ID"

// Handler wires the HTTP surface to the domain services.
type Handler struct {
	catalog    *menu.Catalog
	carts      *cart.Store
	orders     *order.Service
	highlights *highlight.Service
	player     feedback.Player

	resolved   *bus.Bus[highlight.Resolved]
	categories *bus.Bus[highlight.CategoryActivated]
	cues       *bus.Bus[feedback.Cue]
}

// NewHandler constructs a Handler with the required domain dependencies.
func NewHandler(
	catalog *menu.Catalog,
	carts *cart.Store,
	orders *order.Service,
	highlights *highlight.Service,
	player feedback.Player,
	resolved *bus.Bus[highlight.Resolved],
	categories *bus.Bus[highlight.CategoryActivated],
	cues *bus.Bus[feedback.Cue],
) *Handler {
	return &Handler{
		catalog:    catalog,
		carts:      carts,
		orders:     orders,
		highlights: highlights,
		player:     player,
		resolved:   resolved,
		categories: categories,
		cues:       cues,
	}
}

// Routes registers every endpoint on a fresh mux.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/menu", h.listMenu)
	mux.HandleFunc("GET /api/menu/{id}", h.getMenuItem)

	mux.HandleFunc("GET /api/cart", h.session(h.getCart))
	mux.HandleFunc("POST /api/cart/items", h.session(h.addCartItem))
	mux.HandleFunc("PATCH /api/cart/items/{lineID}", h.session(h.updateCartItem))
	mux.HandleFunc("DELETE /api/cart/items/{lineID}", h.session(h.removeCartItem))
	mux.HandleFunc("DELETE /api/cart", h.session(h.clearCart))

	mux.HandleFunc("POST /api/orders", h.session(h.placeOrder))
	mux.HandleFunc("GET /api/orders", h.listOrders)

	mux.HandleFunc("POST /api/highlight", h.signalHighlight)
	mux.HandleFunc("GET /api/events", h.streamEvents)

	return mux
}

// session wraps a cart endpoint, rejecting requests without a session header.
func (h *Handler) session(next func(http.ResponseWriter, *http.Request, *cart.Cart)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := r.Header.Get(SessionHeader)
		if sessionID == "" {
			writeError(w, r, http.StatusBadRequest, "missing "+SessionHeader+" header")
			return
		}
		next(w, r, h.carts.Get(sessionID))
	}
}
