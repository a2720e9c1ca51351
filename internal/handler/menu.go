package handler

import (
	"net/http"

	"github.com/go-faster/errors"

	"github.com/rincon-pacifico/orders-api/internal/domain/menu"
)

// menuItemResponse is the wire shape of one catalog entry.
type menuItemResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       string          `json:"price"`
	Category    string          `json:"category"`
	Available   bool            `json:"available"`
	Featured    bool            `json:"featured,omitempty"`
	Allergens   []string        `json:"allergens,omitempty"`
	Nutrition   *menu.Nutrition `json:"nutrition,omitempty"`
}

func toMenuItemResponse(item menu.Item) menuItemResponse {
	return menuItemResponse{
		ID:          item.ID,
		Name:        item.Name,
		Description: item.Description,
		Price:       item.Price.StringFixed(2),
		Category:    item.Category,
		Available:   item.Available,
		Featured:    item.Featured,
		Allergens:   item.Allergens,
		Nutrition:   item.Nutrition,
	}
}

func (h *Handler) listMenu(w http.ResponseWriter, r *http.Request) {
	items := h.catalog.List(r.Context())

	resp := make([]menuItemResponse, len(items))
	for i, item := range items {
		resp[i] = toMenuItemResponse(item)
	}
	writeJSON(w, r, http.StatusOK, resp)
}

func (h *Handler) getMenuItem(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	item, err := h.catalog.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, menu.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, "menu item not found")
			return
		}
		writeError(w, r, http.StatusInternalServerError, "failed to load menu item")
		return
	}
	writeJSON(w, r, http.StatusOK, toMenuItemResponse(*item))
}
