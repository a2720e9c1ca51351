package handler

import (
	"net/http"
)

type highlightRequest struct {
	ProductID string `json:"productId"`
}

type highlightResponse struct {
	Matched  bool   `json:"matched"`
	ItemID   string `json:"itemId,omitempty"`
	Category string `json:"category,omitempty"`
}

// signalHighlight accepts an external highlight signal. The response is
// always 202: a signal that matches nothing is dropped, never an error.
func (h *Handler) signalHighlight(w http.ResponseWriter, r *http.Request) {
	var req highlightRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	resolved, ok := h.highlights.Signal(r.Context(), req.ProductID)

	resp := highlightResponse{Matched: ok}
	if ok {
		resp.ItemID = resolved.ItemID
		resp.Category = resolved.Category
	}
	writeJSON(w, r, http.StatusAccepted, resp)
}
