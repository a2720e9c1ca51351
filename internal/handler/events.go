package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"
)

const eventHeartbeat = 15 * time.Second

// streamEvents serves the highlight and feedback buses over Server-Sent
// Events. The subscription lives as long as the request; slow consumers
// lose events rather than blocking publishers.
func (h *Handler) streamEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, r, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	ctx := r.Context()
	resolved := h.resolved.Subscribe(ctx)
	categories := h.categories.Subscribe(ctx)
	cues := h.cues.Subscribe(ctx)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	lg := zctx.From(ctx)
	heartbeat := time.NewTicker(eventHeartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, open := <-resolved:
			if !open {
				return
			}
			writeEvent(w, lg, "highlight.resolved", ev)
		case ev, open := <-categories:
			if !open {
				return
			}
			writeEvent(w, lg, "category.activated", ev)
		case ev, open := <-cues:
			if !open {
				return
			}
			writeEvent(w, lg, "feedback.cue", ev)
		case <-heartbeat.C:
			fmt.Fprint(w, ": heartbeat\n\n")
		}
		flusher.Flush()
	}
}

func writeEvent(w http.ResponseWriter, lg *zap.Logger, name string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		lg.Warn("Failed to encode event", zap.String("event", name), zap.Error(err))
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", name, data)
}
