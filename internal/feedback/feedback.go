// Package feedback delivers fire-and-forget UI feedback cues (sounds) to
// whatever presentation layer is listening. Playback problems are a fact of
// life (autoplay policies, no listener mounted) and are never surfaced to
// the user: every failure mode here is swallowed and logged.
package feedback

import (
	"context"

	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/rincon-pacifico/orders-api/internal/bus"
)

// Well-known cue names.
const (
	CueAddToCart      = "add-to-cart"
	CueOrderConfirmed = "order-confirmed"
)

// Cue is a request to play a named sound at the given volume (0..1).
type Cue struct {
	Name   string  `json:"name"`
	Volume float64 `json:"volume"`
}

// Player plays feedback cues. Implementations must never return an error:
// feedback is best-effort by contract.
type Player interface {
	Play(ctx context.Context, cue string, volume float64)
}

// BusPlayer broadcasts cues on the event bus for connected presentation
// clients to play.
type BusPlayer struct {
	cues *bus.Bus[Cue]
}

// NewBusPlayer creates a BusPlayer publishing on the given bus.
func NewBusPlayer(cues *bus.Bus[Cue]) *BusPlayer {
	return &BusPlayer{cues: cues}
}

// Play publishes the cue. A cue nobody hears is not an error; it is logged
// at debug and forgotten.
func (p *BusPlayer) Play(ctx context.Context, cue string, volume float64) {
	if volume < 0 {
		volume = 0
	} else if volume > 1 {
		volume = 1
	}

	delivered := p.cues.Publish(Cue{Name: cue, Volume: volume})
	if delivered == 0 {
		zctx.From(ctx).Debug("Feedback cue had no listeners",
			zap.String("cue", cue))
	}
}

// NopPlayer discards every cue. Useful in tests.
type NopPlayer struct{}

func (NopPlayer) Play(context.Context, string, float64) {}
