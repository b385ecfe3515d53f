// Package messaging implements the request/reply protocol between the
// clipping subsystem and the UI that asks for clips.
package messaging

import (
	"context"
	"errors"
	"fmt"

	"github.com/dtnitsch/web-clipper/models"
	"github.com/dtnitsch/web-clipper/pkg/document"
	"github.com/dtnitsch/web-clipper/pkg/picker"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/html"
)

// GenericFailure is reported when a clip fails in a way the user cannot act on.
const GenericFailure = "Failed to clip content"

// Clipper is the part of clipper.Clipper the handler needs.
type Clipper interface {
	Clip(ctx context.Context, doc *document.Document, req models.ClipRequest) (*models.ClipResult, error)
}

// Handler answers CLIP_REQUEST messages.
type Handler struct {
	clipper Clipper
}

// NewHandler returns a Handler dispatching to c.
func NewHandler(c Clipper) *Handler {
	return &Handler{clipper: c}
}

// Handle answers msg with CLIP_DATA or CLIP_ERROR. It never panics: a panic
// during extraction is reported as a generic failure.
func (h *Handler) Handle(ctx context.Context, doc *document.Document, msg models.Message) models.Message {
	return h.handle(ctx, doc, msg, nil)
}

// HandleSnapshot answers msg for a page that arrives as a snapshot. An
// element clip whose snapshot names a selector clips that element instead
// of waiting on the picker.
func (h *Handler) HandleSnapshot(ctx context.Context, snap models.PageSnapshot, msg models.Message) models.Message {
	doc, err := document.FromSnapshot(snap)
	if err != nil {
		log.Warn().Err(err).Str("url", snap.URL).Msg("bad page snapshot")
		return models.NewClipError(err.Error())
	}

	var target *html.Node
	if msg.ClipType == models.ClipElement && snap.Selector != "" {
		target, err = doc.QuerySelector(snap.Selector)
		if err != nil {
			return models.NewClipError(err.Error())
		}
		if target == nil {
			return models.NewClipError(fmt.Sprintf("no element matches %q", snap.Selector))
		}
	}
	return h.handle(ctx, doc, msg, target)
}

func (h *Handler) handle(ctx context.Context, doc *document.Document, msg models.Message, target *html.Node) (reply models.Message) {
	if msg.Type != models.MessageClipRequest {
		return models.NewClipError(fmt.Sprintf("unsupported message type: %q", msg.Type))
	}
	kind, err := models.ParseClipKind(string(msg.ClipType))
	if err != nil {
		return models.NewClipError(err.Error())
	}

	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Str("clip_type", string(kind)).Msg("clip panicked")
			reply = models.NewClipError(GenericFailure)
		}
	}()

	result, err := h.clipper.Clip(ctx, doc, models.ClipRequest{Kind: kind, Element: target})
	if err != nil {
		if errors.Is(err, picker.ErrCancelled) {
			log.Info().Str("clip_type", string(kind)).Msg("clip cancelled by user")
		} else {
			log.Error().Err(err).Str("clip_type", string(kind)).Msg("clip failed")
		}
		return models.NewClipError(err.Error())
	}
	return models.NewClipData(result)
}
