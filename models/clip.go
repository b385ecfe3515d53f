package models

import (
	"fmt"

	"golang.org/x/net/html"
)

// ClipKind names the DOM source a clip is taken from.
type ClipKind string

const (
	ClipSelection ClipKind = "selection"
	ClipPage      ClipKind = "page"
	ClipElement   ClipKind = "element"
)

// ParseClipKind validates a clip kind coming from a flag or a message.
func ParseClipKind(s string) (ClipKind, error) {
	switch k := ClipKind(s); k {
	case ClipSelection, ClipPage, ClipElement:
		return k, nil
	default:
		return "", fmt.Errorf("unknown clip type: %q", s)
	}
}

// ClipRequest asks for a single clip. Element is only read for ClipElement;
// a nil Element there means the picker decides.
type ClipRequest struct {
	Kind    ClipKind
	Element *html.Node
}

// ClipResult is the timestamped record produced by one successful clip.
type ClipResult struct {
	Title     string   `json:"title"`
	URL       string   `json:"url"`
	Content   string   `json:"content"`
	ClipType  ClipKind `json:"clipType"`
	Timestamp int64    `json:"timestamp"` // epoch millis at capture time
}
