package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/dtnitsch/web-clipper/models"
	"github.com/dtnitsch/web-clipper/pkg/clipper"
	"github.com/dtnitsch/web-clipper/pkg/document"
	"github.com/dtnitsch/web-clipper/pkg/picker"
)

type stubClipper struct {
	result *models.ClipResult
	err    error
	panics bool
}

func (s stubClipper) Clip(context.Context, *document.Document, models.ClipRequest) (*models.ClipResult, error) {
	if s.panics {
		panic("boom")
	}
	return s.result, s.err
}

func TestHandle(t *testing.T) {
	result := &models.ClipResult{Title: "T", URL: "https://ex.com", Content: "c", ClipType: models.ClipPage, Timestamp: 1}

	tests := []struct {
		name     string
		clipper  stubClipper
		msg      models.Message
		wantType models.MessageType
		wantErr  string
	}{
		{
			name:     "data",
			clipper:  stubClipper{result: result},
			msg:      models.Message{Type: models.MessageClipRequest, ClipType: models.ClipPage},
			wantType: models.MessageClipData,
		},
		{
			name:     "clip error",
			clipper:  stubClipper{err: errors.New("dom exploded")},
			msg:      models.Message{Type: models.MessageClipRequest, ClipType: models.ClipPage},
			wantType: models.MessageClipError,
			wantErr:  "dom exploded",
		},
		{
			name:     "cancelled",
			clipper:  stubClipper{err: fmt.Errorf("failed to pick element: %w", picker.ErrCancelled)},
			msg:      models.Message{Type: models.MessageClipRequest, ClipType: models.ClipElement},
			wantType: models.MessageClipError,
			wantErr:  "failed to pick element: element selection cancelled",
		},
		{
			name:     "panic",
			clipper:  stubClipper{panics: true},
			msg:      models.Message{Type: models.MessageClipRequest, ClipType: models.ClipPage},
			wantType: models.MessageClipError,
			wantErr:  GenericFailure,
		},
		{
			name:     "unknown message",
			msg:      models.Message{Type: "PING"},
			wantType: models.MessageClipError,
			wantErr:  `unsupported message type: "PING"`,
		},
		{
			name:     "unknown clip type",
			msg:      models.Message{Type: models.MessageClipRequest, ClipType: "video"},
			wantType: models.MessageClipError,
			wantErr:  `unknown clip type: "video"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply := NewHandler(tt.clipper).Handle(context.Background(), nil, tt.msg)
			if reply.Type != tt.wantType {
				t.Errorf("Type = %s, want %s", reply.Type, tt.wantType)
			}
			if reply.Error != tt.wantErr {
				t.Errorf("Error = %q, want %q", reply.Error, tt.wantErr)
			}
			if tt.wantType == models.MessageClipData && reply.Data != result {
				t.Errorf("Data = %+v, want %+v", reply.Data, result)
			}
		})
	}
}

func TestHandle_EndToEnd(t *testing.T) {
	doc, err := document.Parse(`<title>Example</title><article><h1>Hi</h1><p>World</p></article>`, "https://ex.com/a")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	var msg models.Message
	if err := json.Unmarshal([]byte(`{"type":"CLIP_REQUEST","clipType":"page"}`), &msg); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	reply := NewHandler(clipper.New()).Handle(context.Background(), doc, msg)
	if reply.Type != models.MessageClipData || reply.Data == nil {
		t.Fatalf("reply = %+v", reply)
	}
	if reply.Data.Content != "# Hi\n\nWorld" || reply.Data.Title != "Example" || reply.Data.URL != "https://ex.com/a" {
		t.Errorf("data = %+v", reply.Data)
	}

	raw, err := json.Marshal(reply)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if decoded["type"] != "CLIP_DATA" {
		t.Errorf("type = %v", decoded["type"])
	}
	if _, ok := decoded["error"]; ok {
		t.Error("CLIP_DATA should not carry an error field")
	}
	data := decoded["data"].(map[string]any)
	if data["clipType"] != "page" {
		t.Errorf("clipType = %v", data["clipType"])
	}
}

func TestHandleSnapshot(t *testing.T) {
	page := `<title>Snap</title><body><div id="nav">Menu</div><section id="target"><h2>Part</h2><p>Hello world</p></section></body>`
	zero := 0
	h := NewHandler(clipper.New())

	tests := []struct {
		name        string
		snap        models.PageSnapshot
		clipType    models.ClipKind
		wantType    models.MessageType
		wantContent string
	}{
		{
			name:        "element by selector",
			snap:        models.PageSnapshot{URL: "https://ex.com", HTML: page, Selector: "#target"},
			clipType:    models.ClipElement,
			wantType:    models.MessageClipData,
			wantContent: "## Part\n\nHello world",
		},
		{
			name:     "selector matches nothing",
			snap:     models.PageSnapshot{URL: "https://ex.com", HTML: page, Selector: "#missing"},
			clipType: models.ClipElement,
			wantType: models.MessageClipError,
		},
		{
			name:     "invalid selector",
			snap:     models.PageSnapshot{URL: "https://ex.com", HTML: page, Selector: "[["},
			clipType: models.ClipElement,
			wantType: models.MessageClipError,
		},
		{
			name: "text selection",
			snap: models.PageSnapshot{URL: "https://ex.com", HTML: page, Selection: &models.SelectionSpec{
				Start: models.BoundarySpec{Selector: "p", Child: &zero, Offset: 0},
				End:   models.BoundarySpec{Selector: "p", Child: &zero, Offset: 5},
			}},
			clipType:    models.ClipSelection,
			wantType:    models.MessageClipData,
			wantContent: "Hello",
		},
		{
			name:        "no selection",
			snap:        models.PageSnapshot{URL: "https://ex.com", HTML: page},
			clipType:    models.ClipSelection,
			wantType:    models.MessageClipData,
			wantContent: "",
		},
		{
			name:     "bad url",
			snap:     models.PageSnapshot{URL: "://bad", HTML: page},
			clipType: models.ClipPage,
			wantType: models.MessageClipError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := models.Message{Type: models.MessageClipRequest, ClipType: tt.clipType}
			reply := h.HandleSnapshot(context.Background(), tt.snap, msg)
			if reply.Type != tt.wantType {
				t.Fatalf("reply = %+v, want type %s", reply, tt.wantType)
			}
			if tt.wantType == models.MessageClipError {
				if reply.Error == "" {
					t.Error("CLIP_ERROR without message")
				}
				return
			}
			if reply.Data.Content != tt.wantContent {
				t.Errorf("Content = %q, want %q", reply.Data.Content, tt.wantContent)
			}
			if reply.Data.Title != "Snap" {
				t.Errorf("Title = %q, want Snap", reply.Data.Title)
			}
		})
	}
}

func TestNotify(t *testing.T) {
	tests := []struct {
		name  string
		reply models.Message
		want  Notification
	}{
		{"titled", models.NewClipData(&models.ClipResult{Title: "Example", Content: "x"}), Notification{true, `Clipped "Example"`}},
		{"url fallback", models.NewClipData(&models.ClipResult{URL: "https://ex.com", Content: "x"}), Notification{true, `Clipped "https://ex.com"`}},
		{"untitled", models.NewClipData(&models.ClipResult{Content: "x"}), Notification{true, "Clip saved"}},
		{"empty selection", models.NewClipData(&models.ClipResult{Title: "t"}), Notification{true, "Nothing to clip: the selection is empty"}},
		{"error", models.NewClipError("nope"), Notification{false, "nope"}},
		{"bare error", models.Message{Type: models.MessageClipError}, Notification{false, GenericFailure}},
		{"missing data", models.Message{Type: models.MessageClipData}, Notification{false, GenericFailure}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Notify(tt.reply); got != tt.want {
				t.Errorf("Notify() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
