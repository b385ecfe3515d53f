// Package clipper turns a clip request against a document into a
// timestamped Markdown result.
package clipper

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dtnitsch/web-clipper/models"
	"github.com/dtnitsch/web-clipper/pkg/classifier"
	"github.com/dtnitsch/web-clipper/pkg/document"
	"github.com/dtnitsch/web-clipper/pkg/locator"
	"github.com/dtnitsch/web-clipper/pkg/markdown"
	"github.com/dtnitsch/web-clipper/pkg/picker"
	"github.com/dtnitsch/web-clipper/pkg/selection"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/html"
)

// Clipper dispatches clip requests. It is safe for concurrent use; the only
// shared state is the picker, which allows one pending session at a time.
type Clipper struct {
	classifier *classifier.Classifier
	picker     *picker.Picker
	maxDepth   int
	now        func() time.Time
}

// Option configures a Clipper.
type Option func(*Clipper)

// WithClassifier sets the exclusion rules used by every conversion.
func WithClassifier(c *classifier.Classifier) Option {
	return func(cl *Clipper) {
		if c != nil {
			cl.classifier = c
		}
	}
}

// WithPicker shares a picker with another component, e.g. the HTTP
// transport that forwards the user's choice.
func WithPicker(p *picker.Picker) Option {
	return func(cl *Clipper) { cl.picker = p }
}

// WithMaxDepth overrides the conversion depth limit.
func WithMaxDepth(depth int) Option {
	return func(cl *Clipper) { cl.maxDepth = depth }
}

// WithClock sets the source of result timestamps.
func WithClock(now func() time.Time) Option {
	return func(cl *Clipper) { cl.now = now }
}

// New returns a Clipper with default settings.
func New(opts ...Option) *Clipper {
	c := &Clipper{
		classifier: classifier.Default,
		picker:     picker.New(),
		maxDepth:   markdown.DefaultMaxDepth,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Picker is the picker element clips without a target wait on.
func (c *Clipper) Picker() *picker.Picker { return c.picker }

// ActivatePicker starts an element-picker session on doc.
func (c *Clipper) ActivatePicker(doc *document.Document) *picker.Session {
	return c.picker.Activate(doc)
}

// Clip extracts content for req from doc. An empty selection is a valid,
// empty result. Element clips without a target block on the picker until
// the user selects or cancels, or ctx ends.
func (c *Clipper) Clip(ctx context.Context, doc *document.Document, req models.ClipRequest) (*models.ClipResult, error) {
	if doc == nil {
		return nil, errors.New("no document to clip")
	}
	emitter := c.emitter(doc)

	var content string
	switch req.Kind {
	case models.ClipSelection:
		content = selection.Capture(doc.Selection(), emitter)

	case models.ClipPage:
		root := locator.FindMainContent(doc)
		content = markdown.CleanMarkdown(emitter.ToMarkdown(root))

	case models.ClipElement:
		target := req.Element
		if target == nil {
			var err error
			target, err = c.pick(ctx, doc)
			if err != nil {
				return nil, err
			}
		}
		content = markdown.CleanMarkdown(emitter.ToMarkdown(target))

	default:
		return nil, fmt.Errorf("unknown clip type: %q", req.Kind)
	}

	result := &models.ClipResult{
		Title:     doc.Title(),
		URL:       doc.Location(),
		Content:   content,
		ClipType:  req.Kind,
		Timestamp: c.now().UnixMilli(),
	}
	log.Debug().
		Str("clip_type", string(req.Kind)).
		Str("url", result.URL).
		Int("content_len", len(content)).
		Msg("clip extracted")
	return result, nil
}

func (c *Clipper) pick(ctx context.Context, doc *document.Document) (*html.Node, error) {
	s := c.picker.Activate(doc)
	n, err := s.Wait(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to pick element: %w", err)
	}
	return n, nil
}

func (c *Clipper) emitter(doc *document.Document) *markdown.Emitter {
	return markdown.NewEmitter(
		markdown.WithBaseURL(doc.URL()),
		markdown.WithClassifier(c.classifier),
		markdown.WithMaxDepth(c.maxDepth),
	)
}
