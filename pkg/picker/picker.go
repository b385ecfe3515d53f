// Package picker lets an external UI choose one element of a document.
//
// A Session is activated on a document, marks it with overlay nodes, and
// waits until the UI selects an element or cancels. A Picker owns at most one
// active session; activating a new one tears the previous one down first.
package picker

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dtnitsch/web-clipper/pkg/document"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var (
	// ErrCancelled is returned by Wait when the user dismisses the picker.
	ErrCancelled = errors.New("element selection cancelled")
	// ErrReplaced is returned by Wait when a newer session took over.
	ErrReplaced = errors.New("element selection replaced by a newer picker")
	// ErrNoSession is returned when there is no active session to act on.
	ErrNoSession = errors.New("no active element picker")
	// ErrNotSelectable is returned for nodes that cannot be clipped.
	ErrNotSelectable = errors.New("node cannot be selected")
)

// Fixed IDs of the nodes a session inserts; at most one of each exists.
const (
	OverlayID = "webclip-picker-overlay"
	TooltipID = "webclip-picker-tooltip"
)

// Picker serializes sessions. The zero value is ready to use.
type Picker struct {
	activating sync.Mutex // serializes Activate

	mu     sync.Mutex
	active *Session
}

// New returns an empty Picker.
func New() *Picker {
	return &Picker{}
}

// Activate starts a session on doc, tearing down the previous session if
// one is still pending.
func (p *Picker) Activate(doc *document.Document) *Session {
	p.activating.Lock()
	defer p.activating.Unlock()

	if prev := p.Active(); prev != nil {
		prev.finish(nil, ErrReplaced)
	}

	s := &Session{
		picker: p,
		doc:    doc,
		done:   make(chan struct{}),
	}
	s.mount()

	p.mu.Lock()
	p.active = s
	p.mu.Unlock()
	log.Debug().Str("url", doc.Location()).Msg("element picker activated")
	return s
}

// Active returns the pending session, or nil.
func (p *Picker) Active() *Session {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.active
}

// Select resolves the active session with the first element matching
// selector.
func (p *Picker) Select(selector string) error {
	s := p.Active()
	if s == nil {
		return ErrNoSession
	}
	return s.SelectSelector(selector)
}

// Cancel rejects the active session, as pressing Escape does.
func (p *Picker) Cancel() error {
	s := p.Active()
	if s == nil {
		return ErrNoSession
	}
	s.Cancel()
	return nil
}

func (p *Picker) release(s *Session) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.active == s {
		p.active = nil
	}
}

// Session is one pending element selection.
type Session struct {
	picker *Picker
	doc    *document.Document

	mu      sync.Mutex
	once    sync.Once
	done    chan struct{}
	node    *html.Node
	err     error
	overlay *html.Node
	tooltip *html.Node
}

// Document is the document being picked from.
func (s *Session) Document() *document.Document { return s.doc }

// Select resolves the session with n.
func (s *Session) Select(n *html.Node) error {
	if n == nil || n.Type != html.ElementNode {
		return ErrNotSelectable
	}
	if isOverlay(n) {
		return fmt.Errorf("%w: picker overlay", ErrNotSelectable)
	}
	if !s.finish(n, nil) {
		return ErrNoSession
	}
	return nil
}

// SelectSelector resolves the session with the first element matching
// selector.
func (s *Session) SelectSelector(selector string) error {
	s.mu.Lock()
	n, err := s.doc.QuerySelector(selector)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	if n == nil {
		return fmt.Errorf("%w: nothing matches %q", ErrNotSelectable, selector)
	}
	return s.Select(n)
}

// Cancel rejects the session with ErrCancelled.
func (s *Session) Cancel() {
	if s.finish(nil, ErrCancelled) {
		log.Info().Str("url", s.doc.Location()).Msg("element picker cancelled")
	}
}

// Wait blocks until the session is resolved or ctx ends.
func (s *Session) Wait(ctx context.Context) (*html.Node, error) {
	select {
	case <-s.done:
		return s.node, s.err
	case <-ctx.Done():
		s.finish(nil, ctx.Err())
		<-s.done
		return s.node, s.err
	}
}

// Done is closed once the session is resolved.
func (s *Session) Done() <-chan struct{} { return s.done }

// finish resolves the session once; later calls report false.
func (s *Session) finish(n *html.Node, err error) bool {
	first := false
	s.once.Do(func() {
		first = true
		s.mu.Lock()
		s.node, s.err = n, err
		s.unmount()
		s.mu.Unlock()
		close(s.done)
	})
	if first {
		s.picker.release(s)
	}
	return first
}

// mount removes stale overlay nodes left by any other session and inserts
// this session's own.
func (s *Session) mount() {
	s.mu.Lock()
	defer s.mu.Unlock()

	body := s.doc.Body()
	if body == nil {
		return
	}
	removeByID(s.doc.Root(), OverlayID)
	removeByID(s.doc.Root(), TooltipID)

	s.overlay = overlayNode(OverlayID)
	s.tooltip = overlayNode(TooltipID)
	body.AppendChild(s.overlay)
	body.AppendChild(s.tooltip)
}

func (s *Session) unmount() {
	for _, n := range []*html.Node{s.overlay, s.tooltip} {
		if n != nil && n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
	}
	s.overlay, s.tooltip = nil, nil
}

func overlayNode(id string) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		Data:     "div",
		DataAtom: atom.Div,
		Attr: []html.Attribute{
			{Key: "id", Val: id},
			{Key: "aria-hidden", Val: "true"},
		},
	}
}

func isOverlay(n *html.Node) bool {
	for _, a := range n.Attr {
		if a.Key == "id" && (a.Val == OverlayID || a.Val == TooltipID) {
			return true
		}
	}
	return false
}

func removeByID(n *html.Node, id string) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if c.Type == html.ElementNode && hasID(c, id) {
			n.RemoveChild(c)
		} else {
			removeByID(c, id)
		}
		c = next
	}
}

func hasID(n *html.Node, id string) bool {
	for _, a := range n.Attr {
		if a.Key == "id" && a.Val == id {
			return true
		}
	}
	return false
}
