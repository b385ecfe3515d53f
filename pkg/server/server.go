// Package server exposes the clipping protocol, the element picker and the
// note store over HTTP for a browser extension or other local client.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dtnitsch/web-clipper/models"
	"github.com/dtnitsch/web-clipper/pkg/clipper"
	"github.com/dtnitsch/web-clipper/pkg/db"
	"github.com/dtnitsch/web-clipper/pkg/messaging"
	"github.com/dtnitsch/web-clipper/pkg/notebook"
	"github.com/dtnitsch/web-clipper/pkg/picker"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
)

// maxRequestBytes bounds a clip request, which carries a whole page.
const maxRequestBytes = 32 << 20

// ClipEnvelope is the body of POST /clip.
type ClipEnvelope struct {
	Message models.Message      `json:"message"`
	Page    models.PageSnapshot `json:"page"`
	Save    bool                `json:"save,omitempty"`
}

// ClipReply is the body answering POST /clip: the protocol reply, plus the
// stored note when the clip was saved.
type ClipReply struct {
	models.Message
	Note      *models.Note `json:"note,omitempty"`
	Duplicate bool         `json:"duplicate,omitempty"`
}

// Server is the HTTP front end for clipping and saved notes.
type Server struct {
	clipper *clipper.Clipper
	handler *messaging.Handler
	notes   *notebook.Notebook
	router  chi.Router
}

// New wires the routes. notes may be nil, in which case saving and the
// /notes routes answer 503.
func New(c *clipper.Clipper, notes *notebook.Notebook) *Server {
	s := &Server{
		clipper: c,
		handler: messaging.NewHandler(c),
		notes:   notes,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.New(cors.Options{
		AllowOriginFunc: allowOrigin,
		AllowedMethods:  []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowedHeaders:  []string{"Content-Type"},
	}).Handler)

	r.Get("/healthz", s.handleHealth)
	r.Post("/clip", s.handleClip)
	r.Route("/picker", func(r chi.Router) {
		r.Post("/select", s.handlePickerSelect)
		r.Post("/cancel", s.handlePickerCancel)
	})
	r.Route("/notes", func(r chi.Router) {
		r.Use(s.requireNotes)
		r.Get("/", s.handleListNotes)
		r.Get("/{id}", s.handleGetNote)
		r.Delete("/{id}", s.handleDeleteNote)
	})

	s.router = r
	return s
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	// pending picker waits would hold their requests open
	_ = s.clipper.Picker().Cancel()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info().Msg("server stopped")
	return nil
}

// allowOrigin admits browser extensions and pages served from this machine.
func allowOrigin(origin string) bool {
	switch {
	case strings.HasPrefix(origin, "chrome-extension://"),
		strings.HasPrefix(origin, "moz-extension://"),
		strings.HasPrefix(origin, "safari-web-extension://"):
		return true
	case strings.HasPrefix(origin, "http://localhost"),
		strings.HasPrefix(origin, "http://127.0.0.1"):
		return true
	}
	return false
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleClip(w http.ResponseWriter, r *http.Request) {
	var env ClipEnvelope
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(&env); err != nil {
		writeError(w, http.StatusBadRequest, "invalid clip request: "+err.Error())
		return
	}
	if env.Save && s.notes == nil {
		writeError(w, http.StatusServiceUnavailable, "note store not configured")
		return
	}

	reply := ClipReply{Message: s.handler.HandleSnapshot(r.Context(), env.Page, env.Message)}

	if env.Save && reply.Type == models.MessageClipData {
		note, created, err := s.notes.Save(*reply.Data)
		if err != nil {
			log.Error().Err(err).Str("url", reply.Data.URL).Msg("failed to save clip")
			writeError(w, http.StatusInternalServerError, "failed to save clip")
			return
		}
		reply.Note = note
		reply.Duplicate = !created
	}

	// CLIP_ERROR is a protocol reply, not a transport failure
	writeJSON(w, http.StatusOK, reply)
}

type pickerSelectRequest struct {
	Selector string `json:"selector"`
}

func (s *Server) handlePickerSelect(w http.ResponseWriter, r *http.Request) {
	var req pickerSelectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Selector == "" {
		writeError(w, http.StatusBadRequest, "selector is required")
		return
	}

	err := s.clipper.Picker().Select(req.Selector)
	switch {
	case errors.Is(err, picker.ErrNoSession):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, picker.ErrNotSelectable):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case err != nil:
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) handlePickerCancel(w http.ResponseWriter, r *http.Request) {
	if err := s.clipper.Picker().Cancel(); err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) requireNotes(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.notes == nil {
			writeError(w, http.StatusServiceUnavailable, "note store not configured")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleListNotes(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	notes, err := s.notes.List(limit)
	if err != nil {
		log.Error().Err(err).Msg("failed to list notes")
		writeError(w, http.StatusInternalServerError, "failed to list notes")
		return
	}
	if notes == nil {
		notes = []*models.Note{}
	}
	writeJSON(w, http.StatusOK, notes)
}

func (s *Server) handleGetNote(w http.ResponseWriter, r *http.Request) {
	note, err := s.notes.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeNoteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

func (s *Server) handleDeleteNote(w http.ResponseWriter, r *http.Request) {
	if err := s.notes.Delete(chi.URLParam(r, "id")); err != nil {
		writeNoteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeNoteError(w http.ResponseWriter, err error) {
	if errors.Is(err, db.ErrNoteNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	log.Error().Err(err).Msg("note store error")
	writeError(w, http.StatusInternalServerError, "note store error")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("failed to write response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
