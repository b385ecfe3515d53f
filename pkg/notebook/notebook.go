// Package notebook turns clip results into stored notes.
package notebook

import (
	"fmt"
	"strings"
	"time"

	"github.com/dtnitsch/web-clipper/internal/common"
	"github.com/dtnitsch/web-clipper/models"
	"github.com/dtnitsch/web-clipper/pkg/analytics"
	"github.com/dtnitsch/web-clipper/pkg/langdetect"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Store is the persistence the notebook needs. *db.DB implements it.
type Store interface {
	InsertNote(n *models.Note) error
	GetNote(id string) (*models.Note, error)
	ListNotes(limit int) ([]*models.Note, error)
	UpdateNote(n *models.Note) error
	DeleteNote(id string) error
	FindNoteByHash(url, contentHash string) (*models.Note, error)
}

type Notebook struct {
	store    Store
	now      func() time.Time
	newID    func() string
	keywords int
}

type Option func(*Notebook)

func WithClock(now func() time.Time) Option {
	return func(nb *Notebook) { nb.now = now }
}

func WithIDs(newID func() string) Option {
	return func(nb *Notebook) { nb.newID = newID }
}

// WithKeywordCount sets how many keywords are stored per note.
func WithKeywordCount(n int) Option {
	return func(nb *Notebook) { nb.keywords = n }
}

func New(store Store, opts ...Option) *Notebook {
	nb := &Notebook{
		store:    store,
		now:      time.Now,
		newID:    uuid.NewString,
		keywords: analytics.DefaultKeywordCount,
	}
	for _, opt := range opts {
		opt(nb)
	}
	return nb
}

// Save stores res as a note. Saving the same content from the same URL
// again returns the existing note with created set to false.
func (nb *Notebook) Save(res models.ClipResult) (note *models.Note, created bool, err error) {
	if strings.TrimSpace(res.Content) == "" {
		return nil, false, fmt.Errorf("nothing to save: clip is empty")
	}

	hash := common.ContentHash([]byte(res.Content))
	existing, err := nb.store.FindNoteByHash(res.URL, hash)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		log.Debug().Str("id", existing.ID).Msg("clip already saved")
		return existing, false, nil
	}

	createdAt := res.Timestamp
	if createdAt == 0 {
		createdAt = nb.now().UnixMilli()
	}
	note = &models.Note{
		ID:          nb.newID(),
		Title:       res.Title,
		URL:         res.URL,
		Content:     res.Content,
		ClipType:    res.ClipType,
		Language:    langdetect.Detect(res.Content),
		Keywords:    analytics.TopKeywords(res.Content, nb.keywords),
		ContentHash: hash,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
	if err := nb.store.InsertNote(note); err != nil {
		return nil, false, err
	}

	log.Info().
		Str("id", note.ID).
		Str("clipType", string(note.ClipType)).
		Str("language", note.Language).
		Msg("note saved")
	return note, true, nil
}

func (nb *Notebook) Get(id string) (*models.Note, error) {
	return nb.store.GetNote(id)
}

// List returns up to limit notes, newest first; limit <= 0 lists all.
func (nb *Notebook) List(limit int) ([]*models.Note, error) {
	return nb.store.ListNotes(limit)
}

func (nb *Notebook) Delete(id string) error {
	if err := nb.store.DeleteNote(id); err != nil {
		return err
	}
	log.Info().Str("id", id).Msg("note deleted")
	return nil
}

// Rename changes a note's title.
func (nb *Notebook) Rename(id, title string) (*models.Note, error) {
	note, err := nb.store.GetNote(id)
	if err != nil {
		return nil, err
	}
	note.Title = strings.TrimSpace(title)
	note.UpdatedAt = nb.now().UnixMilli()
	if err := nb.store.UpdateNote(note); err != nil {
		return nil, err
	}
	return note, nil
}
