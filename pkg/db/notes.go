package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dtnitsch/web-clipper/models"
)

// ErrNoteNotFound is returned when no note has the requested ID.
var ErrNoteNotFound = errors.New("note not found")

const noteColumns = `note_id, title, url, content, clip_type, language, keywords, content_hash, created_at, updated_at`

// InsertNote stores a fully populated note.
func (db *DB) InsertNote(n *models.Note) error {
	keywords, err := encodeKeywords(n.Keywords)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		INSERT INTO notes (`+noteColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, n.ID, n.Title, n.URL, n.Content, string(n.ClipType), n.Language, keywords, n.ContentHash, n.CreatedAt, n.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert note: %w", err)
	}
	return nil
}

// GetNote returns the note with the given ID.
func (db *DB) GetNote(id string) (*models.Note, error) {
	row := db.QueryRow(`SELECT `+noteColumns+` FROM notes WHERE note_id = ?`, id)
	n, err := scanNote(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNoteNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get note: %w", err)
	}
	return n, nil
}

// FindNoteByHash returns the newest note for url with the given content
// hash, or nil when there is none.
func (db *DB) FindNoteByHash(url, contentHash string) (*models.Note, error) {
	row := db.QueryRow(`
		SELECT `+noteColumns+` FROM notes
		WHERE url = ? AND content_hash = ?
		ORDER BY created_at DESC
		LIMIT 1
	`, url, contentHash)
	n, err := scanNote(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find note by hash: %w", err)
	}
	return n, nil
}

// ListNotes returns notes newest first. limit <= 0 returns all.
func (db *DB) ListNotes(limit int) ([]*models.Note, error) {
	query := `SELECT ` + noteColumns + ` FROM notes ORDER BY created_at DESC, note_id`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	defer rows.Close()

	var notes []*models.Note
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate notes: %w", err)
	}
	return notes, nil
}

// UpdateNote rewrites the editable fields of a note.
func (db *DB) UpdateNote(n *models.Note) error {
	keywords, err := encodeKeywords(n.Keywords)
	if err != nil {
		return err
	}

	res, err := db.Exec(`
		UPDATE notes
		SET title = ?, content = ?, language = ?, keywords = ?, content_hash = ?, updated_at = ?
		WHERE note_id = ?
	`, n.Title, n.Content, n.Language, keywords, n.ContentHash, n.UpdatedAt, n.ID)
	if err != nil {
		return fmt.Errorf("failed to update note: %w", err)
	}
	return requireRow(res, n.ID)
}

// DeleteNote removes a note.
func (db *DB) DeleteNote(id string) error {
	res, err := db.Exec(`DELETE FROM notes WHERE note_id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}
	return requireRow(res, id)
}

func requireRow(res sql.Result, id string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrNoteNotFound, id)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanNote(s scanner) (*models.Note, error) {
	var (
		n        models.Note
		clipType string
		keywords string
	)
	err := s.Scan(&n.ID, &n.Title, &n.URL, &n.Content, &clipType, &n.Language, &keywords, &n.ContentHash, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		return nil, err
	}
	n.ClipType = models.ClipKind(clipType)
	if err := json.Unmarshal([]byte(keywords), &n.Keywords); err != nil {
		return nil, fmt.Errorf("failed to decode keywords: %w", err)
	}
	return &n, nil
}

func encodeKeywords(keywords []string) (string, error) {
	if keywords == nil {
		keywords = []string{}
	}
	data, err := json.Marshal(keywords)
	if err != nil {
		return "", fmt.Errorf("failed to encode keywords: %w", err)
	}
	return string(data), nil
}
