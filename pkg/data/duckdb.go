package data

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/marcboeker/go-duckdb/v2"
)

const schema = `
CREATE TABLE IF NOT EXISTS reading_progress (
	chapter_id    VARCHAR PRIMARY KEY,
	series_id     VARCHAR NOT NULL,
	series_title  VARCHAR,
	chapter_title VARCHAR,
	page          INTEGER NOT NULL,
	page_count    INTEGER NOT NULL,
	updated_at    TIMESTAMP NOT NULL
)`

// InitDuckDB opens (or creates) the database at path and applies the schema.
// An empty path opens an in-memory database.
func InitDuckDB(path string) (*sql.DB, error) {
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return db, nil
}

type Repository struct {
	db *sql.DB
}

func NewDuckDBRepository(path string) (*Repository, error) {
	db, err := InitDuckDB(path)
	if err != nil {
		return nil, err
	}
	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}

// SaveProgress inserts or replaces the bookmark for p.ChapterID.
func (r *Repository) SaveProgress(p *Progress) error {
	if p == nil || p.ChapterID == "" {
		return fmt.Errorf("progress requires a chapter id")
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = time.Now().UTC()
	}

	_, err := r.db.Exec(`
		INSERT OR REPLACE INTO reading_progress
			(chapter_id, series_id, series_title, chapter_title, page, page_count, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.ChapterID, p.SeriesID, p.SeriesTitle, p.ChapterTitle, p.Page, p.PageCount, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save progress: %w", err)
	}
	return nil
}

// GetProgress returns nil, nil when the chapter has no bookmark.
func (r *Repository) GetProgress(chapterID string) (*Progress, error) {
	row := r.db.QueryRow(`
		SELECT chapter_id, series_id, series_title, chapter_title, page, page_count, updated_at
		FROM reading_progress WHERE chapter_id = ?`, chapterID)

	p, err := scanProgress(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get progress: %w", err)
	}
	return p, nil
}

// ListProgress returns bookmarks, most recently updated first. limit <= 0 means all.
func (r *Repository) ListProgress(limit int) ([]*Progress, error) {
	query := `
		SELECT chapter_id, series_id, series_title, chapter_title, page, page_count, updated_at
		FROM reading_progress ORDER BY updated_at DESC, chapter_id`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list progress: %w", err)
	}
	defer rows.Close()

	var out []*Progress
	for rows.Next() {
		p, err := scanProgress(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan progress: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// ListSeriesProgress returns the bookmarks of one series keyed by chapter id.
func (r *Repository) ListSeriesProgress(seriesID string) (map[string]*Progress, error) {
	rows, err := r.db.Query(`
		SELECT chapter_id, series_id, series_title, chapter_title, page, page_count, updated_at
		FROM reading_progress WHERE series_id = ?`, seriesID)
	if err != nil {
		return nil, fmt.Errorf("failed to list series progress: %w", err)
	}
	defer rows.Close()

	out := make(map[string]*Progress)
	for rows.Next() {
		p, err := scanProgress(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan progress: %w", err)
		}
		out[p.ChapterID] = p
	}
	return out, rows.Err()
}

func (r *Repository) DeleteProgress(chapterID string) error {
	if _, err := r.db.Exec(`DELETE FROM reading_progress WHERE chapter_id = ?`, chapterID); err != nil {
		return fmt.Errorf("failed to delete progress: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProgress(s scanner) (*Progress, error) {
	var (
		p            Progress
		seriesTitle  sql.NullString
		chapterTitle sql.NullString
	)
	if err := s.Scan(&p.ChapterID, &p.SeriesID, &seriesTitle, &chapterTitle, &p.Page, &p.PageCount, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.SeriesTitle = seriesTitle.String
	p.ChapterTitle = chapterTitle.String
	return &p, nil
}
