// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package library persists extracted annotations in a searchable SQLite
// index so notes survive past a single export file.
package library

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/BlueDude11/Readera-annotation-note-extractor/pkg/types"
)

// Store manages the annotation library database.
type Store struct {
	db         *sql.DB
	maxResults int
}

// NewStore opens or creates the library database at cfg.DBPath and
// ensures the schema exists.
func NewStore(cfg types.LibraryConfig) (*Store, error) {
	cfg.ApplyDefaults()

	db, err := sql.Open("sqlite3", cfg.DBPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, maxResults: cfg.MaxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS books (
			title TEXT PRIMARY KEY,
			record_count INTEGER NOT NULL,
			indexed_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS annotations (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			book_title TEXT NOT NULL REFERENCES books(title),
			page TEXT,
			quote TEXT,
			note TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_annotations_book ON annotations(book_title)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='annotations_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE annotations_fts USING fts5(quote, note, content=annotations, content_rowid=rowid)`,
			`CREATE TRIGGER annotations_ai AFTER INSERT ON annotations BEGIN
				INSERT INTO annotations_fts(rowid, quote, note) VALUES (new.rowid, new.quote, new.note);
			END`,
			`CREATE TRIGGER annotations_ad AFTER DELETE ON annotations BEGIN
				INSERT INTO annotations_fts(annotations_fts, rowid, quote, note) VALUES('delete', old.rowid, old.quote, old.note);
			END`,
			`CREATE TRIGGER annotations_au AFTER UPDATE ON annotations BEGIN
				INSERT INTO annotations_fts(annotations_fts, rowid, quote, note) VALUES('delete', old.rowid, old.quote, old.note);
				INSERT INTO annotations_fts(rowid, quote, note) VALUES (new.rowid, new.quote, new.note);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}

	return nil
}

// IngestSummary holds counts from a library indexing run.
type IngestSummary struct {
	Indexed int
	Updated int
	Failed  int
}

// Total returns the number of books processed.
func (s IngestSummary) Total() int {
	return s.Indexed + s.Updated + s.Failed
}

// HasFailures reports whether any books failed indexing.
func (s IngestSummary) HasFailures() bool {
	return s.Failed > 0
}

// Ingest stores every group in the library, replacing a book's rows when
// it was indexed before. One book failing does not stop the rest.
func (s *Store) Ingest(ctx context.Context, groups []types.BookGroup, w io.Writer) (IngestSummary, error) {
	var summary IngestSummary

	for _, g := range groups {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		existing, err := s.bookExists(ctx, g.Title)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", g.Title, err)
			summary.Failed++
			continue
		}

		if err := s.ingestBook(ctx, g, existing); err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", g.Title, err)
			summary.Failed++
			continue
		}

		if existing {
			fmt.Fprintf(w, "updated %s (%d annotations)\n", g.Title, len(g.Records))
			summary.Updated++
		} else {
			fmt.Fprintf(w, "indexed %s (%d annotations)\n", g.Title, len(g.Records))
			summary.Indexed++
		}
	}

	fmt.Fprintf(w, "\nindexed: %d, updated: %d, failed: %d\n",
		summary.Indexed, summary.Updated, summary.Failed)

	return summary, nil
}

func (s *Store) bookExists(ctx context.Context, title string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT count(*) FROM books WHERE title = ?`, title,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("checking book: %w", err)
	}
	return n > 0, nil
}

func (s *Store) ingestBook(ctx context.Context, g types.BookGroup, isUpdate bool) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if isUpdate {
		if _, err := tx.ExecContext(ctx, `DELETE FROM annotations WHERE book_title = ?`, g.Title); err != nil {
			return fmt.Errorf("deleting old annotations: %w", err)
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO books (title, record_count, indexed_at) VALUES (?, ?, ?)
		 ON CONFLICT(title) DO UPDATE SET
			record_count=excluded.record_count, indexed_at=excluded.indexed_at`,
		g.Title, len(g.Records), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upserting book: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO annotations (book_title, page, quote, note) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range g.Records {
		if _, err := stmt.ExecContext(ctx, g.Title, rec.Page, rec.Quote, rec.Note); err != nil {
			return fmt.Errorf("inserting annotation: %w", err)
		}
	}

	return tx.Commit()
}

// SearchResult is one ranked hit from a library query.
type SearchResult struct {
	Rank      int    `json:"rank"`
	BookTitle string `json:"book_title"`
	Page      string `json:"page"`
	Quote     string `json:"quote"`
	Note      string `json:"note"`
}

// Search runs an FTS5 match over quotes and notes, optionally restricted
// to one book title, best matches first.
func (s *Store) Search(ctx context.Context, query, book string) ([]SearchResult, error) {
	q := `SELECT a.book_title, a.page, a.quote, a.note
	      FROM annotations_fts f
	      JOIN annotations a ON a.rowid = f.rowid
	      WHERE annotations_fts MATCH ?`
	args := []any{query}
	if book != "" {
		q += ` AND a.book_title = ?`
		args = append(args, book)
	}
	q += ` ORDER BY f.rank LIMIT ?`
	args = append(args, s.maxResults)

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("querying library: %w", err)
	}
	defer rows.Close()

	var results []SearchResult
	for rows.Next() {
		r := SearchResult{Rank: len(results) + 1}
		if err := rows.Scan(&r.BookTitle, &r.Page, &r.Quote, &r.Note); err != nil {
			return nil, fmt.Errorf("scanning result: %w", err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// Books returns everything in the library grouped by book, titles in
// alphabetical order and annotations in insertion order within a book.
func (s *Store) Books(ctx context.Context) ([]types.BookGroup, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT book_title, page, quote, note
		 FROM annotations ORDER BY book_title, rowid`)
	if err != nil {
		return nil, fmt.Errorf("querying annotations: %w", err)
	}
	defer rows.Close()

	var records []types.Annotation
	for rows.Next() {
		var rec types.Annotation
		if err := rows.Scan(&rec.BookTitle, &rec.Page, &rec.Quote, &rec.Note); err != nil {
			return nil, fmt.Errorf("scanning annotation: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return types.GroupByBook(records), nil
}
