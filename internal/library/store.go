package library

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"sonus/internal/config"
	"sonus/internal/services"
)

// Loan status values. A loan moves downloaded -> chapterized -> returned;
// chapterizing is optional, so returned can follow downloaded directly.
const (
	StatusDownloaded  = "downloaded"
	StatusChapterized = "chapterized"
	StatusReturned    = "returned"
)

// Loan records one borrowed audiobook and what has been done with it.
type Loan struct {
	ID         int64
	MediaID    string
	Title      string
	Author     string
	ODMPath    string
	BookDir    string
	Status     string
	Chapters   int
	CreatedAt  time.Time
	UpdatedAt  time.Time
	ReturnedAt *time.Time
}

// Store persists loan history backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the loan database and applies migrations.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := cfg.LibraryDBPath()
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// RecordDownload inserts a loan after its parts land on disk, or refreshes
// the existing row when the same media id is downloaded again.
func (s *Store) RecordDownload(ctx context.Context, loan Loan) (*Loan, error) {
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)

	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO loans (media_id, title, author, odm_path, book_dir, status, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?)
         ON CONFLICT(media_id) DO UPDATE SET
             title = excluded.title,
             author = excluded.author,
             odm_path = excluded.odm_path,
             book_dir = excluded.book_dir,
             status = excluded.status,
             returned_at = NULL,
             updated_at = excluded.updated_at`,
		loan.MediaID,
		loan.Title,
		loan.Author,
		nullableString(loan.ODMPath),
		nullableString(loan.BookDir),
		StatusDownloaded,
		timestamp,
		timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("record download: %w", err)
	}
	return s.GetByMediaID(ctx, loan.MediaID)
}

// MarkChapterized records a finished chapterizer run for the loan. A
// non-empty bookDir repoints the loan at the directory holding the chapter
// files; empty keeps the recorded download directory.
func (s *Store) MarkChapterized(ctx context.Context, mediaID string, chapters int, bookDir string) (*Loan, error) {
	return s.transition(ctx, mediaID, StatusChapterized,
		"UPDATE loans SET status = ?, chapters = ?, book_dir = COALESCE(?, book_dir), updated_at = ? WHERE media_id = ?",
		StatusChapterized, chapters, nullableString(bookDir), now(), mediaID)
}

// MarkReturned records that the loan was returned to the library.
func (s *Store) MarkReturned(ctx context.Context, mediaID string) (*Loan, error) {
	timestamp := now()
	return s.transition(ctx, mediaID, StatusReturned,
		"UPDATE loans SET status = ?, returned_at = ?, updated_at = ? WHERE media_id = ?",
		StatusReturned, timestamp, timestamp, mediaID)
}

func (s *Store) transition(ctx context.Context, mediaID, status, query string, args ...any) (*Loan, error) {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("mark %s: %w", status, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return nil, services.Wrap(services.ErrNotFound, "library", "update loan", mediaID, nil)
	}
	return s.GetByMediaID(ctx, mediaID)
}

// GetByMediaID fetches one loan by its OverDrive media id.
func (s *Store) GetByMediaID(ctx context.Context, mediaID string) (*Loan, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+" FROM loans WHERE media_id = ?", mediaID)
	loan, err := scanLoan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, services.Wrap(services.ErrNotFound, "library", "get loan", mediaID, nil)
	}
	if err != nil {
		return nil, err
	}
	return loan, nil
}

// List returns every loan, most recently updated first.
func (s *Store) List(ctx context.Context) ([]*Loan, error) {
	rows, err := s.db.QueryContext(ctx, selectColumns+" FROM loans ORDER BY updated_at DESC, id DESC")
	if err != nil {
		return nil, fmt.Errorf("list loans: %w", err)
	}
	defer rows.Close()

	var loans []*Loan
	for rows.Next() {
		loan, err := scanLoan(rows)
		if err != nil {
			return nil, err
		}
		loans = append(loans, loan)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate loans: %w", err)
	}
	return loans, nil
}

const selectColumns = `SELECT id, media_id, title, author, odm_path, book_dir, status, chapters, created_at, updated_at, returned_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLoan(row rowScanner) (*Loan, error) {
	var loan Loan
	var odmPath, bookDir, returnedAt sql.NullString
	var createdAt, updatedAt string

	err := row.Scan(
		&loan.ID,
		&loan.MediaID,
		&loan.Title,
		&loan.Author,
		&odmPath,
		&bookDir,
		&loan.Status,
		&loan.Chapters,
		&createdAt,
		&updatedAt,
		&returnedAt,
	)
	if err != nil {
		return nil, err
	}

	loan.ODMPath = odmPath.String
	loan.BookDir = bookDir.String
	if loan.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if loan.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	if returnedAt.Valid {
		parsed, err := parseTime(returnedAt.String)
		if err != nil {
			return nil, err
		}
		loan.ReturnedAt = &parsed
	}
	return &loan, nil
}

func parseTime(value string) (time.Time, error) {
	parsed, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", value, err)
	}
	return parsed, nil
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
