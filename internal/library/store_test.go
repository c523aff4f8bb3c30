package library

import (
	"context"
	"errors"
	"testing"

	"sonus/internal/services"
	"sonus/internal/testsupport"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	store, err := Open(cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRecordDownloadAndGet(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	loan, err := store.RecordDownload(ctx, Loan{
		MediaID: "ABC-123",
		Title:   "My Book",
		Author:  "Jane Doe",
		ODMPath: "/loans/book.odm",
		BookDir: "/books/Jane Doe/My Book",
	})
	if err != nil {
		t.Fatalf("RecordDownload: %v", err)
	}
	if loan.Status != StatusDownloaded {
		t.Fatalf("status = %q", loan.Status)
	}
	if loan.CreatedAt.IsZero() || loan.UpdatedAt.IsZero() {
		t.Fatal("timestamps not set")
	}

	got, err := store.GetByMediaID(ctx, "ABC-123")
	if err != nil {
		t.Fatalf("GetByMediaID: %v", err)
	}
	if got.Title != "My Book" || got.ODMPath != "/loans/book.odm" {
		t.Fatalf("loan = %+v", got)
	}
}

func TestRecordDownloadIsIdempotentPerMediaID(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	if _, err := store.RecordDownload(ctx, Loan{MediaID: "ABC-123", Title: "First", Author: "A"}); err != nil {
		t.Fatalf("RecordDownload: %v", err)
	}
	loan, err := store.RecordDownload(ctx, Loan{MediaID: "ABC-123", Title: "Second", Author: "A"})
	if err != nil {
		t.Fatalf("second RecordDownload: %v", err)
	}
	if loan.Title != "Second" {
		t.Fatalf("expected refreshed title, got %q", loan.Title)
	}

	loans, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(loans) != 1 {
		t.Fatalf("expected a single row per media id, got %d", len(loans))
	}
}

func TestLoanLifecycle(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	if _, err := store.RecordDownload(ctx, Loan{MediaID: "ABC-123", Title: "My Book", Author: "Jane Doe"}); err != nil {
		t.Fatalf("RecordDownload: %v", err)
	}

	loan, err := store.MarkChapterized(ctx, "ABC-123", 12, "/books/Jane Doe/My Book")
	if err != nil {
		t.Fatalf("MarkChapterized: %v", err)
	}
	if loan.Status != StatusChapterized || loan.Chapters != 12 {
		t.Fatalf("loan = %+v", loan)
	}
	if loan.BookDir != "/books/Jane Doe/My Book" {
		t.Fatalf("book dir not repointed: %q", loan.BookDir)
	}

	loan, err = store.MarkReturned(ctx, "ABC-123")
	if err != nil {
		t.Fatalf("MarkReturned: %v", err)
	}
	if loan.Status != StatusReturned {
		t.Fatalf("status = %q", loan.Status)
	}
	if loan.ReturnedAt == nil {
		t.Fatal("returned_at not set")
	}

	// Re-borrowing the same book clears the returned marker.
	loan, err = store.RecordDownload(ctx, Loan{MediaID: "ABC-123", Title: "My Book", Author: "Jane Doe"})
	if err != nil {
		t.Fatalf("re-download: %v", err)
	}
	if loan.Status != StatusDownloaded || loan.ReturnedAt != nil {
		t.Fatalf("loan = %+v", loan)
	}
}

func TestUpdatesToUnknownLoanFail(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	if _, err := store.MarkChapterized(ctx, "missing", 1, ""); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not-found, got %v", err)
	}
	if _, err := store.MarkReturned(ctx, "missing"); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not-found, got %v", err)
	}
	if _, err := store.GetByMediaID(ctx, "missing"); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not-found, got %v", err)
	}
}

func TestListOrdersByRecency(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	for _, id := range []string{"A", "B", "C"} {
		if _, err := store.RecordDownload(ctx, Loan{MediaID: id, Title: "Book " + id, Author: "X"}); err != nil {
			t.Fatalf("RecordDownload %s: %v", id, err)
		}
	}
	if _, err := store.MarkChapterized(ctx, "A", 3, ""); err != nil {
		t.Fatalf("MarkChapterized: %v", err)
	}

	loans, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(loans) != 3 {
		t.Fatalf("expected 3 loans, got %d", len(loans))
	}
	if loans[0].MediaID != "A" {
		t.Fatalf("most recently updated loan first, got %s", loans[0].MediaID)
	}
}
