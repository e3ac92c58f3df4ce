package repository

import (
	"context"
	"math"
	"testing"

	"github.com/bookcart/internal/models"
)

func TestBookListSearchIsCaseInsensitiveSubstring(t *testing.T) {
	db := openRepositoryTestDB(t)
	repo := NewBookRepository(db)
	ctx := context.Background()
	createTestBook(t, db, "Learning Go", "30.00")
	createTestBook(t, db, "Rust in Action", "35.00")
	createTestBook(t, db, "GOLANG Patterns", "25.00")

	books, total, err := repo.List(ctx, BookListFilter{Query: "go"})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 2 || len(books) != 2 {
		t.Fatalf("expected 2 matches, total=%d len=%d", total, len(books))
	}
	if books[0].Name != "Learning Go" || books[1].Name != "GOLANG Patterns" {
		t.Fatalf("unexpected order: %s, %s", books[0].Name, books[1].Name)
	}

	all, total, err := repo.List(ctx, BookListFilter{Query: "   "})
	if err != nil || total != 3 || len(all) != 3 {
		t.Fatalf("blank query should return full catalog, total=%d err=%v", total, err)
	}
}

func TestBookListTreatsWildcardsLiterally(t *testing.T) {
	db := openRepositoryTestDB(t)
	repo := NewBookRepository(db)
	ctx := context.Background()
	createTestBook(t, db, "100% Go", "1.00")
	createTestBook(t, db, "1000 Go Tips", "1.00")

	books, _, err := repo.List(ctx, BookListFilter{Query: "100%"})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(books) != 1 || books[0].Name != "100% Go" {
		t.Fatalf("wildcard should be literal, got %+v", books)
	}
}

func TestBookListFoldsNonASCIICase(t *testing.T) {
	db := openRepositoryTestDB(t)
	repo := NewBookRepository(db)
	ctx := context.Background()
	createTestBook(t, db, "Émile et les Détectives", "8.00")
	createTestBook(t, db, "ÜBER GO", "9.00")
	createTestBook(t, db, "Plain Title", "7.00")

	for query, want := range map[string]string{
		"émile":     "Émile et les Détectives",
		"DÉTECTIVE": "Émile et les Détectives",
		"über":      "ÜBER GO",
	} {
		books, _, err := repo.List(ctx, BookListFilter{Query: query})
		if err != nil {
			t.Fatalf("list %q failed: %v", query, err)
		}
		if len(books) != 1 || books[0].Name != want {
			t.Fatalf("query %q: want %q, got %+v", query, want, books)
		}
	}
}

func TestMigrateBackfillsSearchKey(t *testing.T) {
	db := openRepositoryTestDB(t)
	repo := NewBookRepository(db)
	ctx := context.Background()
	book := createTestBook(t, db, "Élan Vital", "5.00")
	if err := db.Model(&models.Book{}).Where("id = ?", book.ID).UpdateColumn("search_key", "").Error; err != nil {
		t.Fatalf("reset search key failed: %v", err)
	}
	if err := models.Migrate(db); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	books, _, err := repo.List(ctx, BookListFilter{Query: "élan"})
	if err != nil || len(books) != 1 {
		t.Fatalf("backfilled book should match, got %+v err=%v", books, err)
	}
}

func TestBookListPagination(t *testing.T) {
	db := openRepositoryTestDB(t)
	repo := NewBookRepository(db)
	ctx := context.Background()
	for _, name := range []string{"A", "B", "C"} {
		createTestBook(t, db, name, "1.00")
	}

	page, total, err := repo.List(ctx, BookListFilter{Page: 2, PageSize: 2})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 3 || len(page) != 1 || page[0].Name != "C" {
		t.Fatalf("unexpected page: total=%d page=%+v", total, page)
	}
}

func TestBookDeleteAndCartReferences(t *testing.T) {
	db := openRepositoryTestDB(t)
	books := NewBookRepository(db)
	carts := NewCartRepository(db)
	ctx := context.Background()
	user := createTestUser(t, db, "del@example.com")
	book := createTestBook(t, db, "Doomed", "1.00")

	if _, err := carts.AddQuantity(ctx, user.ID, book.ID, 2, math.MaxInt32); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	count, err := carts.CountByBook(ctx, book.ID)
	if err != nil || count != 1 {
		t.Fatalf("count want 1 got %d err=%v", count, err)
	}
	if removed, err := carts.DeleteByBook(ctx, book.ID); err != nil || removed != 1 {
		t.Fatalf("delete by book failed: removed=%d err=%v", removed, err)
	}
	if affected, err := books.Delete(ctx, book.ID); err != nil || affected != 1 {
		t.Fatalf("delete book failed: affected=%d err=%v", affected, err)
	}
	if affected, _ := books.Delete(ctx, book.ID); affected != 0 {
		t.Fatalf("second delete should affect nothing")
	}
	got, err := books.GetByID(ctx, book.ID)
	if err != nil || got != nil {
		t.Fatalf("deleted book should be nil, got %+v err=%v", got, err)
	}
}
