package pagination_test

import (
	"testing"
	"time"

	"github.com/marumbi/kahawa-api/pkg/pagination"
)

func TestCursorRoundTrip(t *testing.T) {
	createdAt := time.Date(2024, 6, 1, 12, 30, 0, 0, time.UTC)
	encoded := pagination.EncodeCursor("abc-123", createdAt)

	params := &pagination.CursorParams{Cursor: encoded}
	cursor, err := params.DecodeCursor()
	if err != nil {
		t.Fatalf("DecodeCursor failed: %v", err)
	}
	if cursor.ID != "abc-123" {
		t.Errorf("got ID %q, want %q", cursor.ID, "abc-123")
	}
	if !cursor.CreatedAt.Equal(createdAt) {
		t.Errorf("got CreatedAt %v, want %v", cursor.CreatedAt, createdAt)
	}
}

func TestDecodeCursorRejectsGarbage(t *testing.T) {
	params := &pagination.CursorParams{Cursor: "not-base64!!"}
	if _, err := params.DecodeCursor(); err == nil {
		t.Fatal("expected error for malformed cursor")
	}
}

func TestEmptyCursorDecodesToNil(t *testing.T) {
	params := &pagination.CursorParams{}
	cursor, err := params.DecodeCursor()
	if err != nil {
		t.Fatalf("DecodeCursor failed: %v", err)
	}
	if cursor != nil {
		t.Fatal("expected nil cursor for empty input")
	}
}

type row struct {
	id string
	ts time.Time
}

func TestNewCursorPaginationTrimsOverfetch(t *testing.T) {
	base := time.Now()
	items := make([]row, 6) // limit+1 overfetch
	for i := range items {
		items[i] = row{id: string(rune('a' + i)), ts: base.Add(time.Duration(i) * time.Second)}
	}

	pag, trimmed := pagination.NewCursorPagination(items, 5,
		func(r row) string { return r.id },
		func(r row) time.Time { return r.ts },
	)

	if len(trimmed) != 5 {
		t.Fatalf("got %d items, want 5", len(trimmed))
	}
	if !pag.HasNext {
		t.Error("expected HasNext with an overfetched row")
	}
	if pag.NextCursor == nil || pag.PrevCursor == nil {
		t.Fatal("expected both cursors set")
	}
}

func TestNewCursorPaginationLastPage(t *testing.T) {
	items := []row{{id: "a", ts: time.Now()}}

	pag, trimmed := pagination.NewCursorPagination(items, 5,
		func(r row) string { return r.id },
		func(r row) time.Time { return r.ts },
	)

	if len(trimmed) != 1 {
		t.Fatalf("got %d items, want 1", len(trimmed))
	}
	if pag.HasNext {
		t.Error("expected HasNext false on the last page")
	}
}

func TestPaginationParamsValidate(t *testing.T) {
	params := &pagination.PaginationParams{Page: -3, PerPage: 1000}
	params.Validate()

	if params.Page != 1 {
		t.Errorf("got page %d, want 1", params.Page)
	}
	if params.PerPage != 100 {
		t.Errorf("got per_page %d, want capped 100", params.PerPage)
	}
}
