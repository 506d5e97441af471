// Package pagination provides the two listing strategies used by the API:
// classic page/offset pagination for dashboard-style views, and keyset
// (cursor) pagination for append-only streams such as the stock ledger,
// where offsets shift whenever a new row lands between two page fetches.
package pagination

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"
)

const (
	defaultPageSize = 15
	maxPageSize     = 100
)

// PaginationParams are the page/offset inputs bound from the query string.
type PaginationParams struct {
	Page    int `form:"page" json:"page"`
	PerPage int `form:"per_page" json:"per_page"`
}

// DefaultPagination returns params for the first page at the default size.
func DefaultPagination() *PaginationParams {
	return &PaginationParams{Page: 1, PerPage: defaultPageSize}
}

// Validate clamps out-of-range values rather than rejecting them.
func (p *PaginationParams) Validate() {
	if p.Page < 1 {
		p.Page = 1
	}
	switch {
	case p.PerPage < 1:
		p.PerPage = defaultPageSize
	case p.PerPage > maxPageSize:
		p.PerPage = maxPageSize
	}
}

// Offset converts the page number into a SQL OFFSET.
func (p *PaginationParams) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// Pagination is the page-based metadata attached to list responses.
type Pagination struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	TotalPages  int   `json:"total_pages"`
	HasNext     bool  `json:"has_next"`
	HasPrev     bool  `json:"has_prev"`
}

// NewPagination derives page metadata from a total row count.
func NewPagination(page, perPage int, total int64) *Pagination {
	pages := int((total + int64(perPage) - 1) / int64(perPage))

	return &Pagination{
		CurrentPage: page,
		PerPage:     perPage,
		Total:       total,
		TotalPages:  pages,
		HasNext:     page < pages,
		HasPrev:     page > 1,
	}
}

// PaginatedResult pairs a page of items with its metadata.
type PaginatedResult[T any] struct {
	Items      []T         `json:"items"`
	Pagination *Pagination `json:"pagination"`
}

func NewPaginatedResult[T any](items []T, pag *Pagination) *PaginatedResult[T] {
	return &PaginatedResult[T]{Items: items, Pagination: pag}
}

// CursorDirection selects which side of the cursor to fetch.
type CursorDirection string

const (
	CursorDirectionNext CursorDirection = "next"
	CursorDirectionPrev CursorDirection = "prev"
)

// Cursor is the decoded keyset position: the (created_at, id) pair of the
// boundary row.
type Cursor struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// CursorParams are the keyset inputs bound from the query string. Cursor
// carries the opaque base64 token from a previous response.
type CursorParams struct {
	Cursor    string          `form:"cursor" json:"cursor"`
	Direction CursorDirection `form:"direction" json:"direction"`
	Limit     int             `form:"limit" json:"limit"`
}

// DefaultCursorParams returns params for the newest page.
func DefaultCursorParams() *CursorParams {
	return &CursorParams{Direction: CursorDirectionNext, Limit: defaultPageSize}
}

// Validate clamps the limit and defaults the direction to next.
func (c *CursorParams) Validate() {
	switch {
	case c.Limit < 1:
		c.Limit = defaultPageSize
	case c.Limit > maxPageSize:
		c.Limit = maxPageSize
	}
	if c.Direction == "" {
		c.Direction = CursorDirectionNext
	}
}

// DecodeCursor unpacks the base64 token. An empty token decodes to nil,
// meaning "start from the newest row".
func (c *CursorParams) DecodeCursor() (*Cursor, error) {
	if c.Cursor == "" {
		return nil, nil
	}

	raw, err := base64.URLEncoding.DecodeString(c.Cursor)
	if err != nil {
		return nil, fmt.Errorf("malformed cursor: %w", err)
	}

	cursor := &Cursor{}
	if err := json.Unmarshal(raw, cursor); err != nil {
		return nil, fmt.Errorf("malformed cursor payload: %w", err)
	}
	return cursor, nil
}

// EncodeCursor packs a row's keyset position into an opaque token.
func EncodeCursor(id string, createdAt time.Time) string {
	raw, _ := json.Marshal(Cursor{ID: id, CreatedAt: createdAt})
	return base64.URLEncoding.EncodeToString(raw)
}

// CursorPagination is the keyset metadata attached to list responses.
type CursorPagination struct {
	NextCursor *string `json:"next_cursor,omitempty"`
	PrevCursor *string `json:"prev_cursor,omitempty"`
	HasNext    bool    `json:"has_next"`
	HasPrev    bool    `json:"has_prev"`
	Limit      int     `json:"limit"`
}

// CursorPaginatedResult pairs a keyset page with its metadata.
type CursorPaginatedResult[T any] struct {
	Items      []T               `json:"items"`
	Pagination *CursorPagination `json:"pagination"`
}

// NewCursorPagination builds keyset metadata from an overfetched page.
// Callers query limit+1 rows; the extra row, if present, proves a next page
// exists and is trimmed off before the items are returned. HasPrev is left
// false here since only the caller knows whether a cursor was supplied.
func NewCursorPagination[T any](items []T, limit int, getID func(T) string, getCreatedAt func(T) time.Time) (*CursorPagination, []T) {
	pag := &CursorPagination{Limit: limit}

	if len(items) > limit {
		items = items[:limit]
		pag.HasNext = true
	}

	if n := len(items); n > 0 {
		next := EncodeCursor(getID(items[n-1]), getCreatedAt(items[n-1]))
		prev := EncodeCursor(getID(items[0]), getCreatedAt(items[0]))
		pag.NextCursor = &next
		pag.PrevCursor = &prev
	}

	return pag, items
}

func NewCursorPaginatedResult[T any](items []T, pag *CursorPagination) *CursorPaginatedResult[T] {
	return &CursorPaginatedResult[T]{Items: items, Pagination: pag}
}
