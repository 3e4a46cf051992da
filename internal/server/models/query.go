package models

const (
	DefaultPerPage = 15
	MaxPerPage     = 100
)

// RecordFilter selects a slice of one owner's records. Empty fields do not
// constrain the result.
type RecordFilter struct {
	CategoryID    *string
	FavoritesOnly bool
	// Search is matched case-insensitively against title, description and tags.
	Search string
	// CategoryName is matched as a substring of the category name.
	CategoryName string
	Page         int
	PerPage      int
}

// Offset returns the number of rows preceding the requested page.
func (f RecordFilter) Offset() int {
	if f.Page < 1 {
		return 0
	}
	return (f.Page - 1) * f.PerPage
}

// Page is one page of a paginated listing.
type Page[T any] struct {
	Items       []T   `json:"data"`
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	LastPage    int   `json:"last_page"`
}

// NewPage wraps items and computes LastPage, which is at least 1.
func NewPage[T any](items []T, page, perPage int, total int64) Page[T] {
	if items == nil {
		items = []T{}
	}
	last := 1
	if perPage > 0 && total > 0 {
		last = int((total + int64(perPage) - 1) / int64(perPage))
	}
	return Page[T]{Items: items, CurrentPage: page, PerPage: perPage, Total: total, LastPage: last}
}
