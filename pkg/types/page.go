package types

// Page is the uniform result of a paginated listing. TotalItems always
// reflects the same filters as Items, never the raw collection size.
type Page[T any] struct {
	Items       []T   `json:"-"`
	TotalItems  int64 `json:"totalItems"`
	Page        int   `json:"page"`
	Limit       int   `json:"limit"`
	TotalPages  int   `json:"totalPages"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
	NextPage    *int  `json:"nextPage"`
	PrevPage    *int  `json:"prevPage"`
}

func NewPage[T any](items []T, total int64, page, limit int) *Page[T] {
	if items == nil {
		items = []T{}
	}
	p := &Page[T]{
		Items:      items,
		TotalItems: total,
		Page:       page,
		Limit:      limit,
	}
	p.TotalPages = int((total + int64(limit) - 1) / int64(limit))
	if p.TotalPages < 1 {
		p.TotalPages = 1
	}
	if page < p.TotalPages {
		p.HasNextPage = true
		next := page + 1
		p.NextPage = &next
	}
	if page > 1 {
		p.HasPrevPage = true
		prev := page - 1
		p.PrevPage = &prev
	}
	return p
}

// Envelope reshapes the page for the response body, exposing the items
// under the caller-supplied domain key ("properties", "researchers",
// "landowner", ...). Every listing endpoint shares this one indirection.
func (p *Page[T]) Envelope(key string) map[string]any {
	return map[string]any{
		key:           p.Items,
		"totalItems":  p.TotalItems,
		"page":        p.Page,
		"limit":       p.Limit,
		"totalPages":  p.TotalPages,
		"hasNextPage": p.HasNextPage,
		"hasPrevPage": p.HasPrevPage,
		"nextPage":    p.NextPage,
		"prevPage":    p.PrevPage,
	}
}
