package domain

import "math"

// Direction is the ordering direction of a sort property.
type Direction string

const (
	Asc  Direction = "ASC"
	Desc Direction = "DESC"
)

// Order sorts a page by a single property.
type Order struct {
	Property  string
	Direction Direction
}

// Pageable describes the window of results a client wants.
// Page is zero-based and Size is at least 1.
type Pageable struct {
	Page int
	Size int
	Sort []Order
}

// Offset returns the number of rows skipped before the requested page.
// It saturates at math.MaxInt instead of overflowing.
func (p Pageable) Offset() int {
	if p.Size > 0 && p.Page > math.MaxInt/p.Size {
		return math.MaxInt
	}
	return p.Page * p.Size
}

// Page is one window of an ordered result set.
type Page[T any] struct {
	Items  []T
	Total  int64
	Number int
	Size   int
}

// NewPage creates a page for the given pageable. Items is never nil.
func NewPage[T any](items []T, total int64, pageable Pageable) *Page[T] {
	if items == nil {
		items = make([]T, 0)
	}
	return &Page[T]{
		Items:  items,
		Total:  total,
		Number: pageable.Page,
		Size:   pageable.Size,
	}
}

// TotalPages returns the number of pages needed to hold Total items.
func (p *Page[T]) TotalPages() int {
	if p.Size <= 0 {
		return 0
	}
	return int((p.Total + int64(p.Size) - 1) / int64(p.Size))
}

// MapPage converts the items of a page, keeping its position and totals.
func MapPage[T, U any](p *Page[T], fn func(T) U) *Page[U] {
	items := make([]U, 0, len(p.Items))
	for _, item := range p.Items {
		items = append(items, fn(item))
	}
	return &Page[U]{
		Items:  items,
		Total:  p.Total,
		Number: p.Number,
		Size:   p.Size,
	}
}
