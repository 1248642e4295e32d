package domain

import "math"

const (
	// DefaultPageSize is used when the requested size is out of range
	DefaultPageSize = 10
	// MaxPageSize is the largest accepted page size
	MaxPageSize = 1000
)

// PageRequest is a normalized, zero-based page window
type PageRequest struct {
	Page int
	Size int
}

// NewPageRequest clamps a negative page to 0 and replaces a size outside
// (0, MaxPageSize] with DefaultPageSize.
func NewPageRequest(page, size int) PageRequest {
	if page < 0 {
		page = 0
	}
	if size <= 0 || size > MaxPageSize {
		size = DefaultPageSize
	}
	return PageRequest{Page: page, Size: size}
}

// Offset is the number of items to skip. It saturates at math.MaxInt, so a
// page far past the end stays past the end instead of wrapping around.
func (p PageRequest) Offset() int {
	if p.Page <= 0 || p.Size <= 0 {
		return 0
	}
	if p.Page > math.MaxInt/p.Size {
		return math.MaxInt
	}
	return p.Page * p.Size
}

// Page is one window of an ordered result set
type Page[T any] struct {
	Items         []T
	Number        int
	Size          int
	TotalElements int64
}

// NewPage builds a page for the given request
func NewPage[T any](items []T, req PageRequest, total int64) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items:         items,
		Number:        req.Page,
		Size:          req.Size,
		TotalElements: total,
	}
}

// TotalPages is ceil(TotalElements / Size)
func (p Page[T]) TotalPages() int {
	if p.Size <= 0 {
		return 0
	}
	return int((p.TotalElements + int64(p.Size) - 1) / int64(p.Size))
}

func (p Page[T]) HasNext() bool {
	return p.Number < p.TotalPages()-1
}

func (p Page[T]) HasPrevious() bool {
	return p.Number > 0
}

// Window returns the [start, end) slice bounds of req within n items
func Window(n int, req PageRequest) (int, int) {
	start := req.Offset()
	if start > n {
		start = n
	}
	end := start + req.Size
	if end > n {
		end = n
	}
	return start, end
}
