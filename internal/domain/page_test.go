package domain

import (
	"math"
	"testing"
)

func TestNewPageRequestNormalizes(t *testing.T) {
	tests := []struct {
		name       string
		page, size int
		wantPage   int
		wantSize   int
	}{
		{"defaults kept", 0, 10, 0, 10},
		{"negative page", -3, 20, 0, 20},
		{"zero size", 1, 0, 1, DefaultPageSize},
		{"negative size", 2, -5, 2, DefaultPageSize},
		{"max size", 0, MaxPageSize, 0, MaxPageSize},
		{"over max size", 0, MaxPageSize + 1, 0, DefaultPageSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewPageRequest(tt.page, tt.size)
			if got.Page != tt.wantPage || got.Size != tt.wantSize {
				t.Fatalf("NewPageRequest(%d, %d) = %+v, want page=%d size=%d",
					tt.page, tt.size, got, tt.wantPage, tt.wantSize)
			}
		})
	}
}

func TestPageMetadata(t *testing.T) {
	tests := []struct {
		name         string
		number, size int
		total        int64
		wantPages    int
		wantNext     bool
		wantPrevious bool
	}{
		{"empty", 0, 10, 0, 0, false, false},
		{"single page", 0, 10, 3, 1, false, false},
		{"exact multiple", 0, 5, 10, 2, true, false},
		{"last page", 1, 5, 10, 2, false, true},
		{"partial last page", 2, 4, 9, 3, false, true},
		{"beyond range", 7, 10, 3, 1, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPage[int](nil, PageRequest{Page: tt.number, Size: tt.size}, tt.total)
			if p.TotalPages() != tt.wantPages {
				t.Errorf("TotalPages() = %d, want %d", p.TotalPages(), tt.wantPages)
			}
			if p.HasNext() != tt.wantNext {
				t.Errorf("HasNext() = %v, want %v", p.HasNext(), tt.wantNext)
			}
			if p.HasPrevious() != tt.wantPrevious {
				t.Errorf("HasPrevious() = %v, want %v", p.HasPrevious(), tt.wantPrevious)
			}
			if p.Items == nil {
				t.Error("Items must never be nil")
			}
		})
	}
}

func TestWindow(t *testing.T) {
	start, end := Window(25, PageRequest{Page: 2, Size: 10})
	if start != 20 || end != 25 {
		t.Fatalf("Window = [%d,%d), want [20,25)", start, end)
	}
	start, end = Window(5, PageRequest{Page: 3, Size: 10})
	if start != 5 || end != 5 {
		t.Fatalf("out of range Window = [%d,%d), want [5,5)", start, end)
	}
}

func TestOffsetSaturatesOnHugePage(t *testing.T) {
	req := NewPageRequest(1_000_000_000_000_000_000, 10)
	if req.Offset() != math.MaxInt {
		t.Fatalf("Offset() = %d, want math.MaxInt", req.Offset())
	}
	if got := (PageRequest{Page: 3, Size: 0}).Offset(); got != 0 {
		t.Errorf("zero size Offset() = %d, want 0", got)
	}

	start, end := Window(3, req)
	if start != 3 || end != 3 {
		t.Fatalf("Window = [%d,%d), want [3,3)", start, end)
	}

	p := NewPage[int](nil, req, 3)
	if p.HasNext() || !p.HasPrevious() || p.Number != req.Page {
		t.Errorf("page metadata = %+v", p)
	}
}
