package domain

import (
	"bytes"
	"math"
	"testing"
)

func TestParseImageSize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected ImageSize
	}{
		{name: "Empty defaults to large", input: "", expected: ImageSizeLarge},
		{name: "Upper case small", input: "SMALL", expected: ImageSizeSmall},
		{name: "Lower case small", input: "small", expected: ImageSizeSmall},
		{name: "Mixed case medium", input: "MeDiUm", expected: ImageSizeMedium},
		{name: "Explicit large", input: "large", expected: ImageSizeLarge},
		{name: "Unknown value", input: "banana", expected: ImageSizeLarge},
		{name: "Unknown xxl", input: "xxl", expected: ImageSizeLarge},
		{name: "Padded value is not trimmed", input: " small", expected: ImageSizeLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ParseImageSize(tt.input)
			if result != tt.expected {
				t.Errorf("ParseImageSize(%q) = %v, want %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestImage_Variant(t *testing.T) {
	img := &Image{
		ID:                7,
		Large:             []byte{0xAA, 0xBB},
		LargeContentType:  "image/png",
		Medium:            []byte{0xCC},
		MediumContentType: "image/jpeg",
	}

	tests := []struct {
		name        string
		size        ImageSize
		blob        []byte
		contentType string
	}{
		{name: "Large", size: ImageSizeLarge, blob: []byte{0xAA, 0xBB}, contentType: "image/png"},
		{name: "Medium", size: ImageSizeMedium, blob: []byte{0xCC}, contentType: "image/jpeg"},
		{name: "Missing small does not fall back", size: ImageSizeSmall, blob: nil, contentType: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blob, contentType := img.Variant(tt.size)
			if !bytes.Equal(blob, tt.blob) {
				t.Errorf("blob = %x, want %x", blob, tt.blob)
			}
			if contentType != tt.contentType {
				t.Errorf("contentType = %q, want %q", contentType, tt.contentType)
			}
		})
	}
}

func TestImageSize_String(t *testing.T) {
	if ImageSizeSmall.String() != "SMALL" {
		t.Errorf("ImageSizeSmall.String() = %q", ImageSizeSmall.String())
	}
	if ImageSize(0).String() != "LARGE" {
		t.Errorf("zero ImageSize = %q, want LARGE", ImageSize(0).String())
	}
}

func TestPage_TotalPages(t *testing.T) {
	tests := []struct {
		total    int64
		size     int
		expected int
	}{
		{total: 0, size: 20, expected: 0},
		{total: 1, size: 20, expected: 1},
		{total: 20, size: 20, expected: 1},
		{total: 21, size: 20, expected: 2},
		{total: 5, size: 0, expected: 0},
	}

	for _, tt := range tests {
		p := &Page[int]{Total: tt.total, Size: tt.size}
		if got := p.TotalPages(); got != tt.expected {
			t.Errorf("TotalPages() with total=%d size=%d = %d, want %d", tt.total, tt.size, got, tt.expected)
		}
	}
}

func TestMapPage(t *testing.T) {
	p := NewPage([]int{1, 2, 3}, 10, Pageable{Page: 1, Size: 3})
	mapped := MapPage(p, func(i int) string { return string(rune('a' + i)) })

	if len(mapped.Items) != 3 || mapped.Items[0] != "b" {
		t.Errorf("Items = %v, want [b c d]", mapped.Items)
	}
	if mapped.Total != 10 || mapped.Number != 1 || mapped.Size != 3 {
		t.Errorf("page metadata = %+v, want total=10 number=1 size=3", mapped)
	}
}

func TestNewPage_NilItems(t *testing.T) {
	p := NewPage[Image](nil, 0, Pageable{Size: 20})
	if p.Items == nil {
		t.Error("NewPage should return empty slice, not nil")
	}
}

func TestPageable_Offset(t *testing.T) {
	tests := []struct {
		name     string
		pageable Pageable
		expected int
	}{
		{name: "First page", pageable: Pageable{Page: 0, Size: 20}, expected: 0},
		{name: "Third page", pageable: Pageable{Page: 2, Size: 20}, expected: 40},
		{name: "Overflow saturates", pageable: Pageable{Page: math.MaxInt / 10, Size: 20}, expected: math.MaxInt},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.pageable.Offset(); got != tt.expected {
				t.Errorf("Offset() = %d, want %d", got, tt.expected)
			}
		})
	}
}
