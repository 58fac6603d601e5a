package domain

import (
	"context"
	"strings"
	"time"
)

// Image represents an image asset with three pre-rendered size variants.
// Each variant blob is paired with its content type: both are set or both are empty.
type Image struct {
	ID                int64
	Name              string
	Small             []byte
	SmallContentType  string
	Medium            []byte
	MediumContentType string
	Large             []byte
	LargeContentType  string
	Hash              string
	UpdatedAt         time.Time
	CreatedAt         time.Time
}

// ImageSize selects one of the stored variants of an image.
// The zero value is ImageSizeLarge.
type ImageSize int

const (
	ImageSizeLarge ImageSize = iota
	ImageSizeMedium
	ImageSizeSmall
)

func (s ImageSize) String() string {
	switch s {
	case ImageSizeSmall:
		return "SMALL"
	case ImageSizeMedium:
		return "MEDIUM"
	default:
		return "LARGE"
	}
}

// ParseImageSize resolves the wire form of a size selector.
// Matching is case-insensitive. A missing, empty or unrecognized value resolves to ImageSizeLarge.
func ParseImageSize(s string) ImageSize {
	switch strings.ToUpper(s) {
	case "SMALL":
		return ImageSizeSmall
	case "MEDIUM":
		return ImageSizeMedium
	default:
		return ImageSizeLarge
	}
}

// Variant returns the blob and content type stored for the given size.
// There is no fallback: an absent variant yields a nil blob and an empty content type.
func (img *Image) Variant(size ImageSize) ([]byte, string) {
	switch size {
	case ImageSizeSmall:
		return img.Small, img.SmallContentType
	case ImageSizeMedium:
		return img.Medium, img.MediumContentType
	default:
		return img.Large, img.LargeContentType
	}
}

// ImageSortProperties lists the properties a page of images can be ordered by.
var ImageSortProperties = []string{"id", "name", "hash"}

// ImageCriteria filters images. Unset filters do not constrain the result.
type ImageCriteria struct {
	ID   LongFilter
	Name StringFilter
	Hash StringFilter
}

type ImageRepository interface {
	// CreateImage inserts the image and assigns its ID.
	CreateImage(ctx context.Context, img *Image) error

	// UpdateImage overwrites the stored image with the same ID and reloads img from storage.
	// It fails when no such image exists.
	UpdateImage(ctx context.Context, img *Image) error

	// GetImage retrieves an image by ID. Returns ErrNotFound if it does not exist.
	GetImage(ctx context.Context, id int64) (*Image, error)

	// GetImageByName retrieves an image by its unique name. Returns ErrNotFound if it does not exist.
	GetImageByName(ctx context.Context, name string) (*Image, error)

	FindImages(ctx context.Context, criteria ImageCriteria, pageable Pageable) (*Page[Image], error)
	CountImages(ctx context.Context, criteria ImageCriteria) (int64, error)

	// DeleteImage removes an image. Deleting a missing image is not an error.
	DeleteImage(ctx context.Context, id int64) error
}
