package application

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/dfryer1193/teamdojo/api"
	"github.com/dfryer1193/teamdojo/dojo/domain"
	"github.com/rs/zerolog/log"
)

// ImageService maps images between their wire and stored forms and answers
// criteria queries over them.
type ImageService struct {
	repo domain.ImageRepository
}

func NewImageService(repo domain.ImageRepository) *ImageService {
	return &ImageService{
		repo: repo,
	}
}

// Save creates the image when the DTO carries no ID and updates the stored one
// otherwise, returning it as persisted. The hash is recomputed from the large
// variant on every save.
func (s *ImageService) Save(ctx context.Context, dto *api.Image) (*api.Image, error) {
	img := imageToDomain(dto)
	img.Hash = ""
	if len(img.Large) > 0 {
		img.Hash = calculateHash(img.Large)
	}

	var err error
	if dto.ID == nil {
		err = s.repo.CreateImage(ctx, img)
	} else {
		err = s.repo.UpdateImage(ctx, img)
	}
	if err != nil {
		return nil, fmt.Errorf("could not save image %q: %w", img.Name, err)
	}

	log.Debug().Int64("id", img.ID).Str("name", img.Name).Msg("Saved image")
	return imageFromDomain(img), nil
}

// FindOne returns domain.ErrNotFound when there is no image with the given ID.
func (s *ImageService) FindOne(ctx context.Context, id int64) (*api.Image, error) {
	img, err := s.repo.GetImage(ctx, id)
	if err != nil {
		return nil, err
	}
	return imageFromDomain(img), nil
}

// Content returns the bytes and content type stored for one size of an image.
// A variant that was never stored yields empty bytes and an empty content type.
func (s *ImageService) Content(ctx context.Context, id int64, size domain.ImageSize) ([]byte, string, error) {
	img, err := s.repo.GetImage(ctx, id)
	if err != nil {
		return nil, "", err
	}

	blob, contentType := img.Variant(size)
	return blob, contentType, nil
}

// ContentByName always returns the large variant.
func (s *ImageService) ContentByName(ctx context.Context, name string) ([]byte, string, error) {
	img, err := s.repo.GetImageByName(ctx, name)
	if err != nil {
		return nil, "", err
	}

	blob, contentType := img.Variant(domain.ImageSizeLarge)
	return blob, contentType, nil
}

func (s *ImageService) FindByCriteria(ctx context.Context, criteria domain.ImageCriteria, pageable domain.Pageable) (*domain.Page[api.Image], error) {
	page, err := s.repo.FindImages(ctx, criteria, pageable)
	if err != nil {
		return nil, fmt.Errorf("could not find images: %w", err)
	}

	return domain.MapPage(page, func(img domain.Image) api.Image {
		return *imageFromDomain(&img)
	}), nil
}

func (s *ImageService) CountByCriteria(ctx context.Context, criteria domain.ImageCriteria) (int64, error) {
	count, err := s.repo.CountImages(ctx, criteria)
	if err != nil {
		return 0, fmt.Errorf("could not count images: %w", err)
	}
	return count, nil
}

func (s *ImageService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.DeleteImage(ctx, id); err != nil {
		return fmt.Errorf("could not delete image %d: %w", id, err)
	}
	return nil
}

func calculateHash(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

func imageToDomain(dto *api.Image) *domain.Image {
	img := &domain.Image{
		Name:              dto.Name,
		Small:             dto.Small,
		SmallContentType:  deref(dto.SmallContentType),
		Medium:            dto.Medium,
		MediumContentType: deref(dto.MediumContentType),
		Large:             dto.Large,
		LargeContentType:  deref(dto.LargeContentType),
		Hash:              deref(dto.Hash),
	}
	if dto.ID != nil {
		img.ID = *dto.ID
	}
	if dto.CreatedAt != nil {
		img.CreatedAt = *dto.CreatedAt
	}
	return img
}

func imageFromDomain(img *domain.Image) *api.Image {
	id := img.ID
	dto := &api.Image{
		ID:                &id,
		Name:              img.Name,
		Small:             img.Small,
		SmallContentType:  optional(img.SmallContentType),
		Medium:            img.Medium,
		MediumContentType: optional(img.MediumContentType),
		Large:             img.Large,
		LargeContentType:  optional(img.LargeContentType),
		Hash:              optional(img.Hash),
	}
	if !img.CreatedAt.IsZero() {
		createdAt := img.CreatedAt
		dto.CreatedAt = &createdAt
	}
	if !img.UpdatedAt.IsZero() {
		updatedAt := img.UpdatedAt
		dto.UpdatedAt = &updatedAt
	}
	return dto
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

// optional maps the zero value to nil.
func optional[T comparable](v T) *T {
	var zero T
	if v == zero {
		return nil
	}
	return &v
}
