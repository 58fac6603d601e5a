package rest

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/dfryer1193/teamdojo/api"
	"github.com/dfryer1193/teamdojo/dojo/domain"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const (
	imageEntityName = "image"
	imagesBasePath  = "/api/images"

	// contentCacheControl lets clients and proxies keep image bytes for 30 days
	contentCacheControl = "max-age=2592000"
)

// ImageService is what the image endpoints need from the application layer
type ImageService interface {
	Save(ctx context.Context, dto *api.Image) (*api.Image, error)
	FindOne(ctx context.Context, id int64) (*api.Image, error)
	Content(ctx context.Context, id int64, size domain.ImageSize) ([]byte, string, error)
	ContentByName(ctx context.Context, name string) ([]byte, string, error)
	FindByCriteria(ctx context.Context, criteria domain.ImageCriteria, pageable domain.Pageable) (*domain.Page[api.Image], error)
	CountByCriteria(ctx context.Context, criteria domain.ImageCriteria) (int64, error)
	Delete(ctx context.Context, id int64) error
}

type ImageHandler struct {
	images      ImageService
	maxPageSize int
}

func NewImageHandler(images ImageService, maxPageSize int) *ImageHandler {
	return &ImageHandler{
		images:      images,
		maxPageSize: maxPageSize,
	}
}

// CreateImage handles POST /api/images
func (h *ImageHandler) CreateImage(c *gin.Context) {
	var dto api.Image
	if err := c.ShouldBindJSON(&dto); err != nil {
		validationFailed(c, imageEntityName, err)
		return
	}
	log.Debug().Str("name", dto.Name).Msg("REST request to save Image")

	if dto.ID != nil {
		badRequestAlert(c, "A new image cannot already have an ID", imageEntityName, "idexists")
		return
	}

	saved, err := h.images.Save(c.Request.Context(), &dto)
	if err != nil {
		internalError(c, err)
		return
	}

	entityAlert(c, imageEntityName, actionCreated, *saved.ID)
	c.Header("Location", imagesBasePath+"/"+strconv.FormatInt(*saved.ID, 10))
	c.JSON(http.StatusCreated, saved)
}

// UpdateImage handles PUT /api/images
func (h *ImageHandler) UpdateImage(c *gin.Context) {
	var dto api.Image
	if err := c.ShouldBindJSON(&dto); err != nil {
		validationFailed(c, imageEntityName, err)
		return
	}
	log.Debug().Str("name", dto.Name).Msg("REST request to update Image")

	if dto.ID == nil {
		badRequestAlert(c, "Invalid id", imageEntityName, "idnull")
		return
	}

	saved, err := h.images.Save(c.Request.Context(), &dto)
	if err != nil {
		internalError(c, err)
		return
	}

	entityAlert(c, imageEntityName, actionUpdated, *saved.ID)
	c.JSON(http.StatusOK, saved)
}

// GetImages handles GET /api/images
func (h *ImageHandler) GetImages(c *gin.Context) {
	query := c.Request.URL.Query()

	criteria, err := parseImageCriteria(query)
	if err != nil {
		validationFailed(c, imageCriteriaName, err)
		return
	}

	pageable, err := parsePageable(query, domain.ImageSortProperties, h.maxPageSize)
	if err != nil {
		validationFailed(c, imageEntityName, err)
		return
	}
	log.Debug().Int("page", pageable.Page).Int("size", pageable.Size).Msg("REST request to get Images by criteria")

	page, err := h.images.FindByCriteria(c.Request.Context(), criteria, pageable)
	if err != nil {
		internalError(c, err)
		return
	}

	writePage(c, imagesBasePath, page)
}

// CountImages handles GET /api/images/count
func (h *ImageHandler) CountImages(c *gin.Context) {
	criteria, err := parseImageCriteria(c.Request.URL.Query())
	if err != nil {
		validationFailed(c, imageCriteriaName, err)
		return
	}
	log.Debug().Msg("REST request to count Images by criteria")

	count, err := h.images.CountByCriteria(c.Request.Context(), criteria)
	if err != nil {
		internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, count)
}

// GetImage handles GET /api/images/:id
func (h *ImageHandler) GetImage(c *gin.Context) {
	id, ok := idParam(c, imageEntityName)
	if !ok {
		return
	}
	log.Debug().Int64("id", id).Msg("REST request to get Image")

	img, err := h.images.FindOne(c.Request.Context(), id)
	if errors.Is(err, domain.ErrNotFound) {
		notFound(c)
		return
	}
	if err != nil {
		internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, img)
}

// GetImageContent handles GET /api/images/:id/content. The size parameter picks the
// variant; anything but small or medium, in any case, serves the large one.
func (h *ImageHandler) GetImageContent(c *gin.Context) {
	id, ok := idParam(c, imageEntityName)
	if !ok {
		return
	}
	size := domain.ParseImageSize(c.Query("size"))
	log.Debug().Int64("id", id).Stringer("size", size).Msg("REST request to get Image content")

	blob, contentType, err := h.images.Content(c.Request.Context(), id, size)
	if errors.Is(err, domain.ErrNotFound) {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}
	if err != nil {
		internalError(c, err)
		return
	}

	writeContent(c, blob, contentType)
}

// GetImageContentByName handles GET /api/images/name/:name and always serves the large variant.
func (h *ImageHandler) GetImageContentByName(c *gin.Context) {
	name := c.Param("name")
	log.Debug().Str("name", name).Msg("REST request to get Image content by name")

	blob, contentType, err := h.images.ContentByName(c.Request.Context(), name)
	if errors.Is(err, domain.ErrNotFound) {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}
	if err != nil {
		internalError(c, err)
		return
	}

	writeContent(c, blob, contentType)
}

// DeleteImage handles DELETE /api/images/:id
func (h *ImageHandler) DeleteImage(c *gin.Context) {
	id, ok := idParam(c, imageEntityName)
	if !ok {
		return
	}
	log.Debug().Int64("id", id).Msg("REST request to delete Image")

	if err := h.images.Delete(c.Request.Context(), id); err != nil {
		internalError(c, err)
		return
	}

	entityAlert(c, imageEntityName, actionDeleted, id)
	c.Status(http.StatusOK)
}

// writeContent sends the stored bytes with the stored content type. An empty content
// type is sent as is rather than sniffed.
func writeContent(c *gin.Context, blob []byte, contentType string) {
	c.Header("Cache-Control", contentCacheControl)
	c.Data(http.StatusOK, contentType, blob)
}

func idParam(c *gin.Context, entityName string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		validationFailed(c, entityName, &ValidationError{ObjectName: entityName, Field: "id", Message: "must be a number"})
		return 0, false
	}
	return id, true
}
