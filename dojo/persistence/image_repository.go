package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dfryer1193/teamdojo/dojo/domain"
	"github.com/dfryer1193/teamdojo/shared/db"
)

var _ domain.ImageRepository = (*SQLiteImageRepository)(nil)

// imageSortColumns maps sortable image properties to their columns
var imageSortColumns = map[string]string{
	"id":   "id",
	"name": "name",
	"hash": "hash",
}

// SQLiteImageRepository implements domain.ImageRepository using SQL database (SQLite)
type SQLiteImageRepository struct {
	db *sql.DB
}

// NewImageRepository creates a new SQLiteImageRepository from a standard sql.DB
func NewImageRepository(sqlDB *sql.DB) *SQLiteImageRepository {
	return &SQLiteImageRepository{
		db: sqlDB,
	}
}

const imageColumns = `id, name, small, small_content_type, medium, medium_content_type,
		large, large_content_type, hash, updated_at, created_at`

const insertImageQuery = `
	INSERT INTO images (name, small, small_content_type, medium, medium_content_type,
		large, large_content_type, hash, updated_at, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const updateImageQuery = `
	UPDATE images SET
		name = ?,
		small = ?,
		small_content_type = ?,
		medium = ?,
		medium_content_type = ?,
		large = ?,
		large_content_type = ?,
		hash = ?,
		updated_at = ?
	WHERE id = ?
`

func validateImage(img *domain.Image) error {
	if img == nil {
		return fmt.Errorf("image cannot be nil")
	}
	if img.Name == "" {
		return fmt.Errorf("image name cannot be empty")
	}
	return nil
}

// CreateImage inserts a new image and assigns its ID. Any ID already set on img is ignored.
func (r *SQLiteImageRepository) CreateImage(ctx context.Context, img *domain.Image) error {
	if err := validateImage(img); err != nil {
		return err
	}

	now := time.Now().UTC()
	createdAt := img.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}

	result, err := db.GetExecutor(ctx, r.db).ExecContext(ctx, insertImageQuery,
		img.Name,
		nullBytes(img.Small),
		nullString(img.SmallContentType),
		nullBytes(img.Medium),
		nullString(img.MediumContentType),
		nullBytes(img.Large),
		nullString(img.LargeContentType),
		nullString(img.Hash),
		now,
		createdAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert image: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get image id: %w", err)
	}

	img.ID = id
	img.CreatedAt = createdAt
	img.UpdatedAt = now
	return nil
}

// UpdateImage overwrites the stored image with img.ID and reloads img from the row,
// so CreatedAt is always the stored one. Updating an ID that is not stored is an error.
func (r *SQLiteImageRepository) UpdateImage(ctx context.Context, img *domain.Image) error {
	if err := validateImage(img); err != nil {
		return err
	}

	return db.RunInTransaction(ctx, r.db, func(txCtx context.Context) error {
		result, err := db.GetExecutor(txCtx, r.db).ExecContext(txCtx, updateImageQuery,
			img.Name,
			nullBytes(img.Small),
			nullString(img.SmallContentType),
			nullBytes(img.Medium),
			nullString(img.MediumContentType),
			nullBytes(img.Large),
			nullString(img.LargeContentType),
			nullString(img.Hash),
			time.Now().UTC(),
			img.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to update image %d: %w", img.ID, err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to update image %d: %w", img.ID, err)
		}
		if affected == 0 {
			return fmt.Errorf("cannot update image %d: no such row", img.ID)
		}

		stored, err := r.GetImage(txCtx, img.ID)
		if err != nil {
			return err
		}
		*img = *stored
		return nil
	})
}

const getImageQuery = `SELECT ` + imageColumns + ` FROM images WHERE id = ?`

// GetImage retrieves a single image by ID
func (r *SQLiteImageRepository) GetImage(ctx context.Context, id int64) (*domain.Image, error) {
	var row imageRow
	err := row.scan(db.GetExecutor(ctx, r.db).QueryRowContext(ctx, getImageQuery, id))

	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get image %d: %w", id, err)
	}

	return row.toDomain(), nil
}

const getImageByNameQuery = `SELECT ` + imageColumns + ` FROM images WHERE name = ?`

// GetImageByName retrieves a single image by its unique name
func (r *SQLiteImageRepository) GetImageByName(ctx context.Context, name string) (*domain.Image, error) {
	var row imageRow
	err := row.scan(db.GetExecutor(ctx, r.db).QueryRowContext(ctx, getImageByNameQuery, name))

	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get image %q: %w", name, err)
	}

	return row.toDomain(), nil
}

func imageWhere(criteria domain.ImageCriteria) *whereBuilder {
	w := &whereBuilder{}
	w.long("id", criteria.ID)
	w.text("name", criteria.Name)
	w.text("hash", criteria.Hash)
	return w
}

// FindImages returns one page of the images matching criteria.
// The count and the page are read in the same transaction.
func (r *SQLiteImageRepository) FindImages(ctx context.Context, criteria domain.ImageCriteria, pageable domain.Pageable) (*domain.Page[domain.Image], error) {
	order, err := orderBy(pageable.Sort, imageSortColumns)
	if err != nil {
		return nil, err
	}

	where := imageWhere(criteria)
	var page *domain.Page[domain.Image]

	err = db.RunReadOnly(ctx, r.db, func(txCtx context.Context) error {
		executor := db.GetExecutor(txCtx, r.db)

		var total int64
		if err := executor.QueryRowContext(txCtx, "SELECT COUNT(*) FROM images"+where.sql(), where.args...).Scan(&total); err != nil {
			return fmt.Errorf("failed to count images: %w", err)
		}

		query := "SELECT " + imageColumns + " FROM images" + where.sql() + order + " LIMIT ? OFFSET ?"
		args := append(append([]any{}, where.args...), pageable.Size, pageable.Offset())

		rows, err := executor.QueryContext(txCtx, query, args...)
		if err != nil {
			return fmt.Errorf("failed to list images: %w", err)
		}
		defer rows.Close()

		images := make([]domain.Image, 0, pageable.Size)
		for rows.Next() {
			var row imageRow
			if err := row.scan(rows); err != nil {
				return fmt.Errorf("failed to scan image row: %w", err)
			}
			images = append(images, *row.toDomain())
		}

		if err := rows.Err(); err != nil {
			return fmt.Errorf("error iterating image rows: %w", err)
		}

		page = domain.NewPage(images, total, pageable)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return page, nil
}

// CountImages returns the number of images matching criteria
func (r *SQLiteImageRepository) CountImages(ctx context.Context, criteria domain.ImageCriteria) (int64, error) {
	where := imageWhere(criteria)

	var total int64
	err := db.GetExecutor(ctx, r.db).QueryRowContext(ctx, "SELECT COUNT(*) FROM images"+where.sql(), where.args...).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to count images: %w", err)
	}

	return total, nil
}

const deleteImageQuery = `
	DELETE FROM images WHERE id = ?
`

// DeleteImage removes an image by ID
func (r *SQLiteImageRepository) DeleteImage(ctx context.Context, id int64) error {
	_, err := db.GetExecutor(ctx, r.db).ExecContext(ctx, deleteImageQuery, id)
	if err != nil {
		return fmt.Errorf("failed to delete image %d: %w", id, err)
	}

	return nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

// imageRow is a private struct used to scan database rows
type imageRow struct {
	ID                int64          `db:"id"`
	Name              string         `db:"name"`
	Small             []byte         `db:"small"`
	SmallContentType  sql.NullString `db:"small_content_type"`
	Medium            []byte         `db:"medium"`
	MediumContentType sql.NullString `db:"medium_content_type"`
	Large             []byte         `db:"large"`
	LargeContentType  sql.NullString `db:"large_content_type"`
	Hash              sql.NullString `db:"hash"`
	UpdatedAt         sql.NullTime   `db:"updated_at"`
	CreatedAt         sql.NullTime   `db:"created_at"`
}

func (ir *imageRow) scan(s rowScanner) error {
	return s.Scan(
		&ir.ID,
		&ir.Name,
		&ir.Small,
		&ir.SmallContentType,
		&ir.Medium,
		&ir.MediumContentType,
		&ir.Large,
		&ir.LargeContentType,
		&ir.Hash,
		&ir.UpdatedAt,
		&ir.CreatedAt,
	)
}

// toDomain converts an imageRow to a domain.Image, handling nullable columns
func (ir *imageRow) toDomain() *domain.Image {
	img := &domain.Image{
		ID:                ir.ID,
		Name:              ir.Name,
		Small:             ir.Small,
		SmallContentType:  ir.SmallContentType.String,
		Medium:            ir.Medium,
		MediumContentType: ir.MediumContentType.String,
		Large:             ir.Large,
		LargeContentType:  ir.LargeContentType.String,
		Hash:              ir.Hash.String,
	}

	if ir.UpdatedAt.Valid {
		img.UpdatedAt = ir.UpdatedAt.Time
	}
	if ir.CreatedAt.Valid {
		img.CreatedAt = ir.CreatedAt.Time
	}

	return img
}

func nullBytes(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return b
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
