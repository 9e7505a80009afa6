package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"webappmanager/internal/models"
)

var ErrImageNotFound = errors.New("image not found")

const imageColumns = `id, COALESCE(user_id, ''), bucket, object_key, original_name, format, mime, size_bytes,
	status, checksum, deleted_at, created_at, updated_at`

type ImageRepository struct {
	pool *pgxpool.Pool
}

func NewImageRepository(pool *pgxpool.Pool) *ImageRepository {
	return &ImageRepository{pool: pool}
}

func (r *ImageRepository) Create(ctx context.Context, image models.Image) error {
	const query = `
		INSERT INTO images (
			id, user_id, bucket, object_key, original_name, format, mime, size_bytes,
			status, checksum, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW()
		)
	`

	_, err := r.pool.Exec(ctx, query,
		image.ID,
		image.UserID,
		image.Bucket,
		image.ObjectKey,
		image.OriginalName,
		image.Format,
		image.MIME,
		image.SizeBytes,
		image.Status,
		image.Checksum,
	)
	return err
}

func (r *ImageRepository) GetByID(ctx context.Context, id string) (models.Image, error) {
	image, err := scanImage(r.pool.QueryRow(ctx, `SELECT `+imageColumns+` FROM images WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Image{}, ErrImageNotFound
		}
		return models.Image{}, err
	}
	return image, nil
}

// List returns gallery images, newest first, excluding deleted ones.
func (r *ImageRepository) List(ctx context.Context, limit, offset int) ([]models.Image, error) {
	const query = `
		SELECT ` + imageColumns + `
		FROM images
		WHERE status != 'deleted'
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	return r.query(ctx, query, limit, offset)
}

func (r *ImageRepository) ListDeleted(ctx context.Context, limit int) ([]models.Image, error) {
	const query = `
		SELECT ` + imageColumns + `
		FROM images
		WHERE status = 'deleted'
		ORDER BY deleted_at ASC
		LIMIT $1
	`
	return r.query(ctx, query, limit)
}

func (r *ImageRepository) UpdateStatus(ctx context.Context, id string, status models.ImageStatus, sizeBytes int64) error {
	const query = `
		UPDATE images
		SET status = $2,
		    size_bytes = CASE WHEN $3::bigint > 0 THEN $3::bigint ELSE size_bytes END,
		    updated_at = NOW()
		WHERE id = $1
	`
	cmd, err := r.pool.Exec(ctx, query, id, status, sizeBytes)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrImageNotFound
	}
	return nil
}

func (r *ImageRepository) MarkDeleted(ctx context.Context, id string) error {
	const query = `
		UPDATE images
		SET status = 'deleted', deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND status != 'deleted'
	`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrImageNotFound
	}
	return nil
}

func (r *ImageRepository) Purge(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM images WHERE id = $1 AND status = 'deleted'`, id)
	return err
}

func (r *ImageRepository) query(ctx context.Context, query string, args ...any) ([]models.Image, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var images []models.Image
	for rows.Next() {
		image, err := scanImage(rows)
		if err != nil {
			return nil, err
		}
		images = append(images, image)
	}
	return images, rows.Err()
}

func scanImage(row pgx.Row) (models.Image, error) {
	var image models.Image
	err := row.Scan(
		&image.ID,
		&image.UserID,
		&image.Bucket,
		&image.ObjectKey,
		&image.OriginalName,
		&image.Format,
		&image.MIME,
		&image.SizeBytes,
		&image.Status,
		&image.Checksum,
		&image.DeletedAt,
		&image.CreatedAt,
		&image.UpdatedAt,
	)
	return image, err
}
