package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/okorneva/cloudstore/internal/model"
)

var _ model.FileStore = (*FileRepository)(nil)

type FileRepository struct {
	db *Connection
}

func NewFileRepository(db *Connection) *FileRepository {
	return &FileRepository{
		db: db,
	}
}

func (r *FileRepository) GetByNameAndOwner(ctx context.Context, name string, ownerID int64) (model.File, error) {
	var file model.File
	query := `SELECT id, name, hash, content, owner_id
			  FROM files WHERE name = $1 AND owner_id = $2`

	err := r.db.QueryRow(ctx, query, name, ownerID).Scan(
		&file.ID, &file.Name, &file.Hash, &file.Content, &file.OwnerID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.File{}, model.ErrNotFound
		}
		return model.File{}, fmt.Errorf("failed to get file by name and owner: %w", err)
	}

	return file, nil
}

func (r *FileRepository) ListByOwner(ctx context.Context, ownerID int64, limit int) ([]model.File, error) {
	query := `SELECT id, name, hash, content, owner_id
			  FROM files WHERE owner_id = $1 ORDER BY name LIMIT $2`

	rows, err := r.db.Query(ctx, query, ownerID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list files by owner: %w", err)
	}
	defer rows.Close()

	var files []model.File
	for rows.Next() {
		var file model.File
		if err := rows.Scan(&file.ID, &file.Name, &file.Hash, &file.Content, &file.OwnerID); err != nil {
			return nil, fmt.Errorf("failed to scan file row: %w", err)
		}
		files = append(files, file)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate file rows: %w", err)
	}

	return files, nil
}

// Save upserts by file ID. The (owner_id, name) unique constraint makes
// duplicate filenames within one namespace fail atomically.
func (r *FileRepository) Save(ctx context.Context, file model.File) (model.File, error) {
	query := `INSERT INTO files (id, name, hash, content, owner_id)
			  VALUES ($1, $2, $3, $4, $5)
			  ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, hash = EXCLUDED.hash, content = EXCLUDED.content
			  RETURNING id, name, hash, content, owner_id`

	var saved model.File
	err := r.db.QueryRow(ctx, query,
		file.ID, file.Name, file.Hash, file.Content, file.OwnerID,
	).Scan(
		&saved.ID, &saved.Name, &saved.Hash, &saved.Content, &saved.OwnerID,
	)
	if err != nil {
		if _, ok := uniqueViolation(err); ok {
			return model.File{}, model.ErrFileExists
		}
		return model.File{}, fmt.Errorf("failed to save file: %w", err)
	}

	return saved, nil
}

func (r *FileRepository) Delete(ctx context.Context, file model.File) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM files WHERE id = $1`, file.ID)
	if err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}

	return nil
}
