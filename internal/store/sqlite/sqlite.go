package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/nulzo/image-playground/internal/store"
	"github.com/nulzo/image-playground/internal/store/model"
)

// SqliteRepository implements store.ImageStore
type SqliteRepository struct {
	db *sqlx.DB
}

var _ store.ImageStore = (*SqliteRepository)(nil)

func NewSqliteRepository(db *sqlx.DB) *SqliteRepository {
	return &SqliteRepository{db: db}
}

func (r *SqliteRepository) Close() error {
	return r.db.Close()
}

func (r *SqliteRepository) Put(ctx context.Context, obj *model.Object) error {
	obj.Size = int64(len(obj.Data))
	query := `
	INSERT INTO images (key, content_type, size, model, uploaded_at, data)
	VALUES (:key, :content_type, :size, :model, :uploaded_at, :data)
	ON CONFLICT (key) DO UPDATE SET
		content_type = excluded.content_type,
		size = excluded.size,
		model = excluded.model,
		uploaded_at = excluded.uploaded_at,
		data = excluded.data`
	_, err := r.db.NamedExecContext(ctx, query, obj)
	return err
}

func (r *SqliteRepository) Get(ctx context.Context, key string) (*model.Object, error) {
	var obj model.Object
	query := `SELECT key, content_type, size, model, uploaded_at, data FROM images WHERE key = ?`
	if err := r.db.GetContext(ctx, &obj, query, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &obj, nil
}

func (r *SqliteRepository) List(ctx context.Context) ([]model.Image, error) {
	images := []model.Image{}
	query := `SELECT key, content_type, size, model, uploaded_at FROM images ORDER BY key`
	if err := r.db.SelectContext(ctx, &images, query); err != nil {
		return nil, err
	}
	return images, nil
}
