package repository

import (
	"context"

	"app/internal/domain/model"
)

// アップロード記録の永続化。
type FileRepository interface {
	Create(ctx context.Context, f model.FileDetails) (model.FileDetails, error)
	FindByID(ctx context.Context, id int64) (model.FileDetails, error)
	Delete(ctx context.Context, id int64) error
}
