package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type FileGormRepository struct {
	db *gorm.DB
}

func NewFileGormRepository(db *gorm.DB) *FileGormRepository {
	return &FileGormRepository{db: db}
}

func (r *FileGormRepository) Create(ctx context.Context, f model.FileDetails) (model.FileDetails, error) {
	if err := r.db.WithContext(ctx).Create(&f).Error; err != nil {
		return model.FileDetails{}, err
	}
	return f, nil
}

func (r *FileGormRepository) FindByID(ctx context.Context, id int64) (model.FileDetails, error) {
	var f model.FileDetails
	err := r.db.WithContext(ctx).First(&f, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.FileDetails{}, repo.ErrNotFound
	}
	if err != nil {
		return model.FileDetails{}, err
	}
	return f, nil
}

func (r *FileGormRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.FileDetails{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
