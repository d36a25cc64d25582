package usecase

import (
	"context"
	"errors"
	"net/http"

	"app/internal/infra/storage"
	repo "app/internal/repository"
)

type FileUsecase struct {
	files repo.FileRepository
	store FileStore
}

// DI
func NewFileUsecase(files repo.FileRepository, store FileStore) *FileUsecase {
	return &FileUsecase{files: files, store: store}
}

type FileContent struct {
	Bytes       []byte
	ContentType string
	FileName    string
}

// GetByIDは保存済みファイルの中身を返す。
func (u *FileUsecase) GetByID(ctx context.Context, id int64) (FileContent, error) {
	f, err := u.files.FindByID(ctx, id)
	if err == repo.ErrNotFound {
		return FileContent{}, NewHTTPError(http.StatusBadRequest, "file id", "invalid file id or file does not exist")
	}
	if err != nil {
		return FileContent{}, NewHTTPError(http.StatusInternalServerError, "db", "db error")
	}

	b, err := u.store.ReadBytes(f)
	if errors.Is(err, storage.ErrEmptyContent) {
		return FileContent{}, NewHTTPError(http.StatusNoContent, "file", "file invalid or empty or deleted")
	}
	if err != nil {
		return FileContent{}, NewHTTPError(http.StatusNotFound, "file", "file is missing or unreadable")
	}

	return FileContent{
		Bytes:       b,
		ContentType: f.ContentType,
		FileName:    f.FileName,
	}, nil
}
