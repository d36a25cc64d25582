package storage

import (
	"errors"
	"io"
	"os"
	"path/filepath"

	"app/internal/domain/model"

	"github.com/google/uuid"
)

var (
	//ファイルが消えている・読めない
	ErrFileNotFound = errors.New("file not found")
	//0バイトのファイル
	ErrEmptyContent = errors.New("empty content")
)

// 商品画像をローカルディスクに保存する。
// 保存名はuuidなので並行アップロードでも衝突しない。
type LocalFileStore struct {
	dir string
}

func NewLocalFileStore(dir string) (*LocalFileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &LocalFileStore{dir: dir}, nil
}

// Saveはストリームを書き込んで未保存のFileDetailsを返す。
// DBへの行の作成は呼び出し側（usecase）の仕事。
func (s *LocalFileStore) Save(src io.Reader, originalName string, contentType string) (model.FileDetails, error) {
	storedName := uuid.NewString()
	path := filepath.Join(s.dir, storedName)

	dst, err := os.Create(path)
	if err != nil {
		return model.FileDetails{}, err
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(path)
		return model.FileDetails{}, err
	}
	if err := dst.Close(); err != nil {
		os.Remove(path)
		return model.FileDetails{}, err
	}

	return model.FileDetails{
		FileName:       originalName,
		StoredFileName: storedName,
		Path:           path,
		ContentType:    contentType,
	}, nil
}

// ReadBytesは保存済みファイルの中身を返す。
func (s *LocalFileStore) ReadBytes(f model.FileDetails) ([]byte, error) {
	b, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, ErrFileNotFound
	}
	if len(b) == 0 {
		return nil, ErrEmptyContent
	}
	return b, nil
}

// Removeは物理ファイルを消す。商品保存に失敗したときの掃除用。
func (s *LocalFileStore) Remove(f model.FileDetails) error {
	err := os.Remove(f.Path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
