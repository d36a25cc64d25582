package usecase

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/shopspring/decimal"
)

// 画像の物理保存の約束。実装はinfra/storage。
type FileStore interface {
	Save(src io.Reader, originalName string, contentType string) (model.FileDetails, error)
	ReadBytes(f model.FileDetails) ([]byte, error)
	Remove(f model.FileDetails) error
}

type ProductUsecase struct {
	tx        repo.TransactionManager
	products  repo.ProductRepository
	files     repo.FileRepository
	store     FileStore
	publicURL string
}

// DI
func NewProductUsecase(
	tx repo.TransactionManager,
	products repo.ProductRepository,
	files repo.FileRepository,
	store FileStore,
	publicURL string,
) *ProductUsecase {
	return &ProductUsecase{
		tx:        tx,
		products:  products,
		files:     files,
		store:     store,
		publicURL: publicURL,
	}
}

// 一覧用の小さい射影。
type SmallProductOutput struct {
	ID      int64           `json:"id"`
	Image   string          `json:"image"`
	Name    string          `json:"name"`
	Price   decimal.Decimal `json:"price"`
	InStock bool            `json:"in_stock"`
}

type ProductOutput struct {
	ID          int64           `json:"id"`
	Image       string          `json:"image"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	InStock     bool            `json:"in_stock"`
	LastUpdate  time.Time       `json:"last_update"`
}

func productImageURL(publicURL string, p model.Product) string {
	if p.ImageID == nil {
		return ""
	}
	return fmt.Sprintf("%s/files/%d", publicURL, *p.ImageID)
}

func toSmallProductOutput(p model.Product, publicURL string) SmallProductOutput {
	return SmallProductOutput{
		ID:      p.ID,
		Image:   productImageURL(publicURL, p),
		Name:    p.Name,
		Price:   p.Price,
		InStock: p.InStock,
	}
}

func toProductOutput(p model.Product, publicURL string) ProductOutput {
	return ProductOutput{
		ID:          p.ID,
		Image:       productImageURL(publicURL, p),
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		InStock:     p.InStock,
		LastUpdate:  p.UpdatedAt,
	}
}

func (u *ProductUsecase) List(ctx context.Context) ([]SmallProductOutput, error) {
	products, err := u.products.ListAll(ctx)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db", "db error")
	}

	out := make([]SmallProductOutput, 0, len(products))
	for _, p := range products {
		out = append(out, toSmallProductOutput(p, u.publicURL))
	}
	return out, nil
}

func (u *ProductUsecase) GetByID(ctx context.Context, id int64) (ProductOutput, error) {
	p, err := u.products.FindByID(ctx, id)
	if err == repo.ErrNotFound {
		return ProductOutput{}, NewHTTPError(http.StatusBadRequest, "id", "invalid product id")
	}
	if err != nil {
		return ProductOutput{}, NewHTTPError(http.StatusInternalServerError, "db", "db error")
	}
	return toProductOutput(p, u.publicURL), nil
}

type AddProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal

	Image            io.Reader
	ImageName        string
	ImageContentType string
}

// Addは商品を新規作成する。重複チェックが通るまでアップロードはしない。
// 商品の保存に失敗したら書いたファイルを消す（孤児ファイルを残さない）。
func (u *ProductUsecase) Add(ctx context.Context, in AddProductInput) (ProductOutput, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return ProductOutput{}, NewHTTPError(http.StatusBadRequest, "name", "name required")
	}
	if in.Price.IsNegative() {
		return ProductOutput{}, NewHTTPError(http.StatusBadRequest, "price", "price must be >= 0")
	}
	if in.Image == nil {
		return ProductOutput{}, NewHTTPError(http.StatusBadRequest, "image", "image required")
	}

	//名前の重複は保存よりも前に弾く
	_, err := u.products.FindByName(ctx, name)
	if err == nil {
		return ProductOutput{}, NewHTTPError(http.StatusBadRequest, "product name", "invalid product name or product with such name already exists")
	}
	if err != repo.ErrNotFound {
		return ProductOutput{}, NewHTTPError(http.StatusInternalServerError, "db", "db error")
	}

	stored, err := u.store.Save(in.Image, in.ImageName, in.ImageContentType)
	if err != nil {
		return ProductOutput{}, NewHTTPError(http.StatusInternalServerError, "image", "failed to store image")
	}

	var out ProductOutput

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		fileRec, err := r.Files().Create(ctx, stored)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db", "db error")
		}

		p := model.Product{
			Name:        name,
			Description: in.Description,
			Price:       in.Price,
			InStock:     true,
			ImageID:     &fileRec.ID,
		}

		created, err := r.Products().Create(ctx, p)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db", "db error")
		}

		created.Image = &fileRec
		out = toProductOutput(created, u.publicURL)
		return nil
	})
	if err != nil {
		//コミットできなかったので物理ファイルを掃除する
		_ = u.store.Remove(stored)
		return ProductOutput{}, err
	}

	return out, nil
}

type EditProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
}

func (u *ProductUsecase) Edit(ctx context.Context, id int64, in EditProductInput) (ProductOutput, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return ProductOutput{}, NewHTTPError(http.StatusBadRequest, "name", "name required")
	}
	if in.Price.IsNegative() {
		return ProductOutput{}, NewHTTPError(http.StatusBadRequest, "price", "price must be >= 0")
	}

	p, err := u.products.FindByID(ctx, id)
	if err == repo.ErrNotFound {
		return ProductOutput{}, NewHTTPError(http.StatusBadRequest, "id", "invalid product id")
	}
	if err != nil {
		return ProductOutput{}, NewHTTPError(http.StatusInternalServerError, "db", "db error")
	}

	//別の商品が同じ名前を使っていたら弾く
	if name != p.Name {
		if _, err := u.products.FindByName(ctx, name); err == nil {
			return ProductOutput{}, NewHTTPError(http.StatusBadRequest, "product name", "invalid product name or product with such name already exists")
		} else if err != repo.ErrNotFound {
			return ProductOutput{}, NewHTTPError(http.StatusInternalServerError, "db", "db error")
		}
	}

	p.Name = name
	p.Description = in.Description
	p.Price = in.Price

	if err := u.products.Update(ctx, p); err != nil {
		if err == repo.ErrNotFound {
			return ProductOutput{}, NewHTTPError(http.StatusBadRequest, "id", "invalid product id")
		}
		return ProductOutput{}, NewHTTPError(http.StatusInternalServerError, "db", "db error")
	}

	return toProductOutput(p, u.publicURL), nil
}

// ToggleStockは在庫フラグを反転する。
func (u *ProductUsecase) ToggleStock(ctx context.Context, id int64) (ProductOutput, error) {
	p, err := u.products.FindByID(ctx, id)
	if err == repo.ErrNotFound {
		return ProductOutput{}, NewHTTPError(http.StatusBadRequest, "invalid productId", "invalid product Id")
	}
	if err != nil {
		return ProductOutput{}, NewHTTPError(http.StatusInternalServerError, "db", "db error")
	}

	p.InStock = !p.InStock

	if err := u.products.Update(ctx, p); err != nil {
		return ProductOutput{}, NewHTTPError(http.StatusInternalServerError, "db", "db error")
	}

	return toProductOutput(p, u.publicURL), nil
}

// Deleteは商品と画像参照をまとめて消す。物理ファイルはコミット後に消す。
func (u *ProductUsecase) Delete(ctx context.Context, id int64) (string, error) {
	p, err := u.products.FindByID(ctx, id)
	if err == repo.ErrNotFound {
		return "", NewHTTPError(http.StatusBadRequest, "id", "invalid product id")
	}
	if err != nil {
		return "", NewHTTPError(http.StatusInternalServerError, "db", "db error")
	}

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if err := r.Products().Delete(ctx, id); err != nil {
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusBadRequest, "id", "invalid product id")
			}
			return NewHTTPError(http.StatusInternalServerError, "db", "db error")
		}
		if p.ImageID != nil {
			if err := r.Files().Delete(ctx, *p.ImageID); err != nil && err != repo.ErrNotFound {
				return NewHTTPError(http.StatusInternalServerError, "db", "db error")
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	if p.Image != nil {
		_ = u.store.Remove(*p.Image)
	}

	return fmt.Sprintf("Id:%d| product deleted", id), nil
}
