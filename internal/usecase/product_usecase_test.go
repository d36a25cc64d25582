package usecase_test

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"app/internal/domain/model"
	repo "app/internal/repository"
	"app/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type ProductRepoMock struct{ mock.Mock }

func (m *ProductRepoMock) ListAll(ctx context.Context) ([]model.Product, error) {
	args := m.Called(ctx)
	ps, _ := args.Get(0).([]model.Product)
	return ps, args.Error(1)
}

func (m *ProductRepoMock) FindByID(ctx context.Context, id int64) (model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *ProductRepoMock) FindByName(ctx context.Context, name string) (model.Product, error) {
	args := m.Called(ctx, name)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *ProductRepoMock) FindByIDs(ctx context.Context, ids []int64) ([]model.Product, error) {
	args := m.Called(ctx, ids)
	ps, _ := args.Get(0).([]model.Product)
	return ps, args.Error(1)
}

func (m *ProductRepoMock) Create(ctx context.Context, p model.Product) (model.Product, error) {
	args := m.Called(ctx, p)
	out, _ := args.Get(0).(model.Product)
	return out, args.Error(1)
}

func (m *ProductRepoMock) Update(ctx context.Context, p model.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *ProductRepoMock) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type FileStoreMock struct{ mock.Mock }

func (m *FileStoreMock) Save(src io.Reader, originalName string, contentType string) (model.FileDetails, error) {
	args := m.Called(src, originalName, contentType)
	f, _ := args.Get(0).(model.FileDetails)
	return f, args.Error(1)
}

func (m *FileStoreMock) ReadBytes(f model.FileDetails) ([]byte, error) {
	args := m.Called(f)
	b, _ := args.Get(0).([]byte)
	return b, args.Error(1)
}

func (m *FileStoreMock) Remove(f model.FileDetails) error {
	args := m.Called(f)
	return args.Error(0)
}

func newProductUsecase(pRepo *ProductRepoMock, fRepo *OrderFileRepoMock, store *FileStoreMock) *usecase.ProductUsecase {
	tx := &txManagerStub{repos: &txReposStub{products: pRepo, files: fRepo}}
	return usecase.NewProductUsecase(tx, pRepo, fRepo, store, "https://api.shop.example.com")
}

func TestProductUsecase_Add_DuplicateName_NoUpload(t *testing.T) {
	pRepo := new(ProductRepoMock)
	store := new(FileStoreMock)
	uc := newProductUsecase(pRepo, new(OrderFileRepoMock), store)

	pRepo.On("FindByName", mock.Anything, "Coffee").Return(model.Product{ID: 5, Name: "Coffee"}, nil)

	_, err := uc.Add(context.Background(), usecase.AddProductInput{
		Name:             "Coffee",
		Price:            price("19.99"),
		Image:            strings.NewReader("png bytes"),
		ImageName:        "coffee.png",
		ImageContentType: "image/png",
	})
	assertHTTPStatus(t, err, http.StatusBadRequest)

	//重複で落ちたらファイルは書かない
	store.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
}

func TestProductUsecase_Add_Success(t *testing.T) {
	pRepo := new(ProductRepoMock)
	fRepo := new(OrderFileRepoMock)
	store := new(FileStoreMock)
	uc := newProductUsecase(pRepo, fRepo, store)

	pRepo.On("FindByName", mock.Anything, "Coffee").Return(model.Product{}, repo.ErrNotFound)

	stored := model.FileDetails{
		FileName:       "coffee.png",
		StoredFileName: "uuid-1.png",
		Path:           "Resources/ProductsPhotos/uuid-1.png",
		ContentType:    "image/png",
	}
	store.On("Save", mock.Anything, "coffee.png", "image/png").Return(stored, nil)

	saved := stored
	saved.ID = 7
	fRepo.On("Create", mock.Anything, stored).Return(saved, nil)

	pRepo.On("Create", mock.Anything, mock.MatchedBy(func(p model.Product) bool {
		return p.Name == "Coffee" && p.InStock && p.ImageID != nil && *p.ImageID == 7
	})).Return(model.Product{ID: 12, Name: "Coffee", Price: price("19.99"), InStock: true, ImageID: &saved.ID}, nil)

	out, err := uc.Add(context.Background(), usecase.AddProductInput{
		Name:             "Coffee",
		Description:      "dark roast",
		Price:            price("19.99"),
		Image:            strings.NewReader("png bytes"),
		ImageName:        "coffee.png",
		ImageContentType: "image/png",
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(12), out.ID)
	assert.Equal(t, "https://api.shop.example.com/files/7", out.Image)

	store.AssertNotCalled(t, "Remove", mock.Anything)
	pRepo.AssertExpectations(t)
	fRepo.AssertExpectations(t)
}

func TestProductUsecase_Add_PersistFailure_RemovesFile(t *testing.T) {
	pRepo := new(ProductRepoMock)
	fRepo := new(OrderFileRepoMock)
	store := new(FileStoreMock)
	uc := newProductUsecase(pRepo, fRepo, store)

	pRepo.On("FindByName", mock.Anything, "Coffee").Return(model.Product{}, repo.ErrNotFound)

	stored := model.FileDetails{FileName: "coffee.png", StoredFileName: "uuid-1.png"}
	store.On("Save", mock.Anything, "coffee.png", "image/png").Return(stored, nil)

	saved := stored
	saved.ID = 7
	fRepo.On("Create", mock.Anything, stored).Return(saved, nil)
	pRepo.On("Create", mock.Anything, mock.Anything).Return(model.Product{}, assert.AnError)

	//コミットに失敗したら物理ファイルを掃除する
	store.On("Remove", stored).Return(nil)

	_, err := uc.Add(context.Background(), usecase.AddProductInput{
		Name:             "Coffee",
		Price:            price("19.99"),
		Image:            strings.NewReader("png bytes"),
		ImageName:        "coffee.png",
		ImageContentType: "image/png",
	})
	assertHTTPStatus(t, err, http.StatusInternalServerError)

	store.AssertExpectations(t)
}

func TestProductUsecase_Add_MissingImage(t *testing.T) {
	pRepo := new(ProductRepoMock)
	uc := newProductUsecase(pRepo, new(OrderFileRepoMock), new(FileStoreMock))

	_, err := uc.Add(context.Background(), usecase.AddProductInput{Name: "Coffee", Price: price("1.00")})
	assertHTTPStatus(t, err, http.StatusBadRequest)

	pRepo.AssertNotCalled(t, "FindByName", mock.Anything, mock.Anything)
}

func TestProductUsecase_Edit_RenameToTakenName(t *testing.T) {
	pRepo := new(ProductRepoMock)
	uc := newProductUsecase(pRepo, new(OrderFileRepoMock), new(FileStoreMock))

	pRepo.On("FindByID", mock.Anything, int64(12)).Return(model.Product{ID: 12, Name: "Coffee", Price: price("19.99")}, nil)
	pRepo.On("FindByName", mock.Anything, "Tea").Return(model.Product{ID: 13, Name: "Tea"}, nil)

	_, err := uc.Edit(context.Background(), 12, usecase.EditProductInput{Name: "Tea", Price: price("9.99")})
	assertHTTPStatus(t, err, http.StatusBadRequest)

	pRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestProductUsecase_Edit_SameNameSkipsDuplicateCheck(t *testing.T) {
	pRepo := new(ProductRepoMock)
	uc := newProductUsecase(pRepo, new(OrderFileRepoMock), new(FileStoreMock))

	pRepo.On("FindByID", mock.Anything, int64(12)).Return(model.Product{ID: 12, Name: "Coffee", Price: price("19.99")}, nil)
	pRepo.On("Update", mock.Anything, mock.MatchedBy(func(p model.Product) bool {
		return p.ID == 12 && p.Description == "new text" && p.Price.Equal(price("21.50"))
	})).Return(nil)

	out, err := uc.Edit(context.Background(), 12, usecase.EditProductInput{
		Name:        "Coffee",
		Description: "new text",
		Price:       price("21.50"),
	})
	assert.NoError(t, err)
	assert.Equal(t, "Coffee", out.Name)

	pRepo.AssertNotCalled(t, "FindByName", mock.Anything, mock.Anything)
	pRepo.AssertExpectations(t)
}

func TestProductUsecase_ToggleStock(t *testing.T) {
	pRepo := new(ProductRepoMock)
	uc := newProductUsecase(pRepo, new(OrderFileRepoMock), new(FileStoreMock))

	pRepo.On("FindByID", mock.Anything, int64(12)).Return(model.Product{ID: 12, Name: "Coffee", InStock: true}, nil)
	pRepo.On("Update", mock.Anything, mock.MatchedBy(func(p model.Product) bool {
		return p.ID == 12 && !p.InStock
	})).Return(nil)

	out, err := uc.ToggleStock(context.Background(), 12)
	assert.NoError(t, err)
	assert.False(t, out.InStock)

	pRepo.AssertExpectations(t)
}

func TestProductUsecase_GetByID_Unknown(t *testing.T) {
	pRepo := new(ProductRepoMock)
	uc := newProductUsecase(pRepo, new(OrderFileRepoMock), new(FileStoreMock))

	pRepo.On("FindByID", mock.Anything, int64(404)).Return(model.Product{}, repo.ErrNotFound)

	_, err := uc.GetByID(context.Background(), 404)
	assertHTTPStatus(t, err, http.StatusBadRequest)
}

func TestProductUsecase_Delete_RemovesFileAfterCommit(t *testing.T) {
	pRepo := new(ProductRepoMock)
	fRepo := new(OrderFileRepoMock)
	store := new(FileStoreMock)
	uc := newProductUsecase(pRepo, fRepo, store)

	imageID := int64(7)
	image := model.FileDetails{ID: 7, StoredFileName: "uuid-1.png"}
	pRepo.On("FindByID", mock.Anything, int64(12)).Return(model.Product{ID: 12, Name: "Coffee", ImageID: &imageID, Image: &image}, nil)
	pRepo.On("Delete", mock.Anything, int64(12)).Return(nil)
	fRepo.On("Delete", mock.Anything, int64(7)).Return(nil)
	store.On("Remove", image).Return(nil)

	msg, err := uc.Delete(context.Background(), 12)
	assert.NoError(t, err)
	assert.Equal(t, "Id:12| product deleted", msg)

	pRepo.AssertExpectations(t)
	fRepo.AssertExpectations(t)
	store.AssertExpectations(t)
}
