package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func newTestContext() (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestWriteError_HTTPError(t *testing.T) {
	c, rec := newTestContext()

	err := writeError(c, usecase.NewHTTPError(http.StatusBadRequest, "orderId", "order does not exist or invalid orderId"))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"order does not exist or invalid orderId","field":"orderId"}`, rec.Body.String())
}

func TestWriteError_NoContent(t *testing.T) {
	c, rec := newTestContext()

	err := writeError(c, usecase.NewHTTPError(http.StatusNoContent, "file", "file invalid or empty or deleted"))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	//204はボディなし
	assert.Empty(t, rec.Body.String())
}

func TestWriteError_UnknownError(t *testing.T) {
	c, rec := newTestContext()

	err := writeError(c, assert.AnError)
	assert.NoError(t, err)
	//分類できないエラーは詳細を漏らさない
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal error"}`, rec.Body.String())
}

func TestGetUserIDFromContext(t *testing.T) {
	c, _ := newTestContext()
	c.Set(middleware.CtxUserIDKey, int64(42))

	id, ok := getUserIDFromContext(c)
	assert.True(t, ok)
	assert.Equal(t, int64(42), id)
}

func TestGetUserIDFromContext_Missing(t *testing.T) {
	c, _ := newTestContext()

	_, ok := getUserIDFromContext(c)
	assert.False(t, ok)
}

func TestGetUserIDFromContext_WrongType(t *testing.T) {
	c, _ := newTestContext()
	c.Set(middleware.CtxUserIDKey, "42")

	_, ok := getUserIDFromContext(c)
	assert.False(t, ok)
}
