package handler

import (
	"net/http"
	"strconv"

	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// アップロード済みファイルの配信。商品画像の絶対URLがここを指す。
type FileHandler struct {
	uc *usecase.FileUsecase
}

func NewFileHandler(uc *usecase.FileUsecase) *FileHandler {
	return &FileHandler{uc: uc}
}

func (h *FileHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/files/:id", h.get)
}

func (h *FileHandler) get(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.uc.GetByID(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.Blob(http.StatusOK, out.ContentType, out.Bytes)
}
