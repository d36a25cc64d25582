package server

import (
	"app/internal/config"
	"app/internal/handler"
	"app/internal/repository"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(
	e *echo.Echo,
	cfg config.Config,
	userRepo repository.UserRepository,
	authH *handler.AuthHandler,
	productH *handler.ProductHandler,
	adminProductH *handler.AdminProductHandler,
	orderH *handler.OrderHandler,
	fileH *handler.FileHandler,
) {
	authH.RegisterRoutes(e, cfg, userRepo)
	productH.RegisterRoutes(e)
	adminProductH.RegisterRoutes(e, cfg, userRepo)
	orderH.RegisterRoutes(e, cfg, userRepo)
	fileH.RegisterRoutes(e)
}
