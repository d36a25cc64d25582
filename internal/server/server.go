package server

import (
	"app/internal/config"
	"app/pkg/metrics"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// Newはミドルウェアまで設定したechoを返す。ルート登録はroutes.go。
func New(cfg config.Config, m *metrics.ServerMetrics) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     []string{cfg.FEURL},
		AllowCredentials: true,
	}))
	e.Use(m.Middleware())

	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))

	return e
}
