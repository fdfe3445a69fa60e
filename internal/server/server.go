package server

import (
	"net/http"

	"shop/internal/handler"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// New はルーティング済みのechoインスタンスを返す。
func New(orderH *handler.OrderHandler, customerH *handler.CustomerHandler, productH *handler.ProductHandler) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	RegisterRoutes(e, orderH, customerH, productH)

	return e
}

func RegisterRoutes(e *echo.Echo, orderH *handler.OrderHandler, customerH *handler.CustomerHandler, productH *handler.ProductHandler) {
	orderH.RegisterRoutes(e)
	customerH.RegisterRoutes(e)
	productH.RegisterRoutes(e)

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}
