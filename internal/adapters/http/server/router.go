package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// registerRoutes registers all HTTP routes using Echo
func registerRoutes(e *echo.Echo, handler *HandlerAdapter, metricsHandler http.Handler) {
	e.GET("/health", handler.HealthCheck)

	if metricsHandler != nil {
		e.GET("/metrics", echo.WrapHandler(metricsHandler))
	}

	// Swagger documentation
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	e.GET("/tokens", handler.GetTokens)
	e.GET("/recentSwaps", handler.GetRecentSwaps)
	e.GET("/ETHPrice", handler.GetETHPrice)
}
