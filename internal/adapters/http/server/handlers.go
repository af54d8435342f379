package server

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/jatsharma/stackera-project/internal/adapters/logger"
	"github.com/jatsharma/stackera-project/internal/application/listing"
	httpports "github.com/jatsharma/stackera-project/internal/ports/http"
)

const (
	serviceName    = "uniswap-tokens-api"
	serviceVersion = "1.0.0"
)

// HandlerAdapter adapts domain services to HTTP handlers
type HandlerAdapter struct {
	tokensService httpports.TokensService
	swapsService  httpports.SwapsService
	priceService  httpports.PriceService
	tokenStats    httpports.TokenStats
	logger        *logger.Logger
}

// NewHandlerAdapter creates a new handler adapter. tokenStats may be nil.
func NewHandlerAdapter(
	tokensService httpports.TokensService,
	swapsService httpports.SwapsService,
	priceService httpports.PriceService,
	tokenStats httpports.TokenStats,
	log *logger.Logger,
) *HandlerAdapter {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &HandlerAdapter{
		tokensService: tokensService,
		swapsService:  swapsService,
		priceService:  priceService,
		tokenStats:    tokenStats,
		logger:        log,
	}
}

// GetTokens handles GET /tokens?sortBy=&limit=&page=
func (h *HandlerAdapter) GetTokens(c echo.Context) error {
	params := listing.Params{
		SortBy: c.QueryParam("sortBy"),
		Limit:  c.QueryParam("limit"),
		Page:   c.QueryParam("page"),
	}

	body, err := h.tokensService.ListTokens(c.Request().Context(), params)
	if err != nil {
		return h.badRequest(c, err, zap.Any("params", params))
	}
	return c.JSONBlob(http.StatusOK, body)
}

// GetRecentSwaps handles GET /recentSwaps
func (h *HandlerAdapter) GetRecentSwaps(c echo.Context) error {
	body, err := h.swapsService.RecentSwaps(c.Request().Context())
	if err != nil {
		return h.badRequest(c, err)
	}
	return c.JSONBlob(http.StatusOK, body)
}

// GetETHPrice handles GET /ETHPrice
func (h *HandlerAdapter) GetETHPrice(c echo.Context) error {
	value, err := h.priceService.GetETHPrice(c.Request().Context())
	if err != nil {
		return h.badRequest(c, err)
	}
	return c.JSON(http.StatusOK, httpports.ETHPriceResponse{ETHPrice: value})
}

func (h *HandlerAdapter) HealthCheck(c echo.Context) error {
	status := httpports.HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Service:   serviceName,
		Version:   serviceVersion,
	}

	if h.tokenStats != nil {
		n, err := h.tokenStats.CountTokens(c.Request().Context())
		if err != nil {
			h.logger.Warn("Health check could not count tokens", zap.Error(err))
		} else {
			status.TokensStored = &n
		}
	}

	return c.JSON(http.StatusOK, status)
}

func (h *HandlerAdapter) badRequest(c echo.Context, err error, fields ...zap.Field) error {
	fields = append(fields, zap.String("path", c.Path()), zap.Error(err))
	if httpports.IsClientError(err) {
		h.logger.Warn("Rejected request parameters", fields...)
	} else {
		h.logger.Error("Request failed", fields...)
	}
	return c.JSON(http.StatusBadRequest, httpports.ToErrorResponse(err))
}
