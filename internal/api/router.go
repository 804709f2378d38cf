package api

import (
	"strconv"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/ayam04/Contract-Farming/docs"
	"github.com/ayam04/Contract-Farming/internal/api/handler"
	"github.com/ayam04/Contract-Farming/internal/api/middleware"
	"github.com/ayam04/Contract-Farming/internal/core/domain"
	"github.com/ayam04/Contract-Farming/internal/core/ports"
)

// Deps carries everything the HTTP surface needs. Services are built by the
// caller so that the router stays free of storage decisions.
type Deps struct {
	Auth      ports.AuthService
	Crops     ports.CropService
	Contracts ports.ContractService

	// UploadDir is served read-only under /uploads.
	UploadDir string

	// MaxUploadBytes is the image size limit. POST /crops bodies are capped
	// at this plus formOverhead. Zero selects defaultUploadBytes.
	MaxUploadBytes int64

	// Readiness lists the dependencies checked by /health/ready.
	Readiness map[string]handler.Pinger

	// Registry receives the HTTP request metrics. Nil selects the default
	// Prometheus registry.
	Registry *prometheus.Registry

	Logger zerolog.Logger
}

const (
	defaultUploadBytes = 5 << 20
	formOverhead       = 1 << 20
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if deps.Registry != nil {
		registerer, gatherer = deps.Registry, deps.Registry
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(deps.Logger))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "farming",
		Registerer: registerer,
	}))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	cropHandler := handler.NewCropHandler(deps.Crops)
	contractHandler := handler.NewContractHandler(deps.Contracts)
	authenticated := middleware.Auth(deps.Auth)

	maxUpload := deps.MaxUploadBytes
	if maxUpload <= 0 {
		maxUpload = defaultUploadBytes
	}
	cropBodyLimit := echomiddleware.BodyLimit(strconv.FormatInt(maxUpload+formOverhead, 10) + "B")

	// --- Auth routes ---
	e.POST("/signup", authHandler.Signup)
	e.POST("/login", authHandler.Login)

	// --- Catalog and contracts ---
	e.POST("/crops", cropHandler.Create, cropBodyLimit, authenticated, middleware.Require(domain.CapCreateCrop))
	e.GET("/crops", cropHandler.List, authenticated, middleware.Require(domain.CapListCrops))
	e.GET("/generate-contract/:cropId", contractHandler.Generate, authenticated, middleware.Require(domain.CapGenerateContract))

	// --- Uploaded images (public) ---
	if deps.UploadDir != "" {
		e.Static("/uploads", deps.UploadDir)
	}

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Readiness)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)

	// --- Observability and docs ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
