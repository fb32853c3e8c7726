package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	handlers "github.com/coursehub/payment-service/internal/adapter/handler/http"
	"github.com/coursehub/payment-service/internal/config"
	"github.com/coursehub/payment-service/internal/middleware/auth"
	"github.com/coursehub/payment-service/internal/usecase"
	"github.com/coursehub/payment-service/pkg/logger"
)

const healthPath = "/api/payments/health"

// Services are the usecases exposed over HTTP
type Services struct {
	Order     *usecase.OrderService
	Analytics *usecase.AnalyticsService
}

type Server struct {
	config *config.Config
	logger *zap.Logger
	echo   *echo.Echo
}

func NewServer(cfg *config.Config, logger *zap.Logger, services Services, healthChecks ...handlers.HealthCheck) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handlers.NewRequestValidator()

	s := &Server{
		config: cfg,
		logger: logger,
		echo:   e,
	}
	s.setupMiddleware()
	s.setupRoutes(services, healthChecks)
	return s
}

func (s *Server) setupMiddleware() {
	logger.WithEchoLogger(s.echo, s.logger)

	s.echo.Use(middleware.RequestID())
	s.echo.Use(logger.NewEchoRequestLogger(s.logger))
	s.echo.Use(middleware.Recover())
	s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     s.config.Service.ClientURLs,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowCredentials: true,
	}))
}

func (s *Server) setupRoutes(services Services, healthChecks []handlers.HealthCheck) {
	healthHandler := handlers.NewHealthHandler(s.logger, healthChecks...)
	paymentHandler := handlers.NewPaymentHandler(services.Order, s.logger)
	analyticsHandler := handlers.NewAnalyticsHandler(services.Analytics, s.logger)

	jwtConfig := auth.JWTConfig{
		Secret:     s.config.JWT.Secret,
		CookieName: s.config.JWT.CookieName,
		Logger:     s.logger,
		SkipPaths:  []string{healthPath},
	}

	payments := s.echo.Group("/api/payments")

	// Public routes
	payments.GET("/health", healthHandler.Health)

	// Protected routes (require a verified session)
	protected := payments.Group("", auth.JWTMiddleware(jwtConfig))
	protected.POST("/create-order", paymentHandler.CreateOrder)
	protected.GET("", paymentHandler.GetUserPayments)

	analytics := protected.Group("/analytics")
	analytics.GET("/revenue", analyticsHandler.GetRevenue)
	analytics.GET("/revenue/monthly", analyticsHandler.GetMonthlyRevenue)
	analytics.GET("/courses/:courseId/revenue", analyticsHandler.GetCourseRevenue)
}

// Handler returns the router, for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start serves until Shutdown is called
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.HTTP.Host, s.config.Server.HTTP.Port)
	s.logger.Info("Starting HTTP server", zap.String("address", addr))

	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
