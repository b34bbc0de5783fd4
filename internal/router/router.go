package router

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"vibeboxing/internal/handler"
	"vibeboxing/internal/logging"
	"vibeboxing/internal/metrics"
	"vibeboxing/internal/middleware"
)

// Handlers groups the HTTP handlers served under /api.
type Handlers struct {
	Auth    *handler.AuthHandler
	User    *handler.UserHandler
	Combo   *handler.ComboHandler
	Catalog *handler.CatalogHandler
}

// Options carries the cross-cutting pieces of the server.
type Options struct {
	Resolver *middleware.AuthResolver
	Metrics  *metrics.Metrics
	Logger   *slog.Logger
	// AllowOrigins lists the browser origins allowed to send credentialed requests.
	AllowOrigins []string
}

// Register wires routes and middleware.
func Register(e *echo.Echo, opts Options, h Handlers) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	e.Use(echomw.RequestID())
	e.Use(middleware.RequestID)
	e.Use(requestLogger(logger))
	e.Use(echomw.Recover())
	if len(opts.AllowOrigins) > 0 {
		e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
			AllowOrigins:     opts.AllowOrigins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
			AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAuthorization},
			AllowCredentials: true,
		}))
	}

	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	if opts.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(opts.Metrics.Handler()))
	}
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api", opts.Resolver.Middleware())

	// Public routes
	api.POST("/register", h.Auth.Register)
	api.POST("/login", h.Auth.Login)
	api.POST("/logout", h.Auth.Logout)
	api.POST("/forgot-password", h.Auth.ForgotPassword)
	api.GET("/moves", h.Catalog.Moves)
	api.GET("/guards", h.Catalog.Guards)

	// Secured routes
	secured := api.Group("", middleware.RequireAuth)

	secured.GET("/user", h.User.GetUser)
	secured.PUT("/user", h.User.UpdateUser)
	secured.DELETE("/user", h.User.DeleteUser)
	secured.POST("/change-password", h.Auth.ChangePassword)

	secured.GET("/combos", h.Combo.List)
	secured.POST("/combos", h.Combo.Create)
	secured.GET("/combos/stats", h.Combo.Stats)
	secured.GET("/combos/:id", h.Combo.Get)
	secured.PUT("/combos/:id", h.Combo.Update)
	secured.DELETE("/combos/:id", h.Combo.Delete)
}

func requestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:    true,
		LogURIPath:   true,
		LogStatus:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			level := slog.LevelInfo
			if v.Status >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("path", v.URIPath),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("remote_ip", v.RemoteIP),
			}
			if v.Error != nil && level == slog.LevelError {
				attrs = append(attrs, slog.String("error", v.Error.Error()))
			}
			logger.LogAttrs(c.Request().Context(), level, "request", attrs...)
			return nil
		},
	})
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
