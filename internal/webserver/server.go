package webserver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/openmart/catalog/internal/app"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	// DBContextKey exposes the gorm handle to handlers
	DBContextKey = "gdb"
	// AppContextKey exposes the application container to handlers
	AppContextKey = "appctx"
)

var server *WebServer

type WebServer struct {
	appctx app.AppContext
	root   *echo.Echo
	api    *echo.Group
	pub    *echo.Group
}

func Init(appctx app.AppContext) {
	server = NewWebServer(appctx)
}

func NewWebServer(appctx app.AppContext) *WebServer {
	s := &WebServer{appctx: appctx}
	s.root = echo.New()
	s.root.HideBanner = true
	s.root.HidePort = true
	s.root.Debug = appctx.Config().System.Debug
	s.root.JSONSerializer = jsonSerializer{}
	s.root.Validator = NewValidator()

	s.root.Use(middleware.Recover())
	s.root.Use(middleware.CORS())
	s.root.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:     true,
		LogStatus:  true,
		LogMethod:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			}
			if v.Error != nil {
				fields = append(fields, zap.Error(v.Error))
				zap.L().Warn("http request", fields...)
			} else {
				zap.L().Info("http request", fields...)
			}
			return nil
		},
	}))
	s.root.Use(echoprometheus.NewMiddleware(appctx.Config().System.Appid))
	s.root.GET("/metrics", echoprometheus.NewHandler())

	// inject application context into every request
	s.root.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(AppContextKey, s.appctx)
			c.Set(DBContextKey, s.appctx.DB())
			return next(c)
		}
	})

	secret := appctx.Config().Web.Secret
	s.api = s.root.Group("/api/products", echojwt.WithConfig(echojwt.Config{
		ParseTokenFunc: func(c echo.Context, auth string) (interface{}, error) {
			claims, err := ParseToken(secret, auth)
			if err != nil {
				return nil, err
			}
			if claims.TokenType != TokenTypeAccess {
				return nil, errors.New("token is not an access token")
			}
			return claims, nil
		},
	}))
	s.pub = s.root.Group("/api/auth")

	return s
}

// Listen starts the HTTP server and shuts it down when ctx is cancelled
func Listen(ctx context.Context) error {
	return server.Start(ctx)
}

func (s *WebServer) Start(ctx context.Context) error {
	cfg := s.appctx.Config().Web
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.root.Shutdown(shutdownCtx); err != nil {
			zap.L().Error("http server shutdown", zap.Error(err))
		}
	}()

	zap.S().Infof("http server listening on %s", addr)
	err := s.root.Start(addr)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// ApiGET register an authenticated products route
func ApiGET(path string, h echo.HandlerFunc) {
	server.api.GET(path, h)
}

func ApiPOST(path string, h echo.HandlerFunc) {
	server.api.POST(path, h)
}

func ApiPUT(path string, h echo.HandlerFunc) {
	server.api.PUT(path, h)
}

func ApiPATCH(path string, h echo.HandlerFunc) {
	server.api.PATCH(path, h)
}

func ApiDELETE(path string, h echo.HandlerFunc) {
	server.api.DELETE(path, h)
}

// PubPOST register an unauthenticated auth route
func PubPOST(path string, h echo.HandlerFunc) {
	server.pub.POST(path, h)
}
