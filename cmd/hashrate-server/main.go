// Command hashrate-server exposes the hashrate check over HTTP for monitoring
// systems that poll an endpoint instead of running a plugin.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/jessevdk/go-flags"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/restartfu/f2pool-check/internal/adapters/f2pool"
	httpadapter "github.com/restartfu/f2pool-check/internal/adapters/http"
	"github.com/restartfu/f2pool-check/internal/app"
	"github.com/restartfu/f2pool-check/internal/config"
	"github.com/restartfu/f2pool-check/internal/logger"
	"github.com/restartfu/f2pool-check/internal/observability"
)

var version = "dev"

type options struct {
	Addr   string `long:"addr" value-name:"ADDR" description:"Listen address (default: :8080)"`
	Config string `long:"config" value-name:"FILE" description:"Optional TOML config file"`
}

func main() {
	var opts options
	if _, err := flags.Parse(&opts); err != nil {
		if flags.WroteHelp(err) {
			os.Exit(0)
		}
		os.Exit(2)
	}

	cfg, err := config.Load(opts.Config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if opts.Addr != "" {
		cfg.Server.Addr = opts.Addr
	}
	// warn is the plugin default; the server also logs every request at info.
	if cfg.Log.Level == "warn" {
		cfg.Log.Level = "info"
	}

	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	flushSentry, sentryEnabled, sentryErr := observability.InitSentry("hashrate-server@" + version)
	if sentryErr != nil {
		log.WithError(sentryErr).Error("sentry init failed")
		os.Exit(1)
	}
	defer flushSentry()

	client := f2pool.NewClient(&http.Client{Timeout: cfg.Pool.Timeout.Std()}, cfg.Pool.UserAgent, log)
	service := app.NewService(client, cfg.Pool.URL, log)
	httpServer := httpadapter.NewServer(service, log)

	echoServer := echo.New()
	echoServer.HideBanner = true
	echoServer.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		TargetHeader: echo.HeaderXRequestID,
		RequestIDHandler: func(c echo.Context, id string) {
			c.Request().Header.Set(echo.HeaderXRequestID, id)
		},
	}))
	if sentryEnabled {
		echoServer.Use(sentryecho.New(sentryecho.Options{
			Repanic:         true,
			WaitForDelivery: false,
		}))
	}
	echoServer.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("request_id", v.RequestID),
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			}
			if v.Error != nil {
				log.Error("http_error", append(fields, zap.Error(v.Error))...)
				return nil
			}
			log.Info("http_request", fields...)
			return nil
		},
	}))
	echoServer.Use(middleware.Recover())
	echoServer.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			if err != nil {
				observability.CaptureError(err, map[string]string{
					"component": "http",
					"route":     c.Path(),
				}, map[string]interface{}{
					"method": c.Request().Method,
					"uri":    c.Request().RequestURI,
				})
			}
			return err
		}
	})
	httpServer.Register(echoServer)

	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           echoServer,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Error("shutdown failed")
		}
	}()

	log.Info("hashrate server listening", zap.String("addr", cfg.Server.Addr), zap.String("pool", cfg.Pool.URL))
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.WithError(err).Error("listen failed")
		os.Exit(1)
	}
}
