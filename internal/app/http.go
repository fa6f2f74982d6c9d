package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/taskboard/internal/config"
	"github.com/adanyl0v/taskboard/internal/delivery/http/v1"
	"github.com/adanyl0v/taskboard/internal/delivery/ws"
	"github.com/adanyl0v/taskboard/internal/notify"
	"github.com/adanyl0v/taskboard/internal/services"
)

func MustListenAndServeHTTP() {
	cfg := config.Global()
	if cfg.Env != config.EnvLocal {
		gin.SetMode(gin.ReleaseMode)
	}

	httpCfg := cfg.HTTP

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     httpCfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	registerRoutes(router)

	server := &http.Server{
		Addr:    net.JoinHostPort(httpCfg.Host, httpCfg.Port),
		Handler: router,
	}

	go func() {
		globalLogger.Info().
			Str("host", httpCfg.Host).
			Str("port", httpCfg.Port).
			Msg("setting up http server")
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			globalLogger.Error().
				Err(err).
				Msg("failed to listen and serve http")
			panic(err)
		}
	}()

	waitForShutdownSignal()

	globalLogger.Info().
		Msg("shutting down http server")

	ctx, cancel := context.WithTimeout(context.Background(), httpCfg.ShutdownTimeout)
	defer cancel()

	err := server.Shutdown(ctx)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to shutdown http server")
		panic(err)
	}
	globalLogger.Info().Msg("shut down http server")
}

// waitForShutdownSignal blocks until SIGINT or SIGTERM arrives.
func waitForShutdownSignal() {
	quit := make(chan os.Signal, 1)
	// kill (no params) by default sends syscall.SIGTERM
	// kill -2 is syscall.SIGINT
	// kill -9 is syscall.SIGKILL but can't be caught, so don't need to add it
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
}

func registerRoutes(router gin.IRouter) {
	cfg := config.Global()
	store := globalStore

	hub := ws.NewHub(globalLogger, cfg.HTTP.AllowedOrigins)
	dispatcher := notify.NewDispatcher(globalLogger, store.Notifications, hub, notify.BreakerSettings{
		MaxFailures: cfg.Notifications.BreakerMaxFailures,
		Timeout:     cfg.Notifications.BreakerTimeout,
	})

	v1Handler := v1.New(
		globalLogger,
		services.NewAuthService(
			globalLogger,
			store.Users,
			store.Sessions,
			cfg.JWT.Issuer,
			[]byte(cfg.JWT.SigningKey),
			cfg.JWT.AccessTokenTTL,
			cfg.JWT.RefreshTokenTTL,
		),
		services.NewSessionService(globalLogger, store.Sessions),
		services.NewTaskService(globalLogger, store.Tasks, store.Users, dispatcher),
		services.NewNotificationService(globalLogger, store.Notifications, dispatcher, cfg.Notifications.ListLimit),
		services.NewUserService(globalLogger, store.Users),
		services.NewAdminService(globalLogger, store.Users, store.Sessions, store.Tasks),
		hub,
	)
	v1.Register(router.Group("/api/v1"), v1Handler)
}
