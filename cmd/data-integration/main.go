// Command data-integration is the gateway in front of the user and post
// services.
//
//	@title						Postblog API
//	@version					1.0
//	@description				Data-integration gateway in front of the user and post services.
//	@BasePath					/
//	@securityDefinitions.basic	BasicAuth
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sony/gobreaker"

	_ "github.com/postblog/platform/docs"
	"github.com/postblog/platform/internal/api"
	"github.com/postblog/platform/internal/api/metrics"
	"github.com/postblog/platform/internal/infrastructure/config"
	"github.com/postblog/platform/internal/infrastructure/server"
	"github.com/postblog/platform/internal/infrastructure/upstream"
	"github.com/postblog/platform/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		boot := logger.Bootstrap("data-integration")
		boot.Fatal().Err(err).Msg("failed to load config")
	}

	log := logger.Init(logger.Options{
		Service: "data-integration",
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
	})

	onStateChange := func(name string, _, to gobreaker.State) {
		metrics.CircuitBreakerState.WithLabelValues(name).Set(float64(to))
	}

	users := upstream.New(upstream.Config{
		Name:          "user-service",
		BaseURL:       cfg.Upstream.UserServiceURL,
		Timeout:       cfg.Upstream.Timeout,
		OnStateChange: onStateChange,
	}, log)
	posts := upstream.New(upstream.Config{
		Name:          "post-service",
		BaseURL:       cfg.Upstream.PostServiceURL,
		Timeout:       cfg.Upstream.Timeout,
		OnStateChange: onStateChange,
	}, log)

	for _, name := range []string{users.Name(), posts.Name()} {
		metrics.CircuitBreakerState.WithLabelValues(name).Set(float64(gobreaker.StateClosed))
	}

	e := api.NewGatewayRouter(api.Options{Service: "gateway", Logger: log}, api.GatewayDeps{
		Users: users,
		Posts: posts,
	})

	if err := server.Serve(ctx, e, cfg.Port, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
