// Command post-service serves posts and their comments.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/postblog/platform/internal/api"
	"github.com/postblog/platform/internal/api/handler"
	"github.com/postblog/platform/internal/core/ports"
	"github.com/postblog/platform/internal/core/service"
	"github.com/postblog/platform/internal/infrastructure/config"
	"github.com/postblog/platform/internal/infrastructure/db/gormdb"
	redisdb "github.com/postblog/platform/internal/infrastructure/db/redis"
	"github.com/postblog/platform/internal/infrastructure/server"
	"github.com/postblog/platform/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		boot := logger.Bootstrap("post-service")
		boot.Fatal().Err(err).Msg("failed to load config")
	}

	log := logger.Init(logger.Options{
		Service: "post-service",
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
	})

	db, err := gormdb.Open(gormdb.Config{Driver: cfg.DB.Driver, DSN: cfg.DB.DSN, Debug: cfg.DB.Debug}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	if err := gormdb.MigratePostSchema(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate post schema")
	}
	health := []handler.Pinger{gormdb.Pinger{DB: db}}

	// Bearer tokens from the user service are optional here; when the shared
	// secret is configured they name the auditor of each write.
	var tokens ports.TokenService
	if cfg.Auth.JWTSecret != "" {
		var denylist ports.TokenDenylist
		if cfg.Redis.Addr != "" {
			rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
			if err != nil {
				log.Fatal().Err(err).Msg("failed to connect to redis")
			}
			defer rdb.Close()
			denylist = redisdb.NewTokenDenylist(rdb)
			health = append(health, redisdb.Pinger{Client: rdb})
		}
		tokens = service.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.JWTTTL, denylist, log)
	}

	posts := gormdb.NewPostRepository(db)

	e := api.NewPostRouter(api.Options{Service: "post_service", Logger: log, Health: health}, api.PostDeps{
		Posts:    service.NewPostService(posts, log),
		Comments: service.NewCommentService(gormdb.NewCommentRepository(db), posts, log),
		Tokens:   tokens,
	})

	if err := server.Serve(ctx, e, cfg.Port, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
