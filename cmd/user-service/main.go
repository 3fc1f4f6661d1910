// Command user-service serves the user directory, the login state machine
// and bearer token issuance.
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
	"github.com/postblog/platform/internal/infrastructure/crypto"
	"github.com/postblog/platform/internal/infrastructure/db/gormdb"
	mongodb "github.com/postblog/platform/internal/infrastructure/db/mongo"
	redisdb "github.com/postblog/platform/internal/infrastructure/db/redis"
	"github.com/postblog/platform/internal/infrastructure/server"
	"github.com/postblog/platform/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		boot := logger.Bootstrap("user-service")
		boot.Fatal().Err(err).Msg("failed to load config")
	}

	log := logger.Init(logger.Options{
		Service: "user-service",
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
	})

	if cfg.Auth.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET is required")
	}

	db, err := gormdb.Open(gormdb.Config{Driver: cfg.DB.Driver, DSN: cfg.DB.DSN, Debug: cfg.DB.Debug}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	if err := gormdb.MigrateUserSchema(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate user schema")
	}
	health := []handler.Pinger{gormdb.Pinger{DB: db}}

	var events ports.SessionEventRepository
	if cfg.Mongo.URI != "" {
		client, mdb, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database, AppName: "user-service"})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to mongo")
		}
		defer func() { _ = client.Disconnect(context.Background()) }()
		if err := mongodb.EnsureIndexes(ctx, mdb); err != nil {
			log.Fatal().Err(err).Msg("failed to create mongo indexes")
		}
		events = mongodb.NewSessionEventRepository(mdb)
		health = append(health, mongodb.Pinger{Client: client})
		log.Info().Str("database", cfg.Mongo.Database).Msg("session event log enabled")
	}

	var denylist ports.TokenDenylist
	if cfg.Redis.Addr != "" {
		rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer rdb.Close()
		denylist = redisdb.NewTokenDenylist(rdb)
		health = append(health, redisdb.Pinger{Client: rdb})
		log.Info().Str("addr", cfg.Redis.Addr).Msg("token deny-list enabled")
	}

	users := gormdb.NewUserRepository(db)
	hasher := crypto.NewBcryptHasher(cfg.Auth.BcryptCost)

	e := api.NewUserRouter(api.Options{Service: "user_service", Logger: log, Health: health}, api.UserDeps{
		Users:         service.NewUserService(users, gormdb.NewRoleRepository(db), hasher, log),
		Sessions:      service.NewSessionService(users, hasher, events, log),
		Authenticator: service.NewAuthService(users, hasher, log),
		Tokens:        service.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.JWTTTL, denylist, log),
	})

	if err := server.Serve(ctx, e, cfg.Port, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
