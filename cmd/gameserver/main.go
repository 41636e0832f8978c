// Package main provides the game server binary: the HTTP/JSON API, the
// websocket command channel, and the static client.
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/wisperwind/internal/auth"
	"github.com/cory-johannsen/wisperwind/internal/config"
	"github.com/cory-johannsen/wisperwind/internal/game/character"
	"github.com/cory-johannsen/wisperwind/internal/game/combat"
	"github.com/cory-johannsen/wisperwind/internal/game/dice"
	"github.com/cory-johannsen/wisperwind/internal/game/refdata"
	"github.com/cory-johannsen/wisperwind/internal/gameserver"
	"github.com/cory-johannsen/wisperwind/internal/observability"
	"github.com/cory-johannsen/wisperwind/internal/server"
	"github.com/cory-johannsen/wisperwind/internal/storage/jsonfile"
	"github.com/cory-johannsen/wisperwind/internal/storage/postgres"
	"github.com/cory-johannsen/wisperwind/internal/web"
)

const dbHealthInterval = 30 * time.Second

// stores bundles the account and character stores of one backend.
type stores struct {
	accounts auth.AccountStore
	chars    gameserver.CharacterStore
}

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("starting game server",
		zap.String("addr", cfg.Server.Addr()),
		zap.String("storage", cfg.Storage.Backend),
	)

	refStart := time.Now()
	ref, err := refdata.Load(cfg.Content.Dir)
	if err != nil {
		logger.Fatal("loading reference data", zap.Error(err))
	}
	logger.Info("reference data loaded",
		zap.String("dir", cfg.Content.Dir),
		zap.Int("monsters", ref.MonsterCount()),
		zap.Int("items", ref.ItemCount()),
		zap.Int("recipes", len(ref.Recipes())),
		zap.Duration("elapsed", time.Since(refStart)),
	)

	lifecycle := server.NewLifecycle(logger)

	var st stores
	switch cfg.Storage.Backend {
	case config.BackendPostgres:
		dbStart := time.Now()
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			logger.Fatal("connecting to database", zap.Error(err))
		}
		logger.Info("database connected",
			zap.String("host", cfg.Database.Host),
			zap.Duration("elapsed", time.Since(dbStart)),
		)
		st = stores{
			accounts: postgres.NewAccountRepository(pool.DB()),
			chars:    postgres.NewCharacterRepository(pool.DB()),
		}
		done := make(chan struct{})
		lifecycle.Add("postgres", &server.FuncService{
			StartFn: func() error {
				ticker := time.NewTicker(dbHealthInterval)
				defer ticker.Stop()
				for {
					select {
					case <-done:
						return nil
					case <-ticker.C:
						if err := pool.Health(ctx, 5*time.Second); err != nil {
							logger.Warn("database health check failed", zap.Error(err))
						}
					}
				}
			},
			StopFn: func() {
				close(done)
				pool.Close()
			},
		})
	default:
		store, err := jsonfile.Open(cfg.Storage.JSONPath)
		if err != nil {
			logger.Fatal("opening player file", zap.String("path", cfg.Storage.JSONPath), zap.Error(err))
		}
		logger.Info("player file opened", zap.String("path", cfg.Storage.JSONPath))
		st = stores{accounts: store, chars: store}
		lifecycle.Add("players-file", server.NewCloserService(func() {
			if err := store.Close(); err != nil {
				logger.Warn("closing player file", zap.Error(err))
			}
		}))
	}

	roller := dice.NewLoggedRoller(dice.NewCryptoSource(), logger)
	tokens := auth.NewTokens(cfg.Auth.TokenSecret, cfg.Auth.TokenTTL)
	authSvc := auth.NewService(st.accounts, auth.NewHasher(cfg.Auth.BcryptCost), tokens, logger)

	game, err := gameserver.NewService(st.chars, ref, combat.NewManager(), roller, gameserver.Options{
		Start:          character.Position{X: cfg.Game.StartX, Y: cfg.Game.StartY},
		PersistRetries: cfg.Game.PersistRetries,
		PersistBackoff: cfg.Game.PersistBackoff,
	}, logger)
	if err != nil {
		logger.Fatal("creating game service", zap.Error(err))
	}

	api := web.NewServer(authSvc, game, auth.BearerResolver{Tokens: tokens}, web.Config{
		StaticDir: cfg.Server.StaticDir,
	}, logger)
	httpServer := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      observability.RequestLogger(logger, api.Routes()),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	lifecycle.Add("http", server.NewHTTPService(httpServer, cfg.Server.ShutdownTimeout))

	logger.Info("game server initialized",
		zap.Duration("startup", time.Since(start)),
		zap.String("addr", cfg.Server.Addr()),
	)

	if err := lifecycle.Run(ctx); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}
