package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/chainscribe/concord/internal/config"
	"github.com/chainscribe/concord/internal/semantic"
	"github.com/chainscribe/concord/internal/server"
	"github.com/chainscribe/concord/internal/store"
)

func main() {
	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if err := godotenv.Load(); err != nil {
		log.Info("no .env file found, using environment as-is")
	}

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config/config.toml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Warn("config file not loaded, using defaults", zap.String("path", cfgPath), zap.Error(err))
	}

	ctx := context.Background()

	gen, embedder, err := semantic.NewClient(ctx, cfg.Semantic)
	if err != nil {
		log.Fatal("semantic client init failed", zap.Error(err))
	}
	if gen == nil {
		log.Info("no semantic provider configured, running lexical-only")
	}

	var st store.GraphStore
	if cfg.Memgraph.URI != "" {
		mg, err := store.NewMemgraphStore(cfg.Memgraph.URI, cfg.Memgraph.User, cfg.Memgraph.Password, log)
		if err != nil {
			log.Fatal("memgraph connection failed", zap.Error(err))
		}
		defer mg.Close(ctx)
		if err := mg.BuildIndices(ctx); err != nil {
			log.Warn("index build failed", zap.Error(err))
		}
		st = mg
	} else {
		log.Info("no memgraph URI configured, graph storage disabled")
	}

	srv := server.New(cfg, st, gen, embedder, log)
	r := srv.SetupRouter()

	log.Info("starting server", zap.String("port", cfg.Server.Port))
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
