// Command econify-server wires a normalization HTTP server together:
// config from the environment, a Redis-backed FX cache in front of an
// HTTP live source with a Postgres fallback, and gin routes over it.
// Modeled on the teacher's cmd/grid-service entry point.
package main

import (
	"database/sql"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tellimer/econify/autotarget"
	"github.com/tellimer/econify/fxsource"
	"github.com/tellimer/econify/httpapi"
	"github.com/tellimer/econify/internal/obslog"
	"github.com/tellimer/econify/orchestrator"
	"github.com/tellimer/econify/quality"
)

type config struct {
	ListenAddr    string
	RedisAddr     string
	PostgresDSN   string
	LiveSourceURL string
	BaseCurrency  string
}

func loadConfig() config {
	cfg := config{
		ListenAddr:    envOr("ECONIFY_LISTEN_ADDR", ":8080"),
		RedisAddr:     envOr("ECONIFY_REDIS_ADDR", "localhost:6379"),
		PostgresDSN:   envOr("ECONIFY_POSTGRES_DSN", ""),
		LiveSourceURL: envOr("ECONIFY_FX_LIVE_URL", "https://api.exchangerate.example/latest"),
		BaseCurrency:  envOr("ECONIFY_BASE_CURRENCY", "USD"),
	}
	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	logger := obslog.New(os.Stdout)
	cfg := loadConfig()

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	tier2 := fxsource.NewRedisCache(redisClient, "")

	live := fxsource.NewHTTPLiveSource(cfg.LiveSourceURL, &http.Client{Timeout: 5 * time.Second})

	var fallback fxsource.RateProvider
	if cfg.PostgresDSN != "" {
		db, err := sql.Open("postgres", cfg.PostgresDSN)
		if err != nil {
			logger.Error("failed to open postgres connection", map[string]any{"error": err.Error()})
		} else if pg, err := fxsource.NewPostgresFallbackSource(db, 3*time.Second); err != nil {
			logger.Error("failed to prepare postgres fallback source", map[string]any{"error": err.Error()})
		} else {
			fallback = pg
		}
	}

	fxSource := fxsource.NewSource(live, fallback, tier2, fxsource.DefaultConfig())

	opts := orchestrator.Options{
		AutoTargetConfig: autotarget.DefaultConfig(),
		QualityConfig:    quality.Config{DetectScaleOutliers: true},
		ExplainOn:        true,
		FX:               fxSource,
		BaseCurrency:     cfg.BaseCurrency,
		OnWarning: func(msg string) {
			logger.Warn(msg, nil)
		},
	}

	server := httpapi.NewServer(opts)

	logger.Info("starting econify-server", map[string]any{"addr": cfg.ListenAddr})
	if err := server.Engine.Run(cfg.ListenAddr); err != nil {
		logger.Error("server exited", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
}
