package main

import (
	"context"
	"database/sql"
	"os"
	"strconv"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/ducktaek/kitaekshoppingmall/internal/cart"
	"github.com/ducktaek/kitaekshoppingmall/internal/session"
	"github.com/ducktaek/kitaekshoppingmall/internal/storefront"
	"github.com/ducktaek/kitaekshoppingmall/pkg/kit"
)

func main() {
	service := "storefront"
	log := kit.NewLogger(service)
	defer func() { _ = log.Sync() }()

	port := getenv("PORT", "8080")
	sessionSecret := getenv("SESSION_SECRET", "dev-secret")

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())

	storage, watchDir := buildStorage(log)
	store := cart.NewStore(storage, cart.NewMetrics(reg))

	if watchDir != "" {
		w, err := cart.NewWatcher(store, watchDir, log)
		if err != nil {
			log.Fatal("cart watcher", zap.Error(err))
		}
		w.Start()
		defer w.Stop()
	}

	h := storefront.NewHandler(storefront.Deps{
		Log:      log,
		Service:  service,
		Registry: reg,

		Store:    store,
		Sessions: session.NewTokenMaker(sessionSecret),

		MetricsEnabled: getenv("METRICS_ENABLED", "") == "true",
		MetricsToken:   getenv("METRICS_TOKEN", ""),

		RateLimit:     getenvInt("RATE_LIMIT", 60),
		RateWindowSec: getenvInt("RATE_WINDOW_SEC", 60),
	})

	if err := kit.RunHTTPServer(":"+port, h, log); err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}

// buildStorage picks the cart storage backend: Postgres when
// DATABASE_URL is set, a watched file directory when CART_FILE_DIR is
// set, in-memory otherwise. The returned dir is empty unless the file
// backend is in use.
func buildStorage(log *zap.Logger) (cart.Storage, string) {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		db, err := sql.Open("pgx", url)
		if err != nil {
			log.Fatal("open database", zap.Error(err))
		}

		pg := cart.NewPostgresStorage(db)
		if err := pg.EnsureSchema(context.Background()); err != nil {
			log.Fatal("ensure cart schema", zap.Error(err))
		}

		log.Info("cart storage: postgres")
		return pg, ""
	}

	if dir := os.Getenv("CART_FILE_DIR"); dir != "" {
		fs, err := cart.NewFileStorage(dir)
		if err != nil {
			log.Fatal("open cart file storage", zap.Error(err), zap.String("dir", dir))
		}

		log.Info("cart storage: file", zap.String("dir", dir))
		return fs, dir
	}

	log.Info("cart storage: memory")
	return cart.NewMemStorage(), ""
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvInt(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
