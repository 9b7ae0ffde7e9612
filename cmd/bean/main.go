package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"bean/internal/config"
	"bean/internal/handler"
	"bean/internal/metric"
	"bean/internal/repositories"
	"bean/internal/service"
	"bean/internal/tasklist"
	"bean/migrations"
)

func main() {

	// Init Metrics
	metric.InitMetrics()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	store, closeStore, err := openStore(cfg.Storage)
	if err != nil {
		log.Fatalf("unable to open %s store: %v", cfg.Storage.Backend, err)
	}
	defer closeStore()

	// Load persisted tasks; unparsable lines are skipped and reported
	list := tasklist.New(store)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	diags, err := list.Load(ctx)
	cancel()
	if err != nil {
		log.Fatalf("unable to load tasks: %v", err)
	}
	for _, d := range diags {
		log.Printf("warning: %s", d)
	}
	metric.AddSkippedLines(tasklist.SkippedLines(diags))
	metric.SetTasksCount(list.Size())
	log.Printf("loaded %d tasks from %s store", list.Size(), store.Backend())

	svc := service.NewTaskService(list)
	h := handler.NewTaskHandler(svc)

	// Gin router setup
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(metric.PrometheusMiddleware())

	// Health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// Prometheus metrics
	r.GET("/metrics", gin.WrapH(metric.PromhttpHandler()))

	// API v1
	h.Register(r.Group("/api/v1"))

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Printf("starting server on %s", addr)
	if err := r.Run(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server exited: %v", err)
	}
}

// openStore builds the configured TaskStore and a func releasing its connections.
func openStore(sc config.StorageConfig) (repositories.TaskStore, func(), error) {
	switch sc.Backend {
	case config.BackendPostgres:
		db, err := sqlx.Connect("postgres", sc.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		// Ensure schema (migration-lite)
		if err := migrations.EnsureSchema(db); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("failed to ensure schema: %w", err)
		}
		return repositories.NewSQLStore(db), func() { db.Close() }, nil

	case config.BackendRedis:
		rdb := redis.NewClient(&redis.Options{Addr: sc.RedisAddr})
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := rdb.Ping(ctx).Err(); err != nil {
			rdb.Close()
			return nil, nil, fmt.Errorf("redis not available at %s: %w", sc.RedisAddr, err)
		}
		log.Printf("redis store enabled (addr=%s key=%s)", sc.RedisAddr, sc.RedisKey)
		return repositories.NewRedisStore(rdb, sc.RedisKey), func() { rdb.Close() }, nil

	default:
		fs, err := repositories.NewFileStore(sc.DataFile)
		if err != nil {
			return nil, nil, err
		}
		return fs, func() {}, nil
	}
}
