package cli

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"practice-quiz-service/internal/app"
	"practice-quiz-service/internal/config"
	"practice-quiz-service/internal/infra/memory"
	pgstore "practice-quiz-service/internal/infra/postgres"
	redisstore "practice-quiz-service/internal/infra/redis"
	"practice-quiz-service/internal/infra/sqlite"
	transport "practice-quiz-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

// stores holds the backends picked from config plus whatever must be closed on exit.
type stores struct {
	collection app.CollectionStore
	sessions   app.SessionRepository
	closers    []func()
}

func (s *stores) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

func buildStores(ctx context.Context, cfg config.Config) (*stores, error) {
	out := &stores{}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		out.closers = append(out.closers, func() { redisClient.Close() })
	}

	var backing app.CollectionStore
	switch backend := cfg.Backend(); backend {
	case config.BackendPostgres:
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			out.Close()
			return nil, err
		}
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			out.Close()
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		out.closers = append(out.closers, pool.Close)
		backing = pgstore.NewCollectionStore(pool)
	case config.BackendRedis:
		if redisClient == nil {
			out.Close()
			return nil, fmt.Errorf("redis backend selected but redis.addr is empty")
		}
		backing = redisstore.NewCollectionStore(redisClient)
	case config.BackendSQLite:
		db, err := sqlite.Open(ctx, cfg.SQLite.Path)
		if err != nil {
			out.Close()
			return nil, err
		}
		out.closers = append(out.closers, func() { db.Close() })
		backing = sqlite.NewCollectionStore(db)
	default:
		backing = memory.NewCollectionStore()
	}
	log.Printf("quiz collection backend: %s", cfg.Backend())

	quizTTL := config.TTLDuration(cfg.Quiz.TTL, 10*time.Minute)
	out.collection = memory.NewCachedCollection(backing, quizTTL)

	if redisClient != nil {
		out.sessions = redisstore.NewSessionStore(redisClient, config.TTLDuration(cfg.Redis.TTL, 10*time.Minute))
	} else {
		out.sessions = memory.NewExpiringSessionStore(config.TTLDuration(cfg.Quiz.SessionTTL, 30*time.Minute))
	}
	return out, nil
}

func newPlayService(cfg config.Config, st *stores) *app.PlayService {
	return app.NewPlayService(st.collection, st.sessions, app.Settings{
		RevealMode:       cfg.RevealMode(),
		ShuffleQuestions: cfg.Quiz.ShuffleQuestions,
		ShuffleOptions:   cfg.Quiz.ShuffleOptions,
	})
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	st, err := buildStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	service := newPlayService(cfg, st)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      transport.NewRouter(service),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting quiz service on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
