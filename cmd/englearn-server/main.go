package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"connectrpc.com/connect"
	"github.com/spf13/cobra"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/at-ishikawa/englearn/internal/bootstrap"
	"github.com/at-ishikawa/englearn/internal/catalog"
	"github.com/at-ishikawa/englearn/internal/config"
	"github.com/at-ishikawa/englearn/internal/inference"
	"github.com/at-ishikawa/englearn/internal/inference/openai"
	"github.com/at-ishikawa/englearn/internal/progress"
	"github.com/at-ishikawa/englearn/internal/server"
	"github.com/at-ishikawa/englearn/internal/storage"
)

var configFile string

func main() {
	rootCmd := &cobra.Command{
		Use:           "englearn-server",
		Short:         "English learning service HTTP server",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context())
		},
	}
	rootCmd.Flags().StringVar(&configFile, "config", "", "config file path")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	app := bootstrap.New()
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loadConfig() > %w", err)
	}

	s, err := storage.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("storage.Open() > %w", err)
	}
	app.AddShutdownHook("storage", func(context.Context) error {
		return s.Close()
	})

	cat, err := catalog.Load(cfg.Catalog.WordsDirectory, cfg.Catalog.LessonsFile, time.Now())
	if err != nil {
		return fmt.Errorf("catalog.Load() > %w", err)
	}

	var grammar inference.Client
	if cfg.OpenAI.APIKey != "" {
		client := openai.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model, inference.DefaultMaxRetryAttempts)
		app.AddShutdownHook("openai", func(context.Context) error {
			return client.Close()
		})
		grammar = client
	} else {
		logger.Warn("OPENAI_API_KEY is not set, writing practice is disabled")
	}

	handler, err := server.NewLearningHandler(cfg, cat, progress.NewRepository(s.Store), grammar)
	if err != nil {
		return fmt.Errorf("server.NewLearningHandler() > %w", err)
	}
	path, h := handler.Routes(connect.WithInterceptors(server.NewLoggingInterceptor(logger)))

	mux := http.NewServeMux()
	mux.Handle(path, h)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           server.CORSMiddleware(h2c.NewHandler(mux, &http2.Server{}), cfg.Server.CORS.AllowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}
	app.AddShutdownHook("http server", srv.Shutdown)

	return app.Run(ctx, func(ctx context.Context) error {
		logger.Info("starting server", "addr", srv.Addr, "words", len(cat.Words), "lessons", len(cat.Lessons))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
}

func loadConfig() (*config.Config, error) {
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("config.NewConfigLoader() > %w", err)
	}
	return loader.Load()
}
