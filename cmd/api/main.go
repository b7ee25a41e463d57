package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/multierr"

	"portfolio-ai/internal/config"
	"portfolio-ai/internal/contextutil"
	"portfolio-ai/internal/github"
	"portfolio-ai/internal/handlers"
	"portfolio-ai/internal/http"
	"portfolio-ai/internal/knowledge"
	"portfolio-ai/internal/llm"
	"portfolio-ai/internal/notebook"
	"portfolio-ai/internal/portfolio"
	"portfolio-ai/internal/present"
	"portfolio-ai/internal/service"
	"portfolio-ai/internal/storage"
	"portfolio-ai/internal/vectorstore"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Configure structured logging with configurable level and format
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == config.LogFormatJSON {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = contextutil.WithLogger(ctx, logger)

	if err := run(ctx, cfg); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func run(ctx context.Context, cfg *config.Config) (err error) {
	var closers []func() error
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			err = multierr.Append(err, closers[i]())
		}
	}()

	// Initialize database
	db, err := storage.New(cfg.DBPath)
	if err != nil {
		return err
	}
	closers = append(closers, db.Close)

	if err := storage.Migrate(db); err != nil {
		return err
	}
	slog.Info("Database initialized", "path", cfg.DBPath)

	data, err := portfolio.Load(cfg.PortfolioDataPath)
	if err != nil {
		return err
	}
	slog.Info("Portfolio loaded", "projects", len(data.Projects), "override", cfg.PortfolioDataPath != "")

	llmClient, err := newLLMClient(ctx, cfg)
	if err != nil {
		return err
	}

	checks := map[string]handlers.Check{
		"database": db.PingContext,
	}

	// Retrieval is optional; without it the chat context is the whole portfolio.
	var (
		retriever knowledge.Retriever
		reindexer handlers.Reindexer
	)
	if cfg.RetrievalEnabled() {
		store, err := vectorstore.NewQdrantStore(cfg.QdrantURL)
		if err != nil {
			return err
		}
		closers = append(closers, store.Close)

		if err := store.EnsureCollection(ctx, cfg.QdrantCollection, cfg.QdrantVectorSize); err != nil {
			return err
		}
		slog.Info("Qdrant collection ready", "collection", cfg.QdrantCollection, "vector_size", cfg.QdrantVectorSize)

		embedder := llm.NewEmbeddingsClient(cfg.EmbeddingBaseURL, cfg.LLMAPIKey, cfg.EmbeddingModelName, cfg.QdrantVectorSize)
		index := knowledge.NewIndex(embedder, store, cfg.QdrantCollection)
		retriever, reindexer = index, index
		checks["vectorstore"] = store.Health

		// Build in background; chat falls back to the full context until it finishes.
		go func() {
			slog.Info("Starting background knowledge indexing")
			if err := index.Build(ctx, data.Sections()); err != nil {
				slog.Error("Knowledge indexing failed", "error", err)
			}
		}()
	}

	chatService := service.NewChatService(
		llmClient,
		knowledge.NewContextBuilder(data, retriever, cfg.RetrievalK),
		storage.NewConversationRepo(db),
		storage.NewMessageRepo(db),
		service.ChatConfig{
			Params: llm.ChatParams{
				MaxTokens:   cfg.ChatMaxTokens,
				Temperature: llm.Temperature(float32(cfg.ChatTemperature)),
			},
			HistoryLimit:  service.DefaultHistoryLimit,
			Greeting:      data.Assistant.Greeting,
			FallbackError: data.Assistant.FallbackError,
			FallbackEmpty: data.Assistant.FallbackEmpty,
		},
	)

	fetcher := &notebook.RouteFetcher{
		Remote: notebook.NewHTTPFetcher(cfg.NotebookFetchTimeout),
		Local:  notebook.NewDirFetcher(os.DirFS(cfg.NotebookDir)),
	}
	notebookService := service.NewNotebookService(fetcher, cfg.NotebookDir, cfg.ViewerIdleTTL)

	gh := github.NewClient(cfg.GitHubAPIURL,
		github.WithRawURL(cfg.GitHubRawURL),
		github.WithToken(cfg.GitHubToken),
	)
	projectService := service.NewProjectService(data, gh, cfg.GitHubUsername)

	deps := &http.Deps{
		ChatService:     chatService,
		NotebookService: notebookService,
		ProjectService:  projectService,
		Renderer:        present.New(),
		HealthChecks:    checks,
		Index:           reindexer,
		NotebookDir:     cfg.NotebookDir,
	}

	srv := &nethttp.Server{
		Addr:              ":" + cfg.APIPort,
		Handler:           http.NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Starting API server", "addr", srv.Addr, "llm_provider", cfg.LLMProvider, "retrieval", cfg.RetrievalEnabled())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down API server")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newLLMClient(ctx context.Context, cfg *config.Config) (service.LLMClient, error) {
	if cfg.LLMProvider == config.ProviderOpenAI {
		slog.Debug("LLM configuration", "base_url", cfg.LLMBaseURL, "model", cfg.LLMModelName)
		return llm.NewClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModelName), nil
	}
	slog.Debug("LLM configuration", "provider", config.ProviderGemini, "model", cfg.GeminiModel)
	return llm.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
}
