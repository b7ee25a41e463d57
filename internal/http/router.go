package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"portfolio-ai/internal/handlers"
	"portfolio-ai/internal/present"
	"portfolio-ai/internal/service"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	ChatService     service.ChatService
	NotebookService service.NotebookService
	ProjectService  service.ProjectService
	Renderer        *present.Renderer
	// HealthChecks are run by GET /api/health.
	HealthChecks map[string]handlers.Check
	// Index is nil when retrieval is disabled.
	Index handlers.Reindexer
	// NotebookDir is served under /notebooks/ when set.
	NotebookDir string
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestID)
	r.Use(LoggerMiddleware)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(CORS)

	renderer := deps.Renderer
	if renderer == nil {
		renderer = present.New()
	}

	chatHandler := handlers.NewChatHandler(deps.ChatService)
	conversationHandler := handlers.NewConversationHandler(deps.ChatService)
	notebookHandler := handlers.NewNotebookHandler(deps.NotebookService, deps.ProjectService, renderer)
	projectHandler := handlers.NewProjectHandler(deps.ProjectService, renderer)
	healthHandler := handlers.NewHealthHandler(deps.HealthChecks)
	indexHandler := handlers.NewIndexHandler(deps.Index, deps.ProjectService.Portfolio())

	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodGet, "/health", healthHandler)
		r.Get("/profile", projectHandler.Profile)

		r.Method(http.MethodPost, "/chat", chatHandler)
		r.Post("/conversations", conversationHandler.Start)
		r.Get("/conversations/{id}/messages", conversationHandler.Messages)

		r.Get("/notebooks", notebookHandler.JSON)
		r.Get("/notebooks/catalog", notebookHandler.Catalog)
		r.Delete("/viewers/{id}", notebookHandler.CloseViewer)

		r.Get("/projects", projectHandler.List)
		r.Get("/projects/{id}", projectHandler.Get)
		r.Get("/github/projects", projectHandler.GitHub)

		r.Method(http.MethodPost, "/knowledge/reindex", indexHandler)
	})

	r.Get("/", projectHandler.Home)
	r.Get("/view/notebook", notebookHandler.Page)
	r.Get("/view/projects/{id}/notebook", notebookHandler.ProjectPage)
	r.Get("/view/github/{owner}/{repo}/notebook", notebookHandler.GitHubPage)

	if deps.NotebookDir != "" {
		r.Handle("/notebooks/*", http.FileServer(http.Dir(deps.NotebookDir)))
	}

	return r
}
