package handlers

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"portfolio-ai/internal/contextutil"
	"portfolio-ai/internal/present"
	"portfolio-ai/internal/service"
)

// ProjectHandler serves the portfolio, its projects and the landing page.
type ProjectHandler struct {
	projects service.ProjectService
	renderer *present.Renderer
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(projects service.ProjectService, renderer *present.Renderer) *ProjectHandler {
	return &ProjectHandler{
		projects: projects,
		renderer: renderer,
	}
}

// Home handles GET /.
func (h *ProjectHandler) Home(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	var buf bytes.Buffer
	if err := h.renderer.RenderHome(&buf, h.projects.Portfolio()); err != nil {
		logger.ErrorContext(ctx, "failed to render home page", "error", err)
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// Profile handles GET /api/profile.
func (h *ProjectHandler) Profile(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, h.projects.Portfolio())
}

// List handles GET /api/projects.
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, h.projects.List(r.Context()))
}

// Get handles GET /api/projects/{id}.
func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid project id")
		return
	}
	project, err := h.projects.Get(ctx, id)
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to load project")
		return
	}
	writeJSON(ctx, w, http.StatusOK, project)
}

// GitHub handles GET /api/github/projects?user=.
func (h *ProjectHandler) GitHub(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	projects, err := h.projects.GitHubProjects(ctx, r.URL.Query().Get("user"))
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to load GitHub projects")
		return
	}
	writeJSON(ctx, w, http.StatusOK, projects)
}
