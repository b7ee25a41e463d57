package handlers

import (
	"bytes"
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"portfolio-ai/internal/contextutil"
	"portfolio-ai/internal/library"
	"portfolio-ai/internal/notebook"
	"portfolio-ai/internal/present"
	"portfolio-ai/internal/service"
)

// NotebookHandler serves notebook references as HTML pages and JSON.
type NotebookHandler struct {
	notebooks service.NotebookService
	projects  service.ProjectService
	renderer  *present.Renderer
}

// NewNotebookHandler creates a new NotebookHandler.
func NewNotebookHandler(notebooks service.NotebookService, projects service.ProjectService, renderer *present.Renderer) *NotebookHandler {
	return &NotebookHandler{
		notebooks: notebooks,
		projects:  projects,
		renderer:  renderer,
	}
}

// BlockResponse is one render block in a notebook response.
type BlockResponse struct {
	notebook.Block
	HTML template.HTML `json:"html,omitempty"`
}

// NotebookResponse is the JSON form of a viewer state.
type NotebookResponse struct {
	Ref     string          `json:"ref"`
	Viewer  string          `json:"viewer,omitempty"`
	Status  notebook.Status `json:"status"`
	Reason  notebook.Reason `json:"reason,omitempty"`
	Message string          `json:"message,omitempty"`
	Blocks  []BlockResponse `json:"blocks"`
}

// stateStatus is the HTTP status reported for a viewer state.
func stateStatus(st notebook.State) int {
	switch st.Status {
	case notebook.StatusReady:
		return http.StatusOK
	case notebook.StatusFailed:
		if st.Reason == notebook.ReasonFormat {
			return http.StatusUnprocessableEntity
		}
		return http.StatusBadGateway
	default:
		return http.StatusAccepted
	}
}

func (h *NotebookHandler) load(r *http.Request, ref string) (notebook.State, error) {
	q := r.URL.Query()
	viewer := q.Get("viewer")
	if q.Get("retry") == "1" || q.Get("retry") == "true" {
		return h.notebooks.Retry(r.Context(), viewer, ref)
	}
	return h.notebooks.View(r.Context(), viewer, ref)
}

// JSON handles GET /api/notebooks?ref=&viewer=[&html=true].
func (h *NotebookHandler) JSON(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)
	ref := r.URL.Query().Get("ref")

	st, err := h.load(r, ref)
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to load notebook")
		return
	}

	withHTML := r.URL.Query().Get("html") == "true"
	resp := NotebookResponse{
		Ref:     st.Ref,
		Viewer:  r.URL.Query().Get("viewer"),
		Status:  st.Status,
		Reason:  st.Reason,
		Message: st.Message(),
		Blocks:  []BlockResponse{},
	}
	for b := range st.Blocks() {
		block := BlockResponse{Block: b}
		if withHTML {
			html, err := h.renderer.RenderBlock(b)
			if err != nil {
				logger.ErrorContext(ctx, "failed to render block", "ref", ref, "cell", b.Cell, "error", err)
				writeError(w, http.StatusInternalServerError, "Failed to render notebook")
				return
			}
			block.HTML = html
		}
		resp.Blocks = append(resp.Blocks, block)
	}

	writeJSON(ctx, w, stateStatus(st), resp)
}

// Page handles GET /view/notebook?ref=&viewer=.
func (h *NotebookHandler) Page(w http.ResponseWriter, r *http.Request) {
	ref := r.URL.Query().Get("ref")
	h.page(w, r, ref, present.Page{Title: notebookTitle(ref), BackURL: "/"})
}

// ProjectPage handles GET /view/projects/{id}/notebook.
func (h *NotebookHandler) ProjectPage(w http.ResponseWriter, r *http.Request) {
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
	ref, err := h.projects.NotebookRef(ctx, id)
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to load project notebook")
		return
	}
	h.page(w, r, ref, present.Page{Title: project.Title, BackURL: "/"})
}

// GitHubPage handles GET /view/github/{owner}/{repo}/notebook[?branch=].
func (h *NotebookHandler) GitHubPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	owner, repo := chi.URLParam(r, "owner"), chi.URLParam(r, "repo")

	ref, err := h.projects.GitHubNotebookRef(ctx, owner, repo, r.URL.Query().Get("branch"))
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to find notebook")
		return
	}
	h.page(w, r, ref, present.Page{Title: owner + "/" + repo, BackURL: "/"})
}

func (h *NotebookHandler) page(w http.ResponseWriter, r *http.Request, ref string, page present.Page) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	st, err := h.load(r, ref)
	if err != nil {
		if errors.Is(err, service.ErrSuperseded) {
			http.Error(w, "This notebook was replaced by a newer request.", http.StatusConflict)
			return
		}
		status, msg := serviceErrorStatus(err, "Failed to load notebook")
		http.Error(w, msg, status)
		return
	}

	page.RetryURL = retryURL(r.URL)
	var buf bytes.Buffer
	if err := h.renderer.RenderState(&buf, st, page); err != nil {
		logger.ErrorContext(ctx, "failed to render notebook page", "ref", ref, "error", err)
		http.Error(w, "Failed to render notebook", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(stateStatus(st))
	if _, err := buf.WriteTo(w); err != nil {
		logger.WarnContext(ctx, "failed to write notebook page", "error", err)
	}
}

// Catalog handles GET /api/notebooks/catalog.
func (h *NotebookHandler) Catalog(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	entries, err := h.notebooks.Catalog(ctx)
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to list notebooks")
		return
	}
	if entries == nil {
		entries = []library.Entry{}
	}
	writeJSON(ctx, w, http.StatusOK, entries)
}

// CloseViewer handles DELETE /api/viewers/{id}.
func (h *NotebookHandler) CloseViewer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.notebooks.CloseViewer(chi.URLParam(r, "id")); err != nil {
		handleServiceError(ctx, w, err, "Failed to close viewer")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func retryURL(u *url.URL) string {
	q := u.Query()
	q.Set("retry", "1")
	return u.Path + "?" + q.Encode()
}

func notebookTitle(ref string) string {
	if i := strings.IndexAny(ref, "?#"); i >= 0 {
		ref = ref[:i]
	}
	base := strings.TrimSuffix(path.Base(ref), path.Ext(ref))
	if base == "" || base == "." || base == "/" {
		return "Notebook"
	}
	return base
}
