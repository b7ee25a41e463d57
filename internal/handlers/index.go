package handlers

import (
	"context"
	"errors"
	"net/http"

	"portfolio-ai/internal/contextutil"
	"portfolio-ai/internal/knowledge"
	"portfolio-ai/internal/portfolio"
)

// Reindexer rebuilds the retrieval index.
type Reindexer interface {
	Build(ctx context.Context, sections []portfolio.Section) error
	Building() bool
}

// IndexHandler handles HTTP requests for rebuilding the knowledge index.
type IndexHandler struct {
	index     Reindexer
	portfolio *portfolio.Portfolio
	// done is signalled after each background build; used by tests.
	done func()
}

// NewIndexHandler creates a new IndexHandler. A nil index disables the endpoint.
func NewIndexHandler(index Reindexer, p *portfolio.Portfolio) *IndexHandler {
	return &IndexHandler{
		index:     index,
		portfolio: p,
	}
}

// IndexResponse represents the response from the index endpoint.
type IndexResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}

// ServeHTTP handles POST /api/knowledge/reindex.
func (h *IndexHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	if h.index == nil {
		writeError(w, http.StatusNotFound, "Retrieval is not enabled")
		return
	}
	if h.index.Building() {
		writeError(w, http.StatusConflict, "Indexing already in progress")
		return
	}

	logger.InfoContext(ctx, "re-indexing triggered via API")

	// Use a detached context so indexing continues after the response is sent.
	buildCtx := contextutil.WithLogger(context.WithoutCancel(ctx), logger)
	sections := h.portfolio.Sections()
	go func() {
		if h.done != nil {
			defer h.done()
		}
		err := h.index.Build(buildCtx, sections)
		switch {
		case errors.Is(err, knowledge.ErrBuildInProgress):
			logger.InfoContext(buildCtx, "re-indexing skipped, another build is running")
		case err != nil:
			logger.ErrorContext(buildCtx, "re-indexing failed", "error", err)
		default:
			logger.InfoContext(buildCtx, "re-indexing completed successfully", "sections", len(sections))
		}
	}()

	writeJSON(ctx, w, http.StatusAccepted, IndexResponse{
		Message: "Indexing started. Check server logs for progress.",
		Status:  "accepted",
	})
}
