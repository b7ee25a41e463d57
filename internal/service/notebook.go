package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_notebook_service.go -package=mocks -mock_names=NotebookService=MockNotebookService portfolio-ai/internal/service NotebookService

import (
	"context"
	"fmt"
	"sync"
	"time"

	"portfolio-ai/internal/contextutil"
	"portfolio-ai/internal/library"
	"portfolio-ai/internal/notebook"
)

// DefaultViewerIdleTTL is how long an unused viewer stays registered.
const DefaultViewerIdleTTL = 10 * time.Minute

// maxViewerIDLength bounds client supplied viewer ids.
const maxViewerIDLength = 128

// NotebookService shows notebook references.
type NotebookService interface {
	// View loads ref. With an empty viewerID a throwaway viewer is used;
	// otherwise the named long-lived viewer is reused, and a call whose
	// reference was replaced by a newer call returns ErrSuperseded.
	View(ctx context.Context, viewerID, ref string) (notebook.State, error)
	// Retry fetches ref again even if the viewer already settled on it.
	Retry(ctx context.Context, viewerID, ref string) (notebook.State, error)
	// Catalog lists the notebooks available under the local root.
	Catalog(ctx context.Context) ([]library.Entry, error)
	// CloseViewer cancels and forgets a viewer.
	CloseViewer(viewerID string) error
}

type viewerEntry struct {
	viewer   *notebook.Viewer
	lastUsed time.Time
}

// notebookService implements NotebookService.
type notebookService struct {
	fetcher notebook.Fetcher
	root    string
	ttl     time.Duration
	now     func() time.Time

	mu      sync.Mutex
	viewers map[string]*viewerEntry
}

// NewNotebookService creates a NotebookService. root is the local notebook
// directory listed by Catalog; ttl <= 0 selects DefaultViewerIdleTTL.
func NewNotebookService(fetcher notebook.Fetcher, root string, ttl time.Duration) NotebookService {
	if ttl <= 0 {
		ttl = DefaultViewerIdleTTL
	}
	return &notebookService{
		fetcher: fetcher,
		root:    root,
		ttl:     ttl,
		now:     time.Now,
		viewers: make(map[string]*viewerEntry),
	}
}

// View loads ref into the requested viewer.
func (s *notebookService) View(ctx context.Context, viewerID, ref string) (notebook.State, error) {
	return s.show(ctx, viewerID, ref, false)
}

// Retry reloads ref into the requested viewer.
func (s *notebookService) Retry(ctx context.Context, viewerID, ref string) (notebook.State, error) {
	return s.show(ctx, viewerID, ref, true)
}

func (s *notebookService) show(ctx context.Context, viewerID, ref string, retry bool) (notebook.State, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if ref == "" {
		return notebook.State{}, &ValidationError{Field: "ref", Message: "cannot be empty"}
	}
	if len(viewerID) > maxViewerIDLength {
		return notebook.State{}, &ValidationError{Field: "viewer", Message: "too long"}
	}

	var st notebook.State
	if viewerID == "" {
		v := notebook.NewViewer(s.fetcher, notebook.WithLogger(logger))
		st = v.Load(ctx, ref)
		v.Close()
	} else {
		v := s.viewer(viewerID)
		if retry && v.State().Ref == ref {
			st = v.Reload(ctx)
		} else {
			st = v.Load(ctx, ref)
		}
		s.touch(viewerID)
	}

	if err := ctx.Err(); err != nil {
		return st, fmt.Errorf("view %s: %w", ref, err)
	}
	if st.Ref != ref {
		logger.DebugContext(ctx, "notebook view superseded", "viewer", viewerID, "ref", ref, "current_ref", st.Ref)
		return st, fmt.Errorf("viewer %s: %w", viewerID, ErrSuperseded)
	}
	if st.Status == notebook.StatusFailed {
		logger.WarnContext(ctx, "notebook unavailable", "ref", ref, "reason", st.Reason.String(), "error", st.Err)
	}
	return st, nil
}

// viewer returns the registered viewer for id, creating it when needed, and
// evicts viewers that have been idle longer than the TTL.
func (s *notebookService) viewer(id string) *notebook.Viewer {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for key, e := range s.viewers {
		if key != id && now.Sub(e.lastUsed) > s.ttl {
			e.viewer.Close()
			delete(s.viewers, key)
		}
	}

	e, ok := s.viewers[id]
	if !ok {
		e = &viewerEntry{viewer: notebook.NewViewer(s.fetcher,
			notebook.WithContextLogger(contextutil.LoggerFromContext),
		)}
		s.viewers[id] = e
	}
	e.lastUsed = now
	return e.viewer
}

func (s *notebookService) touch(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.viewers[id]; ok {
		e.lastUsed = s.now()
	}
}

// Catalog lists the local notebooks.
func (s *notebookService) Catalog(ctx context.Context) ([]library.Entry, error) {
	if s.root == "" {
		return nil, nil
	}
	entries, err := library.Scan(ctx, s.root)
	if err != nil {
		return nil, WrapError(err, "failed to scan notebooks")
	}
	return entries, nil
}

// CloseViewer closes the viewer registered under id.
func (s *notebookService) CloseViewer(viewerID string) error {
	s.mu.Lock()
	e, ok := s.viewers[viewerID]
	delete(s.viewers, viewerID)
	s.mu.Unlock()

	if !ok {
		return WrapError(ErrNotFound, "viewer "+viewerID)
	}
	e.viewer.Close()
	return nil
}
