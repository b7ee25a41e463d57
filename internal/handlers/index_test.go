package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"portfolio-ai/internal/portfolio"
)

type fakeReindexer struct {
	mu       sync.Mutex
	building bool
	built    []portfolio.Section
}

func (f *fakeReindexer) Build(ctx context.Context, sections []portfolio.Section) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.built = sections
	return nil
}

func (f *fakeReindexer) Building() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.building
}

func TestIndexHandler_ServeHTTP(t *testing.T) {
	data := &portfolio.Portfolio{Profile: portfolio.Profile{Name: "Ada"}}

	t.Run("starts a build", func(t *testing.T) {
		idx := &fakeReindexer{}
		h := NewIndexHandler(idx, data)
		var wg sync.WaitGroup
		wg.Add(1)
		h.done = wg.Done

		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/knowledge/reindex", nil))
		wg.Wait()

		if w.Code != http.StatusAccepted {
			t.Errorf("ServeHTTP() status = %v, want 202", w.Code)
		}
		if len(idx.built) == 0 {
			t.Error("ServeHTTP() should build the index from the portfolio sections")
		}
	})

	tests := []struct {
		name       string
		method     string
		index      Reindexer
		wantStatus int
	}{
		{name: "disabled", method: http.MethodPost, index: nil, wantStatus: http.StatusNotFound},
		{name: "in progress", method: http.MethodPost, index: &fakeReindexer{building: true}, wantStatus: http.StatusConflict},
		{name: "method not allowed", method: http.MethodGet, index: &fakeReindexer{}, wantStatus: http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			NewIndexHandler(tt.index, data).ServeHTTP(w, httptest.NewRequest(tt.method, "/api/knowledge/reindex", nil))
			if w.Code != tt.wantStatus {
				t.Errorf("ServeHTTP() status = %v, want %v", w.Code, tt.wantStatus)
			}
		})
	}
}
