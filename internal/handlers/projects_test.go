package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/mock/gomock"

	"portfolio-ai/internal/portfolio"
	"portfolio-ai/internal/present"
	"portfolio-ai/internal/service"
	"portfolio-ai/internal/service/mocks"
)

func TestProjectHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	data := &portfolio.Portfolio{
		Profile:  portfolio.Profile{Name: "Ada", Role: "Engineer"},
		Projects: []portfolio.Project{{ID: 1, Title: "CycleGAN", NotebookPath: "/notebooks/cyclegan.ipynb"}},
	}

	tests := []struct {
		name       string
		target     string
		params     map[string]string
		serve      func(h *ProjectHandler) http.HandlerFunc
		mockSetup  func(m *mocks.MockProjectService)
		wantStatus int
		contains   string
	}{
		{
			name:   "home",
			target: "/",
			serve:  func(h *ProjectHandler) http.HandlerFunc { return h.Home },
			mockSetup: func(m *mocks.MockProjectService) {
				m.EXPECT().Portfolio().Return(data)
			},
			wantStatus: http.StatusOK,
			contains:   `href="/view/projects/1/notebook"`,
		},
		{
			name:   "profile",
			target: "/api/profile",
			serve:  func(h *ProjectHandler) http.HandlerFunc { return h.Profile },
			mockSetup: func(m *mocks.MockProjectService) {
				m.EXPECT().Portfolio().Return(data)
			},
			wantStatus: http.StatusOK,
			contains:   `"name":"Ada"`,
		},
		{
			name:   "list",
			target: "/api/projects",
			serve:  func(h *ProjectHandler) http.HandlerFunc { return h.List },
			mockSetup: func(m *mocks.MockProjectService) {
				m.EXPECT().List(gomock.Any()).Return(data.Projects)
			},
			wantStatus: http.StatusOK,
			contains:   `"notebook_path":"/notebooks/cyclegan.ipynb"`,
		},
		{
			name:   "get",
			target: "/api/projects/1",
			params: map[string]string{"id": "1"},
			serve:  func(h *ProjectHandler) http.HandlerFunc { return h.Get },
			mockSetup: func(m *mocks.MockProjectService) {
				m.EXPECT().Get(gomock.Any(), 1).Return(data.Projects[0], nil)
			},
			wantStatus: http.StatusOK,
			contains:   `"title":"CycleGAN"`,
		},
		{
			name:   "get unknown",
			target: "/api/projects/7",
			params: map[string]string{"id": "7"},
			serve:  func(h *ProjectHandler) http.HandlerFunc { return h.Get },
			mockSetup: func(m *mocks.MockProjectService) {
				m.EXPECT().Get(gomock.Any(), 7).Return(portfolio.Project{}, service.ErrNotFound)
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "get invalid id",
			target:     "/api/projects/x",
			params:     map[string]string{"id": "x"},
			serve:      func(h *ProjectHandler) http.HandlerFunc { return h.Get },
			mockSetup:  func(m *mocks.MockProjectService) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:   "github",
			target: "/api/github/projects?user=grace",
			serve:  func(h *ProjectHandler) http.HandlerFunc { return h.GitHub },
			mockSetup: func(m *mocks.MockProjectService) {
				m.EXPECT().GitHubProjects(gomock.Any(), "grace").Return([]portfolio.Project{}, nil)
			},
			wantStatus: http.StatusOK,
			contains:   "[]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := mocks.NewMockProjectService(ctrl)
			tt.mockSetup(m)
			h := NewProjectHandler(m, present.New())

			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			if tt.params != nil {
				req = withURLParams(req, tt.params)
			}
			w := httptest.NewRecorder()
			tt.serve(h)(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %v, want %v: %s", w.Code, tt.wantStatus, w.Body.String())
			}
			if tt.contains != "" && !strings.Contains(w.Body.String(), tt.contains) {
				t.Errorf("body = %s, want containing %q", w.Body.String(), tt.contains)
			}
			if tt.wantStatus >= http.StatusBadRequest {
				var resp ErrorResponse
				if err := json.NewDecoder(w.Body).Decode(&resp); err != nil || resp.Error == "" {
					t.Errorf("error body = %v, %v", resp, err)
				}
			}
		})
	}
}
