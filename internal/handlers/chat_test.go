package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/mock/gomock"

	"portfolio-ai/internal/service"
	"portfolio-ai/internal/service/mocks"
)

func init() {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// withURLParams attaches chi route parameters to a request.
func withURLParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestChatHandler_ServeHTTP(t *testing.T) {
	ctrl := gomock.NewController(t)

	tests := []struct {
		name          string
		method        string
		body          any
		mockSetup     func(*mocks.MockChatService)
		wantStatus    int
		checkResponse func(*httptest.ResponseRecorder) bool
	}{
		{
			name:   "successful POST request",
			method: http.MethodPost,
			body: ChatRequest{
				ConversationID: "c1",
				Message:        "Hello",
			},
			mockSetup: func(m *mocks.MockChatService) {
				m.EXPECT().
					ProcessChat(gomock.Any(), service.ChatRequest{ConversationID: "c1", Message: "Hello"}).
					Return(service.ChatResponse{ConversationID: "c1", Reply: "Hi there!"}, nil)
			},
			wantStatus: http.StatusOK,
			checkResponse: func(w *httptest.ResponseRecorder) bool {
				var resp ChatResponse
				if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
					return false
				}
				return resp.Reply == "Hi there!" && resp.ConversationID == "c1" && !resp.Fallback
			},
		},
		{
			name:   "fallback reply",
			method: http.MethodPost,
			body:   ChatRequest{Message: "Hello"},
			mockSetup: func(m *mocks.MockChatService) {
				m.EXPECT().
					ProcessChat(gomock.Any(), gomock.Any()).
					Return(service.ChatResponse{ConversationID: "c2", Reply: "Sorry", Fallback: true}, nil)
			},
			wantStatus: http.StatusOK,
			checkResponse: func(w *httptest.ResponseRecorder) bool {
				return strings.Contains(w.Body.String(), `"fallback":true`)
			},
		},
		{
			name:       "method not allowed",
			method:     http.MethodGet,
			mockSetup:  func(m *mocks.MockChatService) {},
			wantStatus: http.StatusMethodNotAllowed,
		},
		{
			name:       "invalid JSON body",
			method:     http.MethodPost,
			body:       "invalid json",
			mockSetup:  func(m *mocks.MockChatService) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:   "validation error",
			method: http.MethodPost,
			body:   ChatRequest{Message: ""},
			mockSetup: func(m *mocks.MockChatService) {
				m.EXPECT().
					ProcessChat(gomock.Any(), service.ChatRequest{Message: ""}).
					Return(service.ChatResponse{}, &service.ValidationError{Field: "message", Message: "cannot be empty"})
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:   "service error",
			method: http.MethodPost,
			body:   ChatRequest{Message: "Hello"},
			mockSetup: func(m *mocks.MockChatService) {
				m.EXPECT().
					ProcessChat(gomock.Any(), gomock.Any()).
					Return(service.ChatResponse{}, errors.New("service error"))
			},
			wantStatus: http.StatusInternalServerError,
		},
		{
			name:   "unknown conversation",
			method: http.MethodPost,
			body:   ChatRequest{ConversationID: "missing", Message: "Hello"},
			mockSetup: func(m *mocks.MockChatService) {
				m.EXPECT().
					ProcessChat(gomock.Any(), gomock.Any()).
					Return(service.ChatResponse{}, service.WrapError(service.ErrNotFound, "conversation missing"))
			},
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockChatService := mocks.NewMockChatService(ctrl)
			tt.mockSetup(mockChatService)

			handler := NewChatHandler(mockChatService)

			var bodyBytes []byte
			if s, ok := tt.body.(string); ok {
				bodyBytes = []byte(s)
			} else if tt.body != nil {
				bodyBytes, _ = json.Marshal(tt.body)
			}

			req := httptest.NewRequest(tt.method, "/api/chat", bytes.NewBuffer(bodyBytes))
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("ServeHTTP() status = %v, want %v", w.Code, tt.wantStatus)
			}
			if tt.checkResponse != nil && !tt.checkResponse(w) {
				t.Errorf("ServeHTTP() response validation failed: %s", w.Body.String())
			}
		})
	}
}

func TestChatHandler_handleStreamingChat(t *testing.T) {
	ctrl := gomock.NewController(t)

	streamChunks := func(chunks ...string) func(context.Context, service.ChatRequest, func(string) error) (service.ChatResponse, error) {
		return func(ctx context.Context, req service.ChatRequest, callback func(chunk string) error) (service.ChatResponse, error) {
			for _, chunk := range chunks {
				if err := callback(chunk); err != nil {
					return service.ChatResponse{}, err
				}
			}
			return service.ChatResponse{ConversationID: "c1", Reply: strings.Join(chunks, "")}, nil
		}
	}

	tests := []struct {
		name       string
		body       any
		mockSetup  func(*mocks.MockChatService)
		wantStatus int
		contains   []string
	}{
		{
			name: "successful streaming",
			body: ChatRequest{Message: "Hello"},
			mockSetup: func(m *mocks.MockChatService) {
				m.EXPECT().
					StreamChat(gomock.Any(), service.ChatRequest{Message: "Hello"}, gomock.Any()).
					DoAndReturn(streamChunks("Hello", " ", "world"))
			},
			wantStatus: http.StatusOK,
			contains: []string{
				"data: Hello\n\n",
				"data: world\n\n",
				"event: done\ndata: {\"conversation_id\":\"c1\",\"reply\":\"\"}\n\n",
				"data: [DONE]\n\n",
			},
		},
		{
			name: "multi-line chunk",
			body: ChatRequest{Message: "Hello"},
			mockSetup: func(m *mocks.MockChatService) {
				m.EXPECT().
					StreamChat(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(streamChunks("line one\nline two"))
			},
			wantStatus: http.StatusOK,
			contains:   []string{"data: line one\ndata: line two\n\n"},
		},
		{
			name:       "invalid JSON body",
			body:       "invalid json",
			mockSetup:  func(m *mocks.MockChatService) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "validation error before stream starts",
			body: ChatRequest{Message: ""},
			mockSetup: func(m *mocks.MockChatService) {
				m.EXPECT().
					StreamChat(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(service.ChatResponse{}, &service.ValidationError{Field: "message", Message: "cannot be empty"})
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "error after stream started",
			body: ChatRequest{Message: "Hello"},
			mockSetup: func(m *mocks.MockChatService) {
				m.EXPECT().
					StreamChat(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(ctx context.Context, req service.ChatRequest, callback func(chunk string) error) (service.ChatResponse, error) {
						_ = callback("partial")
						return service.ChatResponse{}, errors.New("storage failed")
					})
			},
			wantStatus: http.StatusOK, // SSE sends error in stream, not HTTP status
			contains:   []string{"data: partial\n\n", "event: error\n"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockChatService := mocks.NewMockChatService(ctrl)
			tt.mockSetup(mockChatService)

			handler := NewChatHandler(mockChatService)

			var bodyBytes []byte
			if s, ok := tt.body.(string); ok {
				bodyBytes = []byte(s)
			} else {
				bodyBytes, _ = json.Marshal(tt.body)
			}
			req := httptest.NewRequest(http.MethodPost, "/api/chat?stream=true", bytes.NewBuffer(bodyBytes))
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("handleStreamingChat() status = %v, want %v", w.Code, tt.wantStatus)
			}
			if len(tt.contains) > 0 && w.Header().Get("Content-Type") != "text/event-stream" {
				t.Error("handleStreamingChat() missing Content-Type header")
			}
			for _, want := range tt.contains {
				if !strings.Contains(w.Body.String(), want) {
					t.Errorf("handleStreamingChat() body = %q, want containing %q", w.Body.String(), want)
				}
			}
		})
	}
}

func TestConversationHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	created := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	t.Run("start", func(t *testing.T) {
		m := mocks.NewMockChatService(ctrl)
		m.EXPECT().StartConversation(gomock.Any()).
			Return(service.Conversation{ID: "c1", Greeting: "Hi!", CreatedAt: created}, nil)

		w := httptest.NewRecorder()
		NewConversationHandler(m).Start(w, httptest.NewRequest(http.MethodPost, "/api/conversations", nil))

		if w.Code != http.StatusCreated {
			t.Fatalf("Start() status = %v, want 201", w.Code)
		}
		var resp ConversationResponse
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatal(err)
		}
		if resp.ID != "c1" || resp.Greeting != "Hi!" || !resp.CreatedAt.Equal(created) {
			t.Errorf("Start() = %+v", resp)
		}
	})

	t.Run("messages", func(t *testing.T) {
		m := mocks.NewMockChatService(ctrl)
		m.EXPECT().History(gomock.Any(), "c1").Return([]service.Turn{
			{Role: "assistant", Text: "Hi!", CreatedAt: created},
			{Role: "user", Text: "Hello", CreatedAt: created},
		}, nil)

		w := httptest.NewRecorder()
		req := withURLParams(httptest.NewRequest(http.MethodGet, "/api/conversations/c1/messages", nil), map[string]string{"id": "c1"})
		NewConversationHandler(m).Messages(w, req)

		var resp []TurnResponse
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatal(err)
		}
		if len(resp) != 2 || resp[1].Text != "Hello" {
			t.Errorf("Messages() = %+v", resp)
		}
	})

	t.Run("messages of unknown conversation", func(t *testing.T) {
		m := mocks.NewMockChatService(ctrl)
		m.EXPECT().History(gomock.Any(), "nope").Return(nil, service.ErrNotFound)

		w := httptest.NewRecorder()
		req := withURLParams(httptest.NewRequest(http.MethodGet, "/api/conversations/nope/messages", nil), map[string]string{"id": "nope"})
		NewConversationHandler(m).Messages(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("Messages() status = %v, want 404", w.Code)
		}
	})
}

func TestWriteError(t *testing.T) {
	w := httptest.NewRecorder()

	writeError(w, http.StatusBadRequest, "test error")

	if w.Code != http.StatusBadRequest {
		t.Errorf("writeError() status = %v, want %v", w.Code, http.StatusBadRequest)
	}

	var resp ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("writeError() invalid JSON: %v", err)
	}
	if resp.Error != "test error" {
		t.Errorf("writeError() error = %v, want test error", resp.Error)
	}
}

func TestServiceErrorStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "validation", err: &service.ValidationError{Field: "ref"}, want: http.StatusBadRequest},
		{name: "invalid input", err: service.ErrInvalidInput, want: http.StatusBadRequest},
		{name: "not found", err: service.WrapError(service.ErrNotFound, "project 9"), want: http.StatusNotFound},
		{name: "superseded", err: service.ErrSuperseded, want: http.StatusConflict},
		{name: "external", err: service.ErrExternalService, want: http.StatusBadGateway},
		{name: "other", err: errors.New("boom"), want: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got, _ := serviceErrorStatus(tt.err, "default"); got != tt.want {
				t.Errorf("serviceErrorStatus() = %v, want %v", got, tt.want)
			}
		})
	}
}
