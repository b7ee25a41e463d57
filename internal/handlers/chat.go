package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"portfolio-ai/internal/contextutil"
	"portfolio-ai/internal/service"
)

// ChatHandler handles HTTP requests for chat.
type ChatHandler struct {
	chatService service.ChatService
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(chatService service.ChatService) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
	}
}

// ChatRequest represents the HTTP request payload for chat.
type ChatRequest struct {
	ConversationID string `json:"conversation_id,omitempty"`
	Message        string `json:"message"`
}

// ChatResponse represents the HTTP response payload for chat.
type ChatResponse struct {
	ConversationID string `json:"conversation_id"`
	Reply          string `json:"reply"`
	Fallback       bool   `json:"fallback,omitempty"`
}

// ServeHTTP handles HTTP requests for chat.
func (h *ChatHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	svcReq := service.ChatRequest{
		ConversationID: req.ConversationID,
		Message:        req.Message,
	}

	if r.URL.Query().Get("stream") == "true" {
		h.handleStreamingChat(w, r, svcReq)
		return
	}

	svcResp, err := h.chatService.ProcessChat(ctx, svcReq)
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to process chat request")
		return
	}

	writeJSON(ctx, w, http.StatusOK, ChatResponse{
		ConversationID: svcResp.ConversationID,
		Reply:          svcResp.Reply,
		Fallback:       svcResp.Fallback,
	})
}

// handleStreamingChat handles streaming chat requests using Server-Sent Events.
// Validation failures are reported as JSON before the stream starts.
func (h *ChatHandler) handleStreamingChat(w http.ResponseWriter, r *http.Request, req service.ChatRequest) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	flusher, ok := w.(http.Flusher)
	if !ok {
		logger.ErrorContext(ctx, "streaming not supported by response writer")
		writeError(w, http.StatusInternalServerError, "Streaming not supported")
		return
	}

	started := false
	start := func() {
		if started {
			return
		}
		started = true
		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)
	}

	resp, err := h.chatService.StreamChat(ctx, req, func(chunk string) error {
		start()
		if err := writeEvent(w, "", chunk); err != nil {
			return err
		}
		flusher.Flush()
		return nil
	})
	if err != nil {
		if !started {
			handleServiceError(ctx, w, err, "Failed to process chat request")
			return
		}
		logger.ErrorContext(ctx, "error streaming chat", "error", err)
		payload, _ := json.Marshal(ErrorResponse{Error: "stream interrupted"})
		_ = writeEvent(w, "error", string(payload))
		flusher.Flush()
		return
	}

	start()
	done, _ := json.Marshal(ChatResponse{ConversationID: resp.ConversationID, Fallback: resp.Fallback})
	_ = writeEvent(w, "done", string(done))
	_, _ = fmt.Fprint(w, "data: [DONE]\n\n")
	flusher.Flush()
}

// writeEvent writes one SSE event. Every line of data gets its own data field
// so chunks containing newlines survive the framing.
func writeEvent(w http.ResponseWriter, event, data string) error {
	var b strings.Builder
	if event != "" {
		b.WriteString("event: " + event + "\n")
	}
	for _, line := range strings.Split(data, "\n") {
		b.WriteString("data: " + line + "\n")
	}
	b.WriteString("\n")
	_, err := fmt.Fprint(w, b.String())
	return err
}

// ConversationHandler handles conversation lifecycle requests.
type ConversationHandler struct {
	chatService service.ChatService
}

// NewConversationHandler creates a new ConversationHandler.
func NewConversationHandler(chatService service.ChatService) *ConversationHandler {
	return &ConversationHandler{chatService: chatService}
}

// ConversationResponse is returned when a conversation starts.
type ConversationResponse struct {
	ID        string    `json:"id"`
	Greeting  string    `json:"greeting"`
	CreatedAt time.Time `json:"created_at"`
}

// TurnResponse is one message of a transcript.
type TurnResponse struct {
	Role      string    `json:"role"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// Start handles POST /api/conversations.
func (h *ConversationHandler) Start(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	conv, err := h.chatService.StartConversation(ctx)
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to start conversation")
		return
	}
	writeJSON(ctx, w, http.StatusCreated, ConversationResponse{
		ID:        conv.ID,
		Greeting:  conv.Greeting,
		CreatedAt: conv.CreatedAt,
	})
}

// Messages handles GET /api/conversations/{id}/messages.
func (h *ConversationHandler) Messages(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	turns, err := h.chatService.History(ctx, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to load conversation")
		return
	}

	resp := make([]TurnResponse, 0, len(turns))
	for _, t := range turns {
		resp = append(resp, TurnResponse{Role: t.Role, Text: t.Text, CreatedAt: t.CreatedAt})
	}
	writeJSON(ctx, w, http.StatusOK, resp)
}
