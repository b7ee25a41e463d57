package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_llm_client.go -package=mocks portfolio-ai/internal/service LLMClient
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_context_builder.go -package=mocks portfolio-ai/internal/service ContextBuilder
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_chat_service.go -package=mocks -mock_names=ChatService=MockChatService portfolio-ai/internal/service ChatService

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"portfolio-ai/internal/contextutil"
	"portfolio-ai/internal/llm"
	"portfolio-ai/internal/storage"
)

// MaxMessageLength is the longest visitor message accepted, in runes.
const MaxMessageLength = 2000

// DefaultHistoryLimit is how many stored turns are replayed to the LLM.
const DefaultHistoryLimit = 10

// LLMClient is an interface for interacting with an LLM API.
// This interface is defined from the service layer's perspective (consumer-first).
type LLMClient interface {
	// Chat sends the conversation to the LLM and returns the reply.
	Chat(ctx context.Context, messages []llm.Message, params llm.ChatParams) (string, error)
	// StreamChat sends the conversation to the LLM and streams the reply via callback.
	StreamChat(ctx context.Context, messages []llm.Message, params llm.ChatParams, callback func(chunk string) error) error
}

// ContextBuilder produces the system context for a visitor question.
type ContextBuilder interface {
	Build(ctx context.Context, question string) string
}

// ChatRequest represents a chat request in the domain layer.
// An empty ConversationID starts a new conversation.
type ChatRequest struct {
	ConversationID string
	Message        string
}

// ChatResponse represents a chat response in the domain layer.
type ChatResponse struct {
	ConversationID string
	Reply          string
	// Fallback is set when Reply is a canned text because the LLM failed or
	// returned nothing.
	Fallback bool
}

// Conversation is a freshly started chat session.
type Conversation struct {
	ID        string
	Greeting  string
	CreatedAt time.Time
}

// Turn is one stored message of a conversation.
type Turn struct {
	Role      string
	Text      string
	CreatedAt time.Time
}

// ChatConfig holds the assistant settings of the chat service.
type ChatConfig struct {
	Params        llm.ChatParams
	HistoryLimit  int
	Greeting      string
	FallbackError string
	FallbackEmpty string
}

// ChatService provides chat functionality.
type ChatService interface {
	// StartConversation creates a conversation and stores the greeting.
	StartConversation(ctx context.Context) (Conversation, error)
	// ProcessChat processes a chat request and returns a response.
	ProcessChat(ctx context.Context, req ChatRequest) (ChatResponse, error)
	// StreamChat processes a chat request and streams the response via callback.
	StreamChat(ctx context.Context, req ChatRequest, callback func(chunk string) error) (ChatResponse, error)
	// History returns the stored turns of a conversation, oldest first.
	History(ctx context.Context, conversationID string) ([]Turn, error)
}

// chatService implements ChatService.
type chatService struct {
	llmClient     LLMClient
	contexts      ContextBuilder
	conversations storage.ConversationStore
	messages      storage.MessageStore
	cfg           ChatConfig
}

// NewChatService creates a new ChatService.
func NewChatService(llmClient LLMClient, contexts ContextBuilder, conversations storage.ConversationStore, messages storage.MessageStore, cfg ChatConfig) ChatService {
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = DefaultHistoryLimit
	}
	return &chatService{
		llmClient:     llmClient,
		contexts:      contexts,
		conversations: conversations,
		messages:      messages,
		cfg:           cfg,
	}
}

// StartConversation creates a conversation and stores the greeting as its
// first assistant turn.
func (s *chatService) StartConversation(ctx context.Context) (Conversation, error) {
	logger := contextutil.LoggerFromContext(ctx)

	conv, err := s.conversations.Create(ctx, uuid.NewString())
	if err != nil {
		logger.ErrorContext(ctx, "failed to create conversation", "error", err)
		return Conversation{}, WrapError(err, "failed to create conversation")
	}
	if s.cfg.Greeting != "" {
		if _, err := s.messages.Append(ctx, conv.ID, storage.RoleAssistant, s.cfg.Greeting); err != nil {
			return Conversation{}, WrapError(err, "failed to store greeting")
		}
	}

	logger.InfoContext(ctx, "conversation started", "conversation_id", conv.ID)
	return Conversation{ID: conv.ID, Greeting: s.cfg.Greeting, CreatedAt: conv.CreatedAt}, nil
}

// ProcessChat processes a chat request.
func (s *chatService) ProcessChat(ctx context.Context, req ChatRequest) (ChatResponse, error) {
	logger := contextutil.LoggerFromContext(ctx)

	convID, messages, err := s.prepare(ctx, req)
	if err != nil {
		return ChatResponse{}, err
	}

	resp := ChatResponse{ConversationID: convID}
	reply, err := s.llmClient.Chat(ctx, messages, s.cfg.Params)
	switch {
	case err != nil:
		logger.ErrorContext(ctx, "failed to get LLM response", "conversation_id", convID, "error", err)
		resp.Reply, resp.Fallback = s.cfg.FallbackError, true
	case strings.TrimSpace(reply) == "":
		logger.WarnContext(ctx, "LLM returned an empty reply", "conversation_id", convID)
		resp.Reply, resp.Fallback = s.cfg.FallbackEmpty, true
	default:
		resp.Reply = reply
	}

	if err := s.store(ctx, convID, resp.Reply); err != nil {
		return ChatResponse{}, err
	}

	logger.InfoContext(ctx, "chat request processed successfully",
		"conversation_id", convID,
		"message_length", utf8.RuneCountInString(req.Message),
		"reply_length", len(resp.Reply),
		"fallback", resp.Fallback,
	)
	return resp, nil
}

// StreamChat processes a chat request and streams the response. When the LLM
// fails before producing anything, the fallback text is streamed instead.
func (s *chatService) StreamChat(ctx context.Context, req ChatRequest, callback func(chunk string) error) (ChatResponse, error) {
	logger := contextutil.LoggerFromContext(ctx)

	convID, messages, err := s.prepare(ctx, req)
	if err != nil {
		return ChatResponse{}, err
	}

	var (
		reply       strings.Builder
		callbackErr error
	)
	err = s.llmClient.StreamChat(ctx, messages, s.cfg.Params, func(chunk string) error {
		if err := callback(chunk); err != nil {
			callbackErr = err
			return err
		}
		reply.WriteString(chunk)
		return nil
	})
	if callbackErr != nil {
		logger.WarnContext(ctx, "stream consumer stopped", "conversation_id", convID, "error", callbackErr)
		return ChatResponse{}, callbackErr
	}

	resp := ChatResponse{ConversationID: convID, Reply: reply.String()}
	if err != nil {
		logger.ErrorContext(ctx, "failed to stream LLM response", "conversation_id", convID, "error", err)
	}
	if strings.TrimSpace(resp.Reply) == "" {
		resp.Fallback = true
		resp.Reply = s.cfg.FallbackEmpty
		if err != nil {
			resp.Reply = s.cfg.FallbackError
		}
		if err := callback(resp.Reply); err != nil {
			return ChatResponse{}, err
		}
	}

	if err := s.store(ctx, convID, resp.Reply); err != nil {
		return ChatResponse{}, err
	}

	logger.InfoContext(ctx, "streaming chat request processed successfully",
		"conversation_id", convID,
		"message_length", utf8.RuneCountInString(req.Message),
		"fallback", resp.Fallback,
	)
	return resp, nil
}

// History returns the stored turns of a conversation.
func (s *chatService) History(ctx context.Context, conversationID string) ([]Turn, error) {
	if _, err := s.conversation(ctx, conversationID); err != nil {
		return nil, err
	}
	stored, err := s.messages.List(ctx, conversationID)
	if err != nil {
		return nil, WrapError(err, "failed to list messages")
	}
	turns := make([]Turn, 0, len(stored))
	for _, m := range stored {
		turns = append(turns, Turn{Role: m.Role, Text: m.Text, CreatedAt: m.CreatedAt})
	}
	return turns, nil
}

// prepare validates the request, resolves the conversation, stores the
// visitor message and assembles the LLM input.
func (s *chatService) prepare(ctx context.Context, req ChatRequest) (string, []llm.Message, error) {
	logger := contextutil.LoggerFromContext(ctx)

	// Business validation
	if err := validateMessage(req.Message); err != nil {
		logger.WarnContext(ctx, "invalid chat request", "error", err)
		return "", nil, err
	}

	convID := req.ConversationID
	if convID == "" {
		conv, err := s.StartConversation(ctx)
		if err != nil {
			return "", nil, err
		}
		convID = conv.ID
	} else if _, err := s.conversation(ctx, convID); err != nil {
		return "", nil, err
	}

	history, err := s.messages.Recent(ctx, convID, s.cfg.HistoryLimit)
	if err != nil {
		return "", nil, WrapError(err, "failed to load history")
	}

	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: s.contexts.Build(ctx, req.Message)})
	messages = append(messages, historyMessages(history)...)
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: req.Message})

	if _, err := s.messages.Append(ctx, convID, storage.RoleUser, req.Message); err != nil {
		return "", nil, WrapError(err, "failed to store message")
	}
	return convID, messages, nil
}

func (s *chatService) store(ctx context.Context, convID, reply string) error {
	if _, err := s.messages.Append(ctx, convID, storage.RoleAssistant, reply); err != nil {
		return WrapError(err, "failed to store reply")
	}
	return nil
}

func (s *chatService) conversation(ctx context.Context, id string) (storage.Conversation, error) {
	conv, err := s.conversations.Get(ctx, id)
	if errors.Is(err, storage.ErrConversationNotFound) {
		return storage.Conversation{}, WrapError(ErrNotFound, "conversation "+id)
	}
	if err != nil {
		return storage.Conversation{}, WrapError(err, "failed to load conversation")
	}
	return conv, nil
}

func validateMessage(msg string) error {
	if strings.TrimSpace(msg) == "" {
		return &ValidationError{Field: "message", Message: "cannot be empty"}
	}
	if utf8.RuneCountInString(msg) > MaxMessageLength {
		return &ValidationError{Field: "message", Message: "exceeds 2000 characters"}
	}
	return nil
}

// historyMessages maps stored turns to LLM messages. Leading assistant turns
// (the greeting) are dropped so the exchange opens with the visitor.
func historyMessages(history []storage.Message) []llm.Message {
	start := 0
	for start < len(history) && history[start].Role == storage.RoleAssistant {
		start++
	}
	out := make([]llm.Message, 0, len(history)-start)
	for _, m := range history[start:] {
		role := llm.RoleUser
		if m.Role == storage.RoleAssistant {
			role = llm.RoleAssistant
		}
		out = append(out, llm.Message{Role: role, Content: m.Text})
	}
	return out
}
