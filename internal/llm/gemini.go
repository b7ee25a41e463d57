package llm

import (
	"context"
	"fmt"
	"net/http"

	"google.golang.org/genai"
)

// DefaultGeminiModel is used when no model is configured.
const DefaultGeminiModel = "gemini-2.5-flash"

// GeminiClient is a chat client backed by the Gemini API.
type GeminiClient struct {
	client *genai.Client
	Model  string
}

// GeminiOption configures a GeminiClient.
type GeminiOption func(*genai.ClientConfig)

// WithGeminiBaseURL points the client at a different API host.
func WithGeminiBaseURL(baseURL string) GeminiOption {
	return func(cfg *genai.ClientConfig) {
		cfg.HTTPOptions.BaseURL = baseURL
	}
}

// WithGeminiHTTPClient replaces the HTTP client used for API calls.
func WithGeminiHTTPClient(hc *http.Client) GeminiOption {
	return func(cfg *genai.ClientConfig) {
		cfg.HTTPClient = hc
	}
}

// NewGeminiClient creates a new Gemini chat client.
func NewGeminiClient(ctx context.Context, apiKey, model string, opts ...GeminiOption) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if model == "" {
		model = DefaultGeminiModel
	}

	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &GeminiClient{client: client, Model: model}, nil
}

// Chat sends the conversation and returns the generated text. System
// messages become the system instruction.
func (c *GeminiClient) Chat(ctx context.Context, messages []Message, params ChatParams) (string, error) {
	model, contents, config, err := c.request(messages, params)
	if err != nil {
		return "", err
	}

	resp, err := c.client.Models.GenerateContent(ctx, model, contents, config)
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}
	return resp.Text(), nil
}

// StreamChat streams generated text, calling callback for each non-empty chunk.
func (c *GeminiClient) StreamChat(ctx context.Context, messages []Message, params ChatParams, callback func(chunk string) error) error {
	model, contents, config, err := c.request(messages, params)
	if err != nil {
		return err
	}

	for resp, err := range c.client.Models.GenerateContentStream(ctx, model, contents, config) {
		if err != nil {
			return fmt.Errorf("gemini stream content: %w", err)
		}
		chunk := resp.Text()
		if chunk == "" {
			continue
		}
		if err := callback(chunk); err != nil {
			return fmt.Errorf("callback error: %w", err)
		}
	}
	return nil
}

func (c *GeminiClient) request(messages []Message, params ChatParams) (string, []*genai.Content, *genai.GenerateContentConfig, error) {
	system, turns := SplitSystem(messages)
	if len(turns) == 0 {
		return "", nil, nil, ErrEmptyMessages
	}

	model := params.Model
	if model == "" {
		model = c.Model
	}
	return model, toGeminiContents(turns), generateConfig(system, params), nil
}

func toGeminiContents(turns []Message) []*genai.Content {
	contents := make([]*genai.Content, 0, len(turns))
	for _, m := range turns {
		role := genai.RoleUser
		if m.Role == RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(m.Content, genai.Role(role)))
	}
	return contents
}

func generateConfig(system string, params ChatParams) *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{
		MaxOutputTokens: int32(params.MaxTokens),
		Temperature:     params.Temperature,
	}
	if system != "" {
		config.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}
	return config
}
