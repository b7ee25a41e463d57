package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"google.golang.org/genai"
)

func TestNewGeminiClient_RequiresKey(t *testing.T) {
	if _, err := NewGeminiClient(context.Background(), "", ""); err == nil {
		t.Error("NewGeminiClient() without key should fail")
	}
}

func TestGeminiClient_Chat(t *testing.T) {
	var body map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/models/test-model:generateContent") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&body)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"Hello from Gemini"}]},"finishReason":"STOP"}]}`))
	}))
	defer server.Close()

	client, err := NewGeminiClient(context.Background(), "test-key", "test-model",
		WithGeminiBaseURL(server.URL), WithGeminiHTTPClient(server.Client()))
	if err != nil {
		t.Fatalf("NewGeminiClient() error = %v", err)
	}

	reply, err := client.Chat(context.Background(), []Message{
		{Role: RoleSystem, Content: "resume context"},
		{Role: RoleUser, Content: "Who are you?"},
	}, ChatParams{MaxTokens: 300, Temperature: Temperature(0.7)})
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if reply != "Hello from Gemini" {
		t.Errorf("Chat() = %q", reply)
	}

	if _, ok := body["systemInstruction"]; !ok {
		t.Error("request should carry systemInstruction")
	}
	gen, _ := body["generationConfig"].(map[string]any)
	if gen["maxOutputTokens"] != float64(300) {
		t.Errorf("maxOutputTokens = %v, want 300", gen["maxOutputTokens"])
	}
}

func TestGeminiClient_Chat_NoTurns(t *testing.T) {
	client, err := NewGeminiClient(context.Background(), "test-key", "")
	if err != nil {
		t.Fatalf("NewGeminiClient() error = %v", err)
	}
	if client.Model != DefaultGeminiModel {
		t.Errorf("Model = %q, want %q", client.Model, DefaultGeminiModel)
	}
	if _, err := client.Chat(context.Background(), []Message{{Role: RoleSystem, Content: "x"}}, ChatParams{}); err != ErrEmptyMessages {
		t.Errorf("Chat() error = %v, want ErrEmptyMessages", err)
	}
}

func TestToGeminiContents(t *testing.T) {
	contents := toGeminiContents([]Message{
		{Role: RoleUser, Content: "q1"},
		{Role: RoleAssistant, Content: "a1"},
		{Role: RoleUser, Content: "q2"},
	})

	wantRoles := []string{"user", "model", "user"}
	if len(contents) != len(wantRoles) {
		t.Fatalf("len(contents) = %d", len(contents))
	}
	for i, c := range contents {
		if c.Role != wantRoles[i] {
			t.Errorf("contents[%d].Role = %q, want %q", i, c.Role, wantRoles[i])
		}
		if len(c.Parts) != 1 || c.Parts[0].Text == "" {
			t.Errorf("contents[%d].Parts = %+v", i, c.Parts)
		}
	}
}

func TestGenerateConfig(t *testing.T) {
	cfg := generateConfig("", ChatParams{})
	if cfg.SystemInstruction != nil {
		t.Error("SystemInstruction should be nil without system text")
	}
	if cfg.Temperature != nil {
		t.Error("Temperature should stay unset")
	}

	cfg = generateConfig("sys", ChatParams{MaxTokens: 10, Temperature: genai.Ptr[float32](0.2)})
	if cfg.SystemInstruction == nil || cfg.SystemInstruction.Parts[0].Text != "sys" {
		t.Errorf("SystemInstruction = %+v", cfg.SystemInstruction)
	}
	if cfg.MaxOutputTokens != 10 || *cfg.Temperature != 0.2 {
		t.Errorf("config = %+v", cfg)
	}
}
