package llm

// Chat roles shared by every provider.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message represents a single message in a chat conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatParams holds parameters for chat completion requests.
type ChatParams struct {
	// Model specifies the model to use. If empty, the client's default model is used.
	Model string

	// MaxTokens specifies the maximum number of tokens to generate.
	// If 0, no limit is applied.
	MaxTokens int

	// Temperature controls the randomness of the output. Nil leaves the
	// provider default in place.
	Temperature *float32
}

// Temperature is a convenience for filling ChatParams.Temperature.
func Temperature(t float32) *float32 {
	return &t
}

// SplitSystem separates leading and interleaved system messages from the
// conversation turns. System texts are joined with a blank line.
func SplitSystem(messages []Message) (system string, turns []Message) {
	var parts []string
	for _, m := range messages {
		if m.Role == RoleSystem {
			parts = append(parts, m.Content)
			continue
		}
		turns = append(turns, m)
	}
	for i, p := range parts {
		if i > 0 {
			system += "\n\n"
		}
		system += p
	}
	return system, turns
}
