package knowledge

import (
	"context"
	"strings"

	"portfolio-ai/internal/contextutil"
	"portfolio-ai/internal/portfolio"
)

// DefaultK is the number of sections retrieved per question.
const DefaultK = 4

// Retriever finds sections relevant to a question.
type Retriever interface {
	Retrieve(ctx context.Context, question string, k int) ([]Hit, error)
}

// ContextBuilder produces the system context for a chat question.
type ContextBuilder struct {
	portfolio *portfolio.Portfolio
	retriever Retriever
	k         int
}

// NewContextBuilder creates a ContextBuilder. A nil retriever always yields
// the full portfolio context.
func NewContextBuilder(p *portfolio.Portfolio, retriever Retriever, k int) *ContextBuilder {
	if k <= 0 {
		k = DefaultK
	}
	return &ContextBuilder{portfolio: p, retriever: retriever, k: k}
}

// Build returns the context for question. Retrieval failures fall back to the
// full portfolio context so the assistant can always answer.
func (b *ContextBuilder) Build(ctx context.Context, question string) string {
	if b.retriever == nil {
		return b.portfolio.ResumeContext()
	}

	logger := contextutil.LoggerFromContext(ctx)

	hits, err := b.retriever.Retrieve(ctx, question, b.k)
	if err != nil {
		logger.WarnContext(ctx, "retrieval failed, using full context", "error", err)
		return b.portfolio.ResumeContext()
	}
	if len(hits) == 0 {
		logger.DebugContext(ctx, "no sections retrieved, using full context")
		return b.portfolio.ResumeContext()
	}

	var sb strings.Builder
	sb.WriteString(b.portfolio.ContextHeader())
	for _, hit := range hits {
		sb.WriteString("\n\n")
		sb.WriteString(hit.Section.Text)
	}
	sb.WriteString("\n\n")
	sb.WriteString(b.portfolio.ContextClosing())
	return sb.String()
}
