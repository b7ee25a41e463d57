// Package knowledge retrieves the portfolio sections most relevant to a chat
// question so the assistant context can stay small.
package knowledge

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"portfolio-ai/internal/contextutil"
	"portfolio-ai/internal/portfolio"
	"portfolio-ai/internal/vectorstore"
)

var (
	// ErrEmptyIndex is returned by Retrieve before the first successful Build.
	ErrEmptyIndex = errors.New("knowledge index is empty")
	// ErrBuildInProgress is returned when Build is called while another build runs.
	ErrBuildInProgress = errors.New("knowledge index build already in progress")
)

// MaxK bounds how many sections a single retrieval may return.
const MaxK = 20

// Payload keys stored with every point.
const (
	metaSectionID = "section_id"
	metaTitle     = "title"
	metaText      = "text"
)

// pointNamespace seeds the deterministic point ids.
var pointNamespace = uuid.MustParse("6f1c0f3e-3c56-4b8e-9a8f-2f0d7f6f5a10")

// Embedder turns texts into vectors.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Hit is a retrieved section with its blended score.
type Hit struct {
	Section portfolio.Section
	Score   float32
}

// Index keeps portfolio sections in a vector store.
type Index struct {
	embedder   Embedder
	store      vectorstore.VectorStore
	collection string

	building atomic.Bool

	mu       sync.RWMutex
	sections map[string]portfolio.Section // keyed by point id
}

// NewIndex creates an empty index over collection.
func NewIndex(embedder Embedder, store vectorstore.VectorStore, collection string) *Index {
	return &Index{
		embedder:   embedder,
		store:      store,
		collection: collection,
		sections:   make(map[string]portfolio.Section),
	}
}

// PointID derives the vector store id of a section. The same section id
// always maps to the same point, so rebuilding overwrites in place.
func PointID(sectionID string) string {
	return uuid.NewSHA1(pointNamespace, []byte(sectionID)).String()
}

// Size returns the number of indexed sections.
func (i *Index) Size() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.sections)
}

// Building reports whether a build is running.
func (i *Index) Building() bool {
	return i.building.Load()
}

// Build embeds and upserts sections, then removes points of sections that no
// longer exist. Only one build runs at a time.
func (i *Index) Build(ctx context.Context, sections []portfolio.Section) error {
	if !i.building.CompareAndSwap(false, true) {
		return ErrBuildInProgress
	}
	defer i.building.Store(false)

	logger := contextutil.LoggerFromContext(ctx)

	if len(sections) == 0 {
		return fmt.Errorf("no sections to index")
	}

	texts := make([]string, len(sections))
	for n, s := range sections {
		texts[n] = s.Title + "\n" + s.Text
	}

	vectors, err := i.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return fmt.Errorf("failed to embed sections: %w", err)
	}
	if len(vectors) != len(sections) {
		return fmt.Errorf("expected %d embeddings, got %d", len(sections), len(vectors))
	}

	next := make(map[string]portfolio.Section, len(sections))
	points := make([]vectorstore.Point, 0, len(sections))
	for n, s := range sections {
		id := PointID(s.ID)
		next[id] = s
		points = append(points, vectorstore.Point{
			ID:  id,
			Vec: vectors[n],
			Meta: map[string]any{
				metaSectionID:           s.ID,
				vectorstore.PayloadKind: s.Kind,
				metaTitle:               s.Title,
				metaText:                s.Text,
			},
		})
	}

	if err := i.store.Upsert(ctx, i.collection, points); err != nil {
		return fmt.Errorf("failed to upsert sections: %w", err)
	}

	i.mu.Lock()
	var stale []string
	for id := range i.sections {
		if _, ok := next[id]; !ok {
			stale = append(stale, id)
		}
	}
	i.sections = next
	i.mu.Unlock()

	if len(stale) > 0 {
		slices.Sort(stale)
		if err := i.store.Delete(ctx, i.collection, stale); err != nil {
			logger.WarnContext(ctx, "failed to delete stale sections", "count", len(stale), "error", err)
		}
	}

	logger.InfoContext(ctx, "knowledge index built", "sections", len(sections), "removed", len(stale))
	return nil
}

// Retrieve returns up to k sections for question, ordered by the vector score
// blended with a lexical overlap score.
func (i *Index) Retrieve(ctx context.Context, question string, k int) ([]Hit, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if i.Size() == 0 {
		return nil, ErrEmptyIndex
	}
	k = min(max(k, 1), MaxK)

	vectors, err := i.embedder.EmbedTexts(ctx, []string{question})
	if err != nil {
		return nil, fmt.Errorf("failed to embed question: %w", err)
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("no embedding returned for question")
	}

	// Over-fetch so the lexical blend can reorder near ties.
	candidates := min(k*2, MaxK)
	results, err := i.store.Search(ctx, i.collection, vectors[0], candidates, vectorstore.Filter{})
	if err != nil {
		return nil, fmt.Errorf("failed to search sections: %w", err)
	}

	i.mu.RLock()
	hits := make([]Hit, 0, len(results))
	seen := make(map[string]struct{}, len(results))
	for _, r := range results {
		if _, dup := seen[r.PointID]; dup {
			continue
		}
		seen[r.PointID] = struct{}{}

		section, ok := i.sections[r.PointID]
		if !ok {
			section, ok = sectionFromMeta(r.Meta)
		}
		if !ok {
			logger.DebugContext(ctx, "skipping unknown point", "point_id", r.PointID)
			continue
		}
		hits = append(hits, Hit{
			Section: section,
			Score:   r.Score + lexicalScore(question, section.Text, section.Title),
		})
	}
	i.mu.RUnlock()

	slices.SortStableFunc(hits, func(a, b Hit) int {
		return cmp.Compare(b.Score, a.Score)
	})
	if len(hits) > k {
		hits = hits[:k]
	}

	logger.DebugContext(ctx, "sections retrieved", "k", k, "candidates", len(results), "hits", len(hits))
	return hits, nil
}

func sectionFromMeta(meta map[string]any) (portfolio.Section, bool) {
	id, _ := meta[metaSectionID].(string)
	text, _ := meta[metaText].(string)
	if id == "" || text == "" {
		return portfolio.Section{}, false
	}
	kind, _ := meta[vectorstore.PayloadKind].(string)
	title, _ := meta[metaTitle].(string)
	return portfolio.Section{ID: id, Kind: kind, Title: title, Text: text}, true
}
