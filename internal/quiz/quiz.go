package quiz

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/darrellg/lectern/internal/llm"
)

const (
	DefaultQuestions = 5
	MaxQuestions     = 10
)

// Item is a single multiple-choice question.
type Item struct {
	Question    string            `json:"question"`
	Options     map[string]string `json:"options"`
	Answer      string            `json:"answer"`
	Explanation string            `json:"explanation,omitempty"`
}

// Quiz is an ordered sequence of questions.
type Quiz []Item

// Valid reports whether an item is well formed: a non-empty question,
// exactly four options, and an answer that is one of the option keys.
func (it Item) Valid() bool {
	if strings.TrimSpace(it.Question) == "" {
		return false
	}
	if len(it.Options) != 4 {
		return false
	}
	_, ok := it.Options[it.Answer]
	return ok
}

// Generator asks a model for quiz questions derived from a summary.
type Generator struct {
	client       llm.Client
	maxQuestions int
	log          *slog.Logger
}

func NewGenerator(client llm.Client, maxQuestions int, log *slog.Logger) *Generator {
	if maxQuestions <= 0 {
		maxQuestions = MaxQuestions
	}
	return &Generator{client: client, maxQuestions: maxQuestions, log: log}
}

// Generate requests count questions from the model and parses the response.
// Malformed items are dropped rather than failing the whole quiz; a response
// with no recoverable array at all returns ErrUnparsable.
func (g *Generator) Generate(ctx context.Context, summary string, count int) (Quiz, error) {
	if count <= 0 {
		count = DefaultQuestions
	}
	if count > g.maxQuestions {
		count = g.maxQuestions
	}

	resp, err := g.client.Generate(ctx, BuildPrompt(summary, count))
	if err != nil {
		return nil, fmt.Errorf("generate quiz: %w", err)
	}

	parsed, err := Parse(resp)
	if err != nil {
		return nil, err
	}

	items := make(Quiz, 0, len(parsed))
	for i, it := range parsed {
		if !it.Valid() {
			g.log.Warn("dropping malformed quiz item",
				"index", i,
				"options", len(it.Options),
				"answer", it.Answer,
			)
			continue
		}
		items = append(items, it)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: no well-formed items in response", ErrUnparsable)
	}
	return items, nil
}
