package summarize

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/darrellg/lectern/internal/llm"
	"github.com/darrellg/lectern/internal/textsplit"
)

// Config controls summarization behavior. It is passed in explicitly so
// tests can force either path without touching the environment.
type Config struct {
	SingleShotLimit int // chars above which the map-reduce path engages
	ChunkSize       int // chunk size for the map phase
	ChunkOverlap    int // overlap between map-phase chunks
	Parallelism     int // 1 = sequential map phase; higher opts into bounded fan-out
}

// DefaultConfig returns sensible defaults. The single-shot limit of 30,000
// characters approximates a 7,500-token budget.
func DefaultConfig() Config {
	return Config{
		SingleShotLimit: 30000,
		ChunkSize:       8000,
		ChunkOverlap:    500,
		Parallelism:     1,
	}
}

// Result is a finished summary.
type Result struct {
	Text      string // Markdown summary
	Chunks    int    // chunks processed (1 for single-shot)
	MapReduce bool
}

// Summarizer turns lecture text into a structured Markdown summary, choosing
// between a single model call and map-reduce based on input size.
type Summarizer struct {
	client llm.Client
	cfg    Config
	log    *slog.Logger
}

func New(client llm.Client, cfg Config, log *slog.Logger) *Summarizer {
	if cfg.SingleShotLimit <= 0 {
		cfg.SingleShotLimit = 30000
	}
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = 8000
	}
	if cfg.ChunkOverlap <= 0 {
		cfg.ChunkOverlap = 500
	}
	if cfg.Parallelism <= 0 {
		cfg.Parallelism = 1
	}
	return &Summarizer{client: client, cfg: cfg, log: log}
}

// Summarize produces a summary of text. Any model failure aborts the whole
// operation; partial progress is discarded.
func (s *Summarizer) Summarize(ctx context.Context, text string) (Result, error) {
	if strings.TrimSpace(text) == "" {
		return Result{}, fmt.Errorf("no text to summarize")
	}

	if len(text) <= s.cfg.SingleShotLimit {
		out, err := s.client.Generate(ctx, BuildSummaryPrompt(text))
		if err != nil {
			return Result{}, fmt.Errorf("summarize: %w", err)
		}
		return Result{Text: out, Chunks: 1}, nil
	}
	return s.mapReduce(ctx, text)
}

// partSeparator joins partial summaries so the combine prompt shows where
// one section ends and the next begins.
const partSeparator = "\n\n---\n\n"

func (s *Summarizer) mapReduce(ctx context.Context, text string) (Result, error) {
	chunks := textsplit.Split(text, s.cfg.ChunkSize, s.cfg.ChunkOverlap)
	s.log.Info("map-reduce summarization",
		"chars", len(text),
		"chunks", len(chunks),
		"model", s.client.Name(),
	)

	partials, err := s.summarizeChunks(ctx, chunks)
	if err != nil {
		return Result{}, err
	}

	combined, err := s.client.Generate(ctx, BuildCombinePrompt(strings.Join(partials, partSeparator)))
	if err != nil {
		return Result{}, fmt.Errorf("combine summaries: %w", err)
	}
	return Result{Text: combined, Chunks: len(chunks), MapReduce: true}, nil
}

// summarizeChunks runs the map phase. Sequential by default so only one
// request is in flight against the provider at a time; Parallelism > 1 opts
// into a bounded fan-out.
func (s *Summarizer) summarizeChunks(ctx context.Context, chunks []string) ([]string, error) {
	if s.cfg.Parallelism == 1 {
		partials := make([]string, 0, len(chunks))
		for i, chunk := range chunks {
			out, err := s.client.Generate(ctx, BuildChunkPrompt(chunk))
			if err != nil {
				return nil, fmt.Errorf("summarize chunk %d/%d: %w", i+1, len(chunks), err)
			}
			partials = append(partials, out)
		}
		return partials, nil
	}

	type chunkResult struct {
		idx int
		out string
		err error
	}
	results := make(chan chunkResult, len(chunks))
	sem := make(chan struct{}, s.cfg.Parallelism)

	for i, chunk := range chunks {
		sem <- struct{}{}
		go func(i int, chunk string) {
			defer func() { <-sem }()
			out, err := s.client.Generate(ctx, BuildChunkPrompt(chunk))
			results <- chunkResult{idx: i, out: out, err: err}
		}(i, chunk)
	}

	partials := make([]string, len(chunks))
	var firstErr error
	for range chunks {
		r := <-results
		if r.err != nil && firstErr == nil {
			firstErr = fmt.Errorf("summarize chunk %d/%d: %w", r.idx+1, len(chunks), r.err)
		}
		partials[r.idx] = r.out
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return partials, nil
}
