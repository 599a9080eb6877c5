package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/darrellg/lectern/internal/config"
	"github.com/darrellg/lectern/internal/extract"
	"github.com/darrellg/lectern/internal/llm"
	"github.com/darrellg/lectern/internal/quiz"
	"github.com/darrellg/lectern/internal/summarize"
	"github.com/darrellg/lectern/internal/textsplit"
)

// ModelResolver maps a model display name to a ready client.
type ModelResolver interface {
	ForModel(name string) (llm.Client, error)
}

// TranscriptFetcher pulls a caption transcript for a video URL.
type TranscriptFetcher interface {
	TranscriptFromURL(ctx context.Context, rawURL string) (string, error)
}

// Worker processes a single lecture job: extract text, summarize, then
// generate a quiz from the summary.
type Worker struct {
	models      ModelResolver
	transcripts TranscriptFetcher
	log         *slog.Logger
	cfg         config.Config
}

func NewWorker(models ModelResolver, transcripts TranscriptFetcher, log *slog.Logger, cfg config.Config) *Worker {
	return &Worker{
		models:      models,
		transcripts: transcripts,
		log:         log,
		cfg:         cfg,
	}
}

// Process runs the full pipeline for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "source", job.Source, "model", job.Model)

	client, err := w.models.ForModel(job.Model)
	if err != nil {
		log.Error("model unavailable", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "model")
		return
	}
	// Clients are built per job; release their connections when done.
	if closer, ok := client.(interface{ Close() }); ok {
		defer closer.Close()
	}

	// Phase 1: Extract text.
	job.SetStatus(StatusExtracting, "extracting")
	text, err := w.extractText(ctx, job)
	if err != nil {
		log.Error("extraction failed", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "extracting")
		return
	}

	text = textsplit.Clean(text)
	if text == "" {
		log.Warn("no extractable content")
		job.AddError("no extractable content")
		job.SetStatus(StatusFailed, "extracting")
		return
	}
	log.Info("extracted text", "chars", len(text), "est_tokens", textsplit.EstimateTokens(text))

	// Phase 2: Summarize. Any model failure here, after retries, fails the
	// whole job.
	job.SetStatus(StatusSummarizing, "summarizing")
	sumCfg := summarize.Config{
		SingleShotLimit: w.cfg.SingleShotLimit,
		ChunkSize:       w.cfg.MapReduceChunkSize,
		ChunkOverlap:    w.cfg.MapReduceChunkOverlap,
		Parallelism:     w.cfg.SummaryParallelism,
	}
	if job.ChunkSize > 0 {
		sumCfg.ChunkSize = job.ChunkSize
	}
	if job.ChunkOverlap > 0 {
		sumCfg.ChunkOverlap = job.ChunkOverlap
	}
	summarizer := summarize.New(client, sumCfg, w.log)

	var summary summarize.Result
	err = w.withRetries(ctx, log, "summarize", func() error {
		var sumErr error
		summary, sumErr = summarizer.Summarize(ctx, text)
		return sumErr
	})
	if err != nil {
		log.Error("summarization failed", "error", err)
		job.AddError(fmt.Sprintf("summarize: %s", err))
		job.SetStatus(StatusFailed, "summarizing")
		return
	}
	job.SetSummary(summary)
	log.Info("summary complete", "chunks", summary.Chunks, "map_reduce", summary.MapReduce)

	// Phase 3: Quiz. Failure here is soft: the summary is kept and the job
	// finishes as partial.
	job.SetStatus(StatusGeneratingQuiz, "generating_quiz")
	gen := quiz.NewGenerator(client, w.cfg.MaxQuestions, w.log)
	count := job.Questions
	if count <= 0 {
		count = w.cfg.DefaultQuestions
	}

	var q quiz.Quiz
	err = w.withRetries(ctx, log, "quiz", func() error {
		var quizErr error
		q, quizErr = gen.Generate(ctx, summary.Text, count)
		return quizErr
	})
	if err != nil {
		log.Warn("quiz generation failed, keeping summary", "error", err)
		job.AddError(fmt.Sprintf("quiz: %s", err))
		job.SetStatus(StatusPartial, "done")
		return
	}
	job.SetQuiz(q)
	log.Info("quiz complete", "questions", len(q))

	job.SetStatus(StatusCompleted, "done")
}

// extractText turns the job's source into raw text.
func (w *Worker) extractText(ctx context.Context, job *Job) (string, error) {
	switch job.Source {
	case SourceYouTube:
		return w.transcripts.TranscriptFromURL(ctx, job.VideoURL)
	case SourceDocument:
		ex, err := extract.ForFile(job.Filename)
		if err != nil {
			return "", err
		}
		if pdf, ok := ex.(*extract.PDFExtractor); ok {
			pdf.FallbackPdftotext = w.cfg.PDFFallbackPdftotext
		}
		res, err := ex.Extract(bytes.NewReader(job.FileData()), job.Filename)
		if err != nil {
			return "", fmt.Errorf("extract %s: %w", job.Filename, err)
		}
		job.SetPages(res.Pages)
		return res.Text, nil
	default:
		return "", fmt.Errorf("unknown source kind: %s", job.Source)
	}
}

// withRetries runs fn, retrying transient model errors with backoff.
func (w *Worker) withRetries(ctx context.Context, log *slog.Logger, op string, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt < MaxRetries; attempt++ {
		lastErr = fn()
		if lastErr == nil || !IsRetryable(lastErr) {
			return lastErr
		}
		log.Warn("retryable model error", "op", op, "attempt", attempt, "error", lastErr)
		select {
		case <-time.After(Backoff(attempt)):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return lastErr
}
