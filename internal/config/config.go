package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port string

	// Auth
	LecternAPIKey string

	// Model providers
	GeminiAPIKey   string
	DeepSeekAPIKey string
	DefaultModel   string

	// Chunking defaults (quiz/summary requests may override per job)
	ChunkSize    int
	ChunkOverlap int

	// Map-reduce summarization
	MapReduceChunkSize    int
	MapReduceChunkOverlap int
	SingleShotLimit       int
	SummaryParallelism    int

	// Quiz
	DefaultQuestions int
	MaxQuestions     int

	// YouTube transcripts
	TranscriptLanguages []string

	// Worker pool
	WorkerCount  int
	MaxQueueSize int

	// Upload limits
	MaxUploadBytes int64

	// Job state
	JobTTL time.Duration

	// PDF
	PDFFallbackPdftotext bool
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		LecternAPIKey: os.Getenv("LECTERN_API_KEY"),

		GeminiAPIKey:   os.Getenv("GEMINI_API_KEY"),
		DeepSeekAPIKey: os.Getenv("DEEPSEEK_API_KEY"),
		DefaultModel:   os.Getenv("DEFAULT_MODEL"),

		ChunkSize:    envInt("CHUNK_SIZE", 4000),
		ChunkOverlap: envInt("CHUNK_OVERLAP", 200),

		MapReduceChunkSize:    envInt("MAPREDUCE_CHUNK_SIZE", 8000),
		MapReduceChunkOverlap: envInt("MAPREDUCE_CHUNK_OVERLAP", 500),
		SingleShotLimit:       envInt("SINGLE_SHOT_LIMIT", 30000),
		SummaryParallelism:    envInt("SUMMARY_PARALLELISM", 1),

		DefaultQuestions: envInt("DEFAULT_QUESTIONS", 5),
		MaxQuestions:     envInt("MAX_QUESTIONS", 10),

		TranscriptLanguages: envList("TRANSCRIPT_LANGS", []string{"en", "id", "en-US", "en-GB"}),

		WorkerCount:  envInt("WORKER_COUNT", 4),
		MaxQueueSize: envInt("MAX_QUEUE_SIZE", 100),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),
	}

	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = 4000
	}
	if cfg.ChunkOverlap < 0 {
		cfg.ChunkOverlap = 200
	}
	if cfg.MapReduceChunkSize <= 0 {
		cfg.MapReduceChunkSize = 8000
	}
	if cfg.MapReduceChunkOverlap < 0 {
		cfg.MapReduceChunkOverlap = 500
	}
	if cfg.SingleShotLimit <= 0 {
		cfg.SingleShotLimit = 30000
	}
	if cfg.SummaryParallelism <= 0 {
		cfg.SummaryParallelism = 1
	}
	if cfg.DefaultQuestions <= 0 {
		cfg.DefaultQuestions = 5
	}
	if cfg.MaxQuestions <= 0 {
		cfg.MaxQuestions = 10
	}
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}

	return cfg
}

func (c Config) Validate() error {
	if c.LecternAPIKey == "" {
		return fmt.Errorf("LECTERN_API_KEY is required")
	}
	if c.GeminiAPIKey == "" && c.DeepSeekAPIKey == "" {
		return fmt.Errorf("at least one of GEMINI_API_KEY or DEEPSEEK_API_KEY is required")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
