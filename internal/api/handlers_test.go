package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/darrellg/lectern/internal/config"
	"github.com/darrellg/lectern/internal/llm"
	"github.com/darrellg/lectern/internal/pipeline"
	"github.com/darrellg/lectern/internal/youtube"
)

const testAPIKey = "test-key"

// newTestServer wires a server with an orchestrator that has no running
// workers, so submitted jobs stay queued.
func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := config.Config{
		LecternAPIKey:    testAPIKey,
		DefaultQuestions: 5,
		MaxQuestions:     10,
		MaxQueueSize:     10,
		MaxUploadBytes:   1 << 20,
		JobTTL:           time.Hour,
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	stats := llm.NewStats(time.Hour)
	registry := llm.NewRegistry("gemini-key", "", stats)
	orch := pipeline.NewOrchestrator(cfg, registry, youtube.NewClient(nil), log)
	return NewServer(orch, registry, stats, log, cfg)
}

func authedRequest(method, target string, body io.Reader, contentType string) *http.Request {
	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Authorization", "Bearer "+testAPIKey)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return req
}

func uploadForm(t *testing.T, filename, content string, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if filename != "" {
		fw, err := mw.CreateFormFile("file", filename)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		fw.Write([]byte(content))
	}
	for k, v := range fields {
		mw.WriteField(k, v)
	}
	mw.Close()
	return &buf, mw.FormDataContentType()
}

func TestHealth_NoAuthRequired(t *testing.T) {
	s := newTestServer(t)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuth_Required(t *testing.T) {
	s := newTestServer(t)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/models", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/models", nil)
	req.Header.Set("Authorization", "Bearer wrong-key")
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad key, got %d", rec.Code)
	}
}

func TestCreateLecture_FileUpload(t *testing.T) {
	s := newTestServer(t)
	body, ct := uploadForm(t, "lecture.txt", "Some lecture content.", nil)

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, authedRequest(http.MethodPost, "/api/lectures", body, ct))

	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		JobID   string `json:"job_id"`
		Status  string `json:"status"`
		PollURL string `json:"poll_url"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.JobID == "" {
		t.Error("expected job_id")
	}
	if resp.Status != string(pipeline.StatusQueued) {
		t.Errorf("expected queued status, got %q", resp.Status)
	}
	if resp.PollURL != "/api/lectures/"+resp.JobID {
		t.Errorf("unexpected poll_url %q", resp.PollURL)
	}

	// Poll the job.
	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, authedRequest(http.MethodGet, resp.PollURL, nil, ""))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 on status, got %d", rec.Code)
	}
	var snap pipeline.JobSnapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if snap.Source != pipeline.SourceDocument || snap.Filename != "lecture.txt" {
		t.Errorf("unexpected snapshot: %+v", snap)
	}
	if snap.Questions != 5 {
		t.Errorf("expected default questions 5, got %d", snap.Questions)
	}
}

func TestCreateLecture_YouTubeURL(t *testing.T) {
	s := newTestServer(t)
	body, ct := uploadForm(t, "", "", map[string]string{
		"url":       "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		"questions": "8",
	})

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, authedRequest(http.MethodPost, "/api/lectures", body, ct))
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		JobID string `json:"job_id"`
	}
	json.Unmarshal(rec.Body.Bytes(), &resp)

	job := s.orchestrator.GetJob(resp.JobID)
	if job == nil {
		t.Fatal("expected job in store")
	}
	if job.Source != pipeline.SourceYouTube {
		t.Errorf("expected youtube source, got %q", job.Source)
	}
	if job.Questions != 8 {
		t.Errorf("expected 8 questions, got %d", job.Questions)
	}
}

func TestCreateLecture_BadRequests(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name     string
		filename string
		content  string
		fields   map[string]string
	}{
		{"no file or url", "", "", nil},
		{"bad url", "", "", map[string]string{"url": "https://example.com/watch?v=x"}},
		{"unknown model", "lecture.txt", "text", map[string]string{"model": "GPT-99"}},
		{"unsupported extension", "lecture.xlsx", "text", nil},
		{"bad questions", "lecture.txt", "text", map[string]string{"questions": "-3"}},
		{"bad chunk_size", "lecture.txt", "text", map[string]string{"chunk_size": "zero"}},
		{"negative chunk_size", "lecture.txt", "text", map[string]string{"chunk_size": "-100"}},
		{"negative overlap", "lecture.txt", "text", map[string]string{"overlap": "-50"}},
	}
	for _, tt := range tests {
		body, ct := uploadForm(t, tt.filename, tt.content, tt.fields)
		rec := httptest.NewRecorder()
		s.ServeHTTP(rec, authedRequest(http.MethodPost, "/api/lectures", body, ct))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d: %s", tt.name, rec.Code, rec.Body.String())
		}
	}
}

func TestCreateLecture_ChunkOverrides(t *testing.T) {
	s := newTestServer(t)
	body, ct := uploadForm(t, "lecture.txt", "text", map[string]string{
		"chunk_size": "6000",
		"overlap":    "300",
	})

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, authedRequest(http.MethodPost, "/api/lectures", body, ct))
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		JobID string `json:"job_id"`
	}
	json.Unmarshal(rec.Body.Bytes(), &resp)
	job := s.orchestrator.GetJob(resp.JobID)
	if job.ChunkSize != 6000 || job.ChunkOverlap != 300 {
		t.Errorf("expected overrides 6000/300, got %d/%d", job.ChunkSize, job.ChunkOverlap)
	}
}

func TestCreateLecture_QuestionsClamped(t *testing.T) {
	s := newTestServer(t)
	body, ct := uploadForm(t, "lecture.txt", "text", map[string]string{"questions": "50"})

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, authedRequest(http.MethodPost, "/api/lectures", body, ct))
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", rec.Code)
	}
	var resp struct {
		JobID string `json:"job_id"`
	}
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if job := s.orchestrator.GetJob(resp.JobID); job.Questions != 10 {
		t.Errorf("expected questions clamped to 10, got %d", job.Questions)
	}
}

func TestLectureResults_NotReady(t *testing.T) {
	s := newTestServer(t)
	body, ct := uploadForm(t, "lecture.txt", "text", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, authedRequest(http.MethodPost, "/api/lectures", body, ct))
	var resp struct {
		JobID string `json:"job_id"`
	}
	json.Unmarshal(rec.Body.Bytes(), &resp)

	for _, path := range []string{"/summary", "/quiz"} {
		rec := httptest.NewRecorder()
		s.ServeHTTP(rec, authedRequest(http.MethodGet, "/api/lectures/"+resp.JobID+path, nil, ""))
		if rec.Code != http.StatusConflict {
			t.Errorf("%s: expected 409, got %d", path, rec.Code)
		}
	}
}

func TestLecture_NotFound(t *testing.T) {
	s := newTestServer(t)
	for _, path := range []string{"", "/summary", "/quiz"} {
		rec := httptest.NewRecorder()
		s.ServeHTTP(rec, authedRequest(http.MethodGet, "/api/lectures/nope"+path, nil, ""))
		if rec.Code != http.StatusNotFound {
			t.Errorf("%q: expected 404, got %d", path, rec.Code)
		}
	}
}

func TestListModels(t *testing.T) {
	s := newTestServer(t)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, authedRequest(http.MethodGet, "/api/models", nil, ""))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp struct {
		Models  []llm.ModelInfo `json:"models"`
		Default string          `json:"default"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Default != llm.DefaultModel {
		t.Errorf("expected default %q, got %q", llm.DefaultModel, resp.Default)
	}
	if len(resp.Models) != len(llm.Models) {
		t.Errorf("expected %d models, got %d", len(llm.Models), len(resp.Models))
	}
	// Gemini key configured, DeepSeek not.
	for _, m := range resp.Models {
		wantAvail := m.Provider == llm.ProviderGemini
		if m.Available != wantAvail {
			t.Errorf("%s: expected available=%v", m.Name, wantAvail)
		}
	}
}

func TestLLMStats(t *testing.T) {
	s := newTestServer(t)
	s.stats.Record(120)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, authedRequest(http.MethodGet, "/api/stats/llm", nil, ""))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp struct {
		QueueDepth int               `json:"queue_depth"`
		Stats      llm.StatsSnapshot `json:"stats"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Stats.Count != 1 {
		t.Errorf("expected 1 recorded sample, got %d", resp.Stats.Count)
	}
}
