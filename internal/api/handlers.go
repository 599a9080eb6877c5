package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/darrellg/lectern/internal/extract"
	"github.com/darrellg/lectern/internal/llm"
	"github.com/darrellg/lectern/internal/pipeline"
	"github.com/darrellg/lectern/internal/youtube"
	"github.com/go-chi/chi/v5"
)

// handleCreateLecture accepts either a document upload ("file") or a
// YouTube URL ("url") and queues a processing job.
func (s *Server) handleCreateLecture(w http.ResponseWriter, r *http.Request) {
	// Limit total request size; extra 1MB covers form overhead.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	model := r.FormValue("model")
	if model == "" {
		model = s.cfg.DefaultModel
	}
	if model != "" {
		if _, ok := llm.Models[model]; !ok {
			jsonError(w, fmt.Sprintf("unknown model: %q", model), http.StatusBadRequest)
			return
		}
	}

	questions := s.cfg.DefaultQuestions
	if v := r.FormValue("questions"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			jsonError(w, "questions must be a positive integer", http.StatusBadRequest)
			return
		}
		questions = n
	}
	if questions > s.cfg.MaxQuestions {
		questions = s.cfg.MaxQuestions
	}

	chunkSize := 0
	if v := r.FormValue("chunk_size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			jsonError(w, "chunk_size must be a positive integer", http.StatusBadRequest)
			return
		}
		chunkSize = n
	}
	chunkOverlap := 0
	if v := r.FormValue("overlap"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			jsonError(w, "overlap must be a non-negative integer", http.StatusBadRequest)
			return
		}
		chunkOverlap = n
	}

	var job *pipeline.Job

	if videoURL := r.FormValue("url"); videoURL != "" {
		if _, err := youtube.ExtractVideoID(videoURL); err != nil {
			jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}
		job = s.orchestrator.NewJob(pipeline.SourceYouTube)
		job.VideoURL = videoURL
	} else {
		file, header, err := r.FormFile("file")
		if err != nil {
			jsonError(w, "either file or url is required", http.StatusBadRequest)
			return
		}
		defer file.Close()

		filename := sanitizeFilename(header.Filename)
		if !extract.IsSupportedExtension(filename) {
			jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
			return
		}

		data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
		if err != nil {
			jsonError(w, "failed to read file", http.StatusInternalServerError)
			return
		}
		if int64(len(data)) > s.cfg.MaxUploadBytes {
			jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
			return
		}

		job = s.orchestrator.NewJob(pipeline.SourceDocument)
		job.Filename = filename
		job.SetFileData(data)
	}

	job.Model = model
	job.Questions = questions
	job.ChunkSize = chunkSize
	job.ChunkOverlap = chunkOverlap

	if err := s.orchestrator.Submit(job); err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]any{
		"job_id":   job.ID,
		"status":   job.Status,
		"poll_url": fmt.Sprintf("/api/lectures/%s", job.ID),
	})
}

func (s *Server) handleLectureStatus(w http.ResponseWriter, r *http.Request) {
	job := s.orchestrator.GetJob(chi.URLParam(r, "jobID"))
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(job.Snapshot())
}

func (s *Server) handleLectureSummary(w http.ResponseWriter, r *http.Request) {
	job := s.orchestrator.GetJob(chi.URLParam(r, "jobID"))
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	sum, ok := job.Summary()
	if !ok {
		notReady(w, job)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"job_id":     job.ID,
		"summary":    sum.Text,
		"chunks":     sum.Chunks,
		"map_reduce": sum.MapReduce,
	})
}

func (s *Server) handleLectureQuiz(w http.ResponseWriter, r *http.Request) {
	job := s.orchestrator.GetJob(chi.URLParam(r, "jobID"))
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	q, ok := job.Quiz()
	if !ok {
		notReady(w, job)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"job_id":    job.ID,
		"questions": q,
		"count":     len(q),
	})
}

// notReady reports why a result is not available yet (or never will be).
func notReady(w http.ResponseWriter, job *pipeline.Job) {
	snap := job.Snapshot()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusConflict)
	json.NewEncoder(w).Encode(map[string]any{
		"error":  "not ready",
		"status": snap.Status,
		"phase":  snap.Phase,
		"errors": snap.Errors,
	})
}

func (s *Server) handleListModels(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"models":  s.registry.List(),
		"default": llm.DefaultModel,
	})
}

func (s *Server) handleLLMStats(w http.ResponseWriter, r *http.Request) {
	if s.stats == nil {
		jsonError(w, "llm stats unavailable", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"queue_depth": s.orchestrator.QueueDepth(),
		"stats":       s.stats.Snapshot(),
	})
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
