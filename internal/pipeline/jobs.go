package pipeline

import (
	"sync"
	"time"

	"github.com/darrellg/lectern/internal/quiz"
	"github.com/darrellg/lectern/internal/summarize"
)

// SourceKind says where a job's lecture text comes from.
type SourceKind string

const (
	SourceDocument SourceKind = "document"
	SourceYouTube  SourceKind = "youtube"
)

// JobStatus represents the state of a processing job.
type JobStatus string

const (
	StatusQueued         JobStatus = "queued"
	StatusExtracting     JobStatus = "extracting"
	StatusSummarizing    JobStatus = "summarizing"
	StatusGeneratingQuiz JobStatus = "generating_quiz"
	StatusCompleted      JobStatus = "completed"
	StatusFailed         JobStatus = "failed"
	StatusPartial        JobStatus = "partial"
)

// Job tracks the state of a single lecture processing run.
type Job struct {
	mu sync.Mutex

	ID string `json:"job_id"`

	Source   SourceKind `json:"source"`
	Filename string     `json:"filename,omitempty"`
	VideoURL string     `json:"video_url,omitempty"`

	// Request options.
	Model        string `json:"model"`
	Questions    int    `json:"questions"`
	ChunkSize    int    `json:"chunk_size,omitempty"`
	ChunkOverlap int    `json:"chunk_overlap,omitempty"`

	Status JobStatus `json:"status"`
	Phase  string    `json:"phase"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Internal: not serialized.
	fileData   []byte
	pages      int
	summary    summarize.Result
	hasSummary bool
	quiz       quiz.Quiz
	hasQuiz    bool
	errors     []string
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		if now.Sub(job.UpdatedAt) > s.ttl {
			delete(s.jobs, id)
		}
	}
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// AddError records an error message.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.UpdatedAt = time.Now()
}

// SetFileData sets the raw file bytes for processing.
func (j *Job) SetFileData(data []byte) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.fileData = data
}

// FileData returns the raw file bytes.
func (j *Job) FileData() []byte {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.fileData
}

// SetPages records the page count from extraction.
func (j *Job) SetPages(n int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.pages = n
	j.UpdatedAt = time.Now()
}

// SetSummary stores the finished summary.
func (j *Job) SetSummary(res summarize.Result) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.summary = res
	j.hasSummary = true
	j.UpdatedAt = time.Now()
}

// Summary returns the summary if one has been produced.
func (j *Job) Summary() (summarize.Result, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.summary, j.hasSummary
}

// SetQuiz stores the generated quiz.
func (j *Job) SetQuiz(q quiz.Quiz) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.quiz = q
	j.hasQuiz = true
	j.UpdatedAt = time.Now()
}

// Quiz returns the quiz if one has been generated.
func (j *Job) Quiz() (quiz.Quiz, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.quiz, j.hasQuiz
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID        string     `json:"job_id"`
	Source    SourceKind `json:"source"`
	Filename  string     `json:"filename,omitempty"`
	VideoURL  string     `json:"video_url,omitempty"`
	Model     string     `json:"model"`
	Questions int        `json:"questions"`
	Status    JobStatus  `json:"status"`
	Phase     string     `json:"phase"`
	Pages     int        `json:"pages,omitempty"`

	SummaryReady  bool `json:"summary_ready"`
	SummaryChunks int  `json:"summary_chunks,omitempty"`
	MapReduce     bool `json:"map_reduce,omitempty"`
	QuizReady     bool `json:"quiz_ready"`
	QuizQuestions int  `json:"quiz_questions,omitempty"`

	Errors []string `json:"errors"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := j.errors
	if errs == nil {
		errs = []string{}
	}
	return JobSnapshot{
		ID:            j.ID,
		Source:        j.Source,
		Filename:      j.Filename,
		VideoURL:      j.VideoURL,
		Model:         j.Model,
		Questions:     j.Questions,
		Status:        j.Status,
		Phase:         j.Phase,
		Pages:         j.pages,
		SummaryReady:  j.hasSummary,
		SummaryChunks: j.summary.Chunks,
		MapReduce:     j.summary.MapReduce,
		QuizReady:     j.hasQuiz,
		QuizQuestions: len(j.quiz),
		Errors:        errs,
		CreatedAt:     j.CreatedAt,
		UpdatedAt:     j.UpdatedAt,
	}
}
