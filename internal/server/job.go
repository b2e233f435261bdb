package server

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"exactscribe/internal/core/backend"
	"exactscribe/internal/core/engine"
)

// JobStatus represents the current state of a transcription job
type JobStatus string

const (
	JobStatusQueued     JobStatus = "queued"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
	JobStatusCancelled  JobStatus = "cancelled"
)

// Job represents one transcription job. Error is always sanitized before
// it lands here; Transcript is populated only on completion.
type Job struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename"`
	Model      string    `json:"model,omitempty"`
	SizeMB     float64   `json:"size_mb"`
	Status     JobStatus `json:"status"`
	Transcript string    `json:"transcript,omitempty"`
	Error      string    `json:"error,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// Internal fields (not serialized)
	request engine.Request
	ctx     context.Context
	cancel  context.CancelFunc
}

// TranscribeFunc runs one request and returns the transcript.
type TranscribeFunc func(ctx context.Context, req engine.Request) (string, error)

// JobQueue manages transcription jobs with a worker pool
type JobQueue struct {
	jobs          map[string]*Job
	mu            sync.RWMutex
	queue         chan *Job
	maxConcurrent int
	transcribeFn  TranscribeFunc
	wg            sync.WaitGroup
	cleanupTicker *time.Ticker
	stopCleanup   chan struct{}
}

// NewJobQueue creates a new job queue with the specified concurrency
func NewJobQueue(maxConcurrent int, transcribeFn TranscribeFunc) *JobQueue {
	if maxConcurrent <= 0 {
		maxConcurrent = 2
	}

	return &JobQueue{
		jobs:          make(map[string]*Job),
		queue:         make(chan *Job, 100),
		maxConcurrent: maxConcurrent,
		transcribeFn:  transcribeFn,
		stopCleanup:   make(chan struct{}),
	}
}

// Start begins the worker pool and cleanup routine
func (jq *JobQueue) Start() {
	for i := 0; i < jq.maxConcurrent; i++ {
		jq.wg.Add(1)
		go jq.worker()
	}

	// Remove finished jobs older than 1 hour, checking every 10 minutes.
	// Transcripts can be large, so the history is not kept indefinitely.
	jq.cleanupTicker = time.NewTicker(10 * time.Minute)
	go jq.cleanupLoop()
}

// Stop gracefully shuts down the job queue
func (jq *JobQueue) Stop() {
	close(jq.queue)
	close(jq.stopCleanup)
	if jq.cleanupTicker != nil {
		jq.cleanupTicker.Stop()
	}
	jq.wg.Wait()
}

func (jq *JobQueue) worker() {
	defer jq.wg.Done()

	for job := range jq.queue {
		jq.processJob(job)
	}
}

func (jq *JobQueue) processJob(job *Job) {
	if job.ctx.Err() != nil {
		return
	}

	jq.setStatus(job.ID, JobStatusProcessing, "", "")

	text, err := jq.transcribeFn(job.ctx, job.request)
	if err != nil {
		if job.ctx.Err() == context.Canceled {
			jq.setStatus(job.ID, JobStatusCancelled, "", "cancelled by user")
		} else {
			jq.setStatus(job.ID, JobStatusFailed, "", backend.UserMessage(err))
		}
		return
	}

	jq.setStatus(job.ID, JobStatusCompleted, text, "")
}

func (jq *JobQueue) cleanupLoop() {
	for {
		select {
		case <-jq.cleanupTicker.C:
			jq.cleanupOldJobs()
		case <-jq.stopCleanup:
			return
		}
	}
}

func jobFinished(status JobStatus) bool {
	return status == JobStatusCompleted || status == JobStatusFailed || status == JobStatusCancelled
}

func (jq *JobQueue) cleanupOldJobs() {
	jq.mu.Lock()
	defer jq.mu.Unlock()

	cutoff := time.Now().Add(-1 * time.Hour)
	for id, job := range jq.jobs {
		if jobFinished(job.Status) && job.UpdatedAt.Before(cutoff) {
			delete(jq.jobs, id)
		}
	}
}

// ClearHistory removes all finished jobs and reports how many were removed.
func (jq *JobQueue) ClearHistory() int {
	jq.mu.Lock()
	defer jq.mu.Unlock()

	count := 0
	for id, job := range jq.jobs {
		if jobFinished(job.Status) {
			delete(jq.jobs, id)
			count++
		}
	}
	return count
}

// RemoveJob removes a single finished job by ID.
func (jq *JobQueue) RemoveJob(id string) bool {
	jq.mu.Lock()
	defer jq.mu.Unlock()

	job, ok := jq.jobs[id]
	if !ok || !jobFinished(job.Status) {
		return false
	}

	delete(jq.jobs, id)
	return true
}

// AddJob creates and queues a new transcription job
func (jq *JobQueue) AddJob(filename string, req engine.Request) (*Job, error) {
	ctx, cancel := context.WithCancel(context.Background())

	job := &Job{
		ID:        uuid.New().String(),
		Filename:  filename,
		Model:     req.Model,
		SizeMB:    req.SizeMB,
		Status:    JobStatusQueued,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
		request:   req,
		ctx:       ctx,
		cancel:    cancel,
	}

	jq.mu.Lock()
	jq.jobs[job.ID] = job
	jq.mu.Unlock()

	select {
	case jq.queue <- job:
		return job, nil
	default:
		jq.mu.Lock()
		delete(jq.jobs, job.ID)
		jq.mu.Unlock()
		cancel()
		return nil, errQueueFull
	}
}

// GetJob returns a copy of a job by ID, nil when unknown.
func (jq *JobQueue) GetJob(id string) *Job {
	jq.mu.RLock()
	defer jq.mu.RUnlock()

	if job, ok := jq.jobs[id]; ok {
		jobCopy := *job
		return &jobCopy
	}
	return nil
}

// GetAllJobs returns copies of all jobs.
func (jq *JobQueue) GetAllJobs() []*Job {
	jq.mu.RLock()
	defer jq.mu.RUnlock()

	jobs := make([]*Job, 0, len(jq.jobs))
	for _, job := range jq.jobs {
		jobCopy := *job
		jobs = append(jobs, &jobCopy)
	}
	return jobs
}

// CancelJob cancels a queued or processing job by ID.
func (jq *JobQueue) CancelJob(id string) bool {
	jq.mu.Lock()
	defer jq.mu.Unlock()

	job, ok := jq.jobs[id]
	if !ok {
		return false
	}
	if job.Status != JobStatusQueued && job.Status != JobStatusProcessing {
		return false
	}

	job.cancel()
	job.Status = JobStatusCancelled
	job.UpdatedAt = time.Now()
	return true
}

func (jq *JobQueue) setStatus(id string, status JobStatus, transcript, errMsg string) {
	jq.mu.Lock()
	defer jq.mu.Unlock()

	if job, ok := jq.jobs[id]; ok {
		job.Status = status
		if transcript != "" {
			job.Transcript = transcript
		}
		if errMsg != "" {
			job.Error = errMsg
		}
		job.UpdatedAt = time.Now()
	}
}
