package server

import (
	"context"
	"testing"
	"time"

	"exactscribe/internal/core/engine"
)

func waitStatus(t *testing.T, jq *JobQueue, id string, want JobStatus) *Job {
	t.Helper()

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if job := jq.GetJob(id); job != nil && job.Status == want {
			return job
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("job %s never reached %s", id, want)
	return nil
}

func TestJobQueueCompletes(t *testing.T) {
	jq := NewJobQueue(2, func(context.Context, engine.Request) (string, error) {
		return "done", nil
	})
	jq.Start()
	defer jq.Stop()

	job, err := jq.AddJob("a.mp3", engine.Request{})
	if err != nil {
		t.Fatal(err)
	}

	got := waitStatus(t, jq, job.ID, JobStatusCompleted)
	if got.Transcript != "done" {
		t.Errorf("transcript = %q", got.Transcript)
	}
	if got.Error != "" {
		t.Errorf("error = %q", got.Error)
	}
}

func TestJobQueueCancel(t *testing.T) {
	started := make(chan struct{})
	jq := NewJobQueue(1, func(ctx context.Context, _ engine.Request) (string, error) {
		close(started)
		<-ctx.Done()
		return "", ctx.Err()
	})
	jq.Start()
	defer jq.Stop()

	job, err := jq.AddJob("b.wav", engine.Request{})
	if err != nil {
		t.Fatal(err)
	}

	<-started
	if !jq.CancelJob(job.ID) {
		t.Fatal("cancel failed")
	}

	got := waitStatus(t, jq, job.ID, JobStatusCancelled)
	if got.Transcript != "" {
		t.Error("cancelled job has a transcript")
	}

	// A finished job cannot be cancelled again, only removed.
	if jq.CancelJob(job.ID) {
		t.Error("cancelled job cancelled twice")
	}
	if !jq.RemoveJob(job.ID) {
		t.Error("could not remove finished job")
	}
}

func TestJobQueueRemoveActiveRefused(t *testing.T) {
	release := make(chan struct{})
	jq := NewJobQueue(1, func(context.Context, engine.Request) (string, error) {
		<-release
		return "ok", nil
	})
	jq.Start()
	defer jq.Stop()
	defer close(release)

	job, err := jq.AddJob("c.flac", engine.Request{})
	if err != nil {
		t.Fatal(err)
	}

	if jq.RemoveJob(job.ID) {
		t.Error("active job removed")
	}
}

func TestJobQueueClearHistory(t *testing.T) {
	jq := NewJobQueue(2, func(context.Context, engine.Request) (string, error) {
		return "ok", nil
	})
	jq.Start()
	defer jq.Stop()

	a, _ := jq.AddJob("a.mp3", engine.Request{})
	b, _ := jq.AddJob("b.mp3", engine.Request{})
	waitStatus(t, jq, a.ID, JobStatusCompleted)
	waitStatus(t, jq, b.ID, JobStatusCompleted)

	if got := jq.ClearHistory(); got != 2 {
		t.Errorf("cleared %d jobs, want 2", got)
	}
	if len(jq.GetAllJobs()) != 0 {
		t.Error("jobs remain after clear")
	}
}
