package worker

import (
	"context"
	"sync"
	"testing"
	"time"

	"eduquiz/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingRecService struct {
	mu      sync.Mutex
	jobs    []domain.RecommendationJob
	done    chan struct{}
	release chan struct{}
}

func (r *recordingRecService) EnsureRecommendation(ctx context.Context, job domain.RecommendationJob) error {
	if r.release != nil {
		<-r.release
	}
	r.mu.Lock()
	r.jobs = append(r.jobs, job)
	r.mu.Unlock()
	if r.done != nil {
		r.done <- struct{}{}
	}
	return nil
}

func (r *recordingRecService) GetOrGenerateRecommendation(ctx context.Context, caller domain.Caller, userID, quizID string) (*domain.LearningRecommendation, error) {
	return nil, nil
}

func TestRecommendationWorker_ProcessesJobs(t *testing.T) {
	svc := &recordingRecService{done: make(chan struct{}, 4)}
	w := NewRecommendationWorker(svc, 4, 2)
	w.Start()

	for i := 0; i < 3; i++ {
		require.NoError(t, w.Enqueue(domain.RecommendationJob{UserID: "user1", QuizID: "quiz1"}))
	}

	for i := 0; i < 3; i++ {
		select {
		case <-svc.done:
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for job to complete")
		}
	}

	w.Stop()
	svc.mu.Lock()
	defer svc.mu.Unlock()
	assert.Len(t, svc.jobs, 3)
}

func TestRecommendationWorker_EnqueueFullQueue(t *testing.T) {
	// Worker never started, so nothing drains the queue.
	svc := &recordingRecService{}
	w := NewRecommendationWorker(svc, 1, 1)

	require.NoError(t, w.Enqueue(domain.RecommendationJob{UserID: "user1", QuizID: "quiz1"}))

	err := w.Enqueue(domain.RecommendationJob{UserID: "user2", QuizID: "quiz1"})
	assert.ErrorIs(t, err, ErrQueueFull)
}

func TestRecommendationWorker_StopDrainsQueue(t *testing.T) {
	svc := &recordingRecService{}
	w := NewRecommendationWorker(svc, 8, 1)
	w.Start()

	for i := 0; i < 5; i++ {
		require.NoError(t, w.Enqueue(domain.RecommendationJob{UserID: "user1", QuizID: "quiz1"}))
	}

	w.Stop()

	svc.mu.Lock()
	defer svc.mu.Unlock()
	assert.Len(t, svc.jobs, 5, "Stop should wait for queued jobs to finish")
}
