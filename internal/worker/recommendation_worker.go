// Package worker runs the asynchronous recommendation pipeline. Finished
// attempts enqueue a job; a small goroutine pool drains the queue and calls
// the recommendation service. Failures are logged and dropped, never
// surfaced to the user who finished the attempt.
package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"eduquiz/internal/domain"
	"eduquiz/internal/logger"
	"eduquiz/internal/service"

	"go.uber.org/zap"
)

var ErrQueueFull = errors.New("recommendation queue is full")

const defaultJobTimeout = 2 * time.Minute

// RecommendationWorker consumes queued recommendation jobs.
type RecommendationWorker struct {
	recSvc     service.RecommendationService
	jobs       chan domain.RecommendationJob
	poolSize   int
	jobTimeout time.Duration

	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewRecommendationWorker builds a stopped worker with the given queue and
// pool sizes.
func NewRecommendationWorker(recSvc service.RecommendationService, queueSize, poolSize int) *RecommendationWorker {
	if queueSize <= 0 {
		queueSize = 64
	}
	if poolSize <= 0 {
		poolSize = 1
	}
	return &RecommendationWorker{
		recSvc:     recSvc,
		jobs:       make(chan domain.RecommendationJob, queueSize),
		poolSize:   poolSize,
		jobTimeout: defaultJobTimeout,
	}
}

// Start launches the consumer goroutines.
func (w *RecommendationWorker) Start() {
	for i := 0; i < w.poolSize; i++ {
		w.wg.Add(1)
		go w.run()
	}
	logger.Get().Info("Recommendation worker started",
		zap.Int("poolSize", w.poolSize),
		zap.Int("queueCapacity", cap(w.jobs)))
}

// Enqueue hands a job to the pool without blocking. A full queue returns
// ErrQueueFull; callers treat that as a degraded mode, not a failure.
func (w *RecommendationWorker) Enqueue(job domain.RecommendationJob) error {
	select {
	case w.jobs <- job:
		return nil
	default:
		return ErrQueueFull
	}
}

// Stop closes the queue and waits for in-flight jobs to drain.
func (w *RecommendationWorker) Stop() {
	w.closeOnce.Do(func() {
		close(w.jobs)
	})
	w.wg.Wait()
	logger.Get().Info("Recommendation worker stopped")
}

func (w *RecommendationWorker) run() {
	defer w.wg.Done()
	for job := range w.jobs {
		w.process(job)
	}
}

func (w *RecommendationWorker) process(job domain.RecommendationJob) {
	ctx, cancel := context.WithTimeout(context.Background(), w.jobTimeout)
	defer cancel()

	if err := w.recSvc.EnsureRecommendation(ctx, job); err != nil {
		logger.Get().Error("Recommendation job failed",
			zap.Error(err),
			zap.String("userID", job.UserID),
			zap.String("quizID", job.QuizID))
		return
	}
	logger.Get().Debug("Recommendation job completed",
		zap.String("userID", job.UserID),
		zap.String("quizID", job.QuizID))
}
