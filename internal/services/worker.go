package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"alfredoptarigan/resume-ats/internal/repositories"
)

const (
	defaultQueueSize    = 100
	defaultPollInterval = 10 * time.Second
	pendingBatchSize    = 10
)

type Worker interface {
	Start(ctx context.Context)
	Stop()
	EnqueueJob(analysisID uuid.UUID)
}

type worker struct {
	analysisRepo repositories.AnalysisRepository
	analyzer     AnalyzerService
	jobQueue     chan uuid.UUID
	concurrency  int
	pollInterval time.Duration
	wg           sync.WaitGroup
	stopChan     chan struct{}
	stopOnce     sync.Once
}

func NewWorker(
	analysisRepo repositories.AnalysisRepository,
	analyzer AnalyzerService,
	concurrency int,
	pollInterval time.Duration,
) Worker {
	if concurrency <= 0 {
		concurrency = 1
	}
	if pollInterval <= 0 {
		pollInterval = defaultPollInterval
	}
	return &worker{
		analysisRepo: analysisRepo,
		analyzer:     analyzer,
		jobQueue:     make(chan uuid.UUID, defaultQueueSize),
		concurrency:  concurrency,
		pollInterval: pollInterval,
		stopChan:     make(chan struct{}),
	}
}

// Start implements Worker.
func (w *worker) Start(ctx context.Context) {
	slog.Info("🚀 Starting worker", slog.Int("concurrency", w.concurrency))

	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.processJobs(ctx, i+1)
	}

	w.wg.Add(1)
	go w.pollPendingJobs(ctx)

	slog.Info("✅ Worker started successfully")
}

// Stop implements Worker.
func (w *worker) Stop() {
	w.stopOnce.Do(func() {
		slog.Info("🛑 Stopping worker...")
		close(w.stopChan)
		w.wg.Wait()
		slog.Info("✅ Worker stopped")
	})
}

// EnqueueJob implements Worker.
func (w *worker) EnqueueJob(analysisID uuid.UUID) {
	select {
	case w.jobQueue <- analysisID:
		slog.Info("📥 Job enqueued", slog.String("analysis_id", analysisID.String()))
	case <-w.stopChan:
		slog.Warn("⚠️ Worker stopped, cannot enqueue job", slog.String("analysis_id", analysisID.String()))
	}
}

func (w *worker) processJobs(ctx context.Context, workerID int) {
	defer w.wg.Done()
	log := slog.With(slog.Int("worker", workerID))
	log.Info("👷 Worker started processing jobs")

	for {
		select {
		case <-w.stopChan:
			log.Info("👷 Worker stopped")
			return
		case <-ctx.Done():
			log.Info("👷 Worker context cancelled")
			return
		case analysisID := <-w.jobQueue:
			log.Info("👷 Processing job", slog.String("analysis_id", analysisID.String()))
			if err := w.analyzer.AnalyzeResume(ctx, analysisID); err != nil {
				log.Error("❌ Failed to process job", slog.String("analysis_id", analysisID.String()), slog.Any("error", err))
			} else {
				log.Info("✅ Completed job", slog.String("analysis_id", analysisID.String()))
			}
		}
	}
}

func (w *worker) pollPendingJobs(ctx context.Context) {
	defer w.wg.Done()
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	slog.Info("🔄 Starting pending jobs poller", slog.Duration("interval", w.pollInterval))

	for {
		select {
		case <-w.stopChan:
			slog.Info("🔄 Pending jobs poller stopped")
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			pendingJobs, err := w.analysisRepo.FindPendingJobs(pendingBatchSize)
			if err != nil {
				slog.Warn("⚠️ Failed to fetch pending jobs", slog.Any("error", err))
				continue
			}

			if len(pendingJobs) > 0 {
				slog.Info("📋 Found pending jobs", slog.Int("count", len(pendingJobs)))
			}

			for _, job := range pendingJobs {
				w.EnqueueJob(job.ID)
			}
		}
	}
}
