package services

import (
	"context"
	"log"
	"sync"
	"time"

	"alfredoptarigan/cv-leaderboard/internal/metrics"
)

const indexTaskTimeout = 2 * time.Minute

// Worker indexes analyzed CVs in the background so uploads never wait on
// embeddings.
type Worker interface {
	Start(ctx context.Context)
	Stop()
	EnqueueTask(task IndexTask) bool
}

type worker struct {
	index       CandidateIndex
	metrics     *metrics.Manager
	taskQueue   chan IndexTask
	concurrency int
	wg          sync.WaitGroup
	stopChan    chan struct{}
	stopOnce    sync.Once
}

func NewWorker(
	index CandidateIndex,
	metricsManager *metrics.Manager,
	concurrency int,
	queueSize int,
) Worker {
	if concurrency <= 0 {
		concurrency = 1
	}
	if queueSize <= 0 {
		queueSize = 100
	}

	return &worker{
		index:       index,
		metrics:     metricsManager,
		taskQueue:   make(chan IndexTask, queueSize),
		concurrency: concurrency,
		stopChan:    make(chan struct{}),
	}
}

// Start implements Worker.
func (w *worker) Start(ctx context.Context) {
	log.Printf("🚀 Starting index worker with %d concurrent workers\n", w.concurrency)

	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.processTasks(ctx, i+1)
	}
}

// Stop implements Worker. Queued tasks that have not started are dropped.
func (w *worker) Stop() {
	w.stopOnce.Do(func() {
		log.Println("🛑 Stopping index worker...")
		close(w.stopChan)
		w.wg.Wait()
		log.Println("✅ Index worker stopped")
	})
}

// EnqueueTask implements Worker. It never blocks; a full queue drops the task.
func (w *worker) EnqueueTask(task IndexTask) bool {
	select {
	case <-w.stopChan:
		log.Printf("⚠️  Worker stopped, cannot index %s\n", task.FileName)
		return false
	default:
	}

	select {
	case w.taskQueue <- task:
		log.Printf("📥 Index task for %s enqueued\n", task.FileName)
		return true
	default:
		log.Printf("⚠️  Index queue full, dropping %s\n", task.FileName)
		w.metrics.RecordIndexTask(false)
		return false
	}
}

func (w *worker) processTasks(ctx context.Context, workerID int) {
	defer w.wg.Done()

	for {
		select {
		case <-w.stopChan:
			log.Printf("👷 Worker #%d stopped\n", workerID)
			return
		case <-ctx.Done():
			return
		case task := <-w.taskQueue:
			taskCtx, cancel := context.WithTimeout(ctx, indexTaskTimeout)
			err := w.index.IndexCandidate(taskCtx, task)
			cancel()

			if err != nil {
				log.Printf("❌ Worker #%d failed to index %s: %v\n", workerID, task.FileName, err)
				w.metrics.RecordIndexTask(false)
				continue
			}
			log.Printf("✅ Worker #%d indexed %s for job %s\n", workerID, task.FileName, task.JobID)
			w.metrics.RecordIndexTask(true)
		}
	}
}
