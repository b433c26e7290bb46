package jobs

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
)

// ErrQueueFull is returned by Submit when no queue slot is free.
var ErrQueueFull = errors.New("report queue is full")

// Generator produces the report file for a report id.
type Generator interface {
	Generate(ctx context.Context, reportID string) (string, error)
}

// WorkerPool runs report jobs on a fixed number of goroutines.
type WorkerPool struct {
	size    int
	jobs    chan string
	tracker *Tracker
	gen     Generator
	wg      sync.WaitGroup
}

// NewWorkerPool creates a new worker pool.
func NewWorkerPool(size, queueSize int, tracker *Tracker, gen Generator) *WorkerPool {
	if size <= 0 {
		size = 1
	}
	if queueSize <= 0 {
		queueSize = size
	}
	return &WorkerPool{
		size:    size,
		jobs:    make(chan string, queueSize),
		tracker: tracker,
		gen:     gen,
	}
}

// Start launches the worker goroutines.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		wp.wg.Add(1)
		go wp.worker(ctx, i)
	}
}

// Wait blocks until every worker has returned after ctx was cancelled.
// Jobs still queued at that point are marked as failed.
func (wp *WorkerPool) Wait() {
	wp.wg.Wait()
}

func (wp *WorkerPool) worker(ctx context.Context, id int) {
	defer wp.wg.Done()
	log.Printf("Worker %d started", id)
	for {
		select {
		case reportID := <-wp.jobs:
			log.Printf("Worker %d generating report %s", id, reportID)
			wp.run(ctx, reportID)
		case <-ctx.Done():
			log.Printf("Worker %d shutting down", id)
			wp.drain(ctx.Err())
			return
		}
	}
}

// drain fails every job still queued so none is left Running.
func (wp *WorkerPool) drain(err error) {
	for {
		select {
		case reportID := <-wp.jobs:
			log.Printf("Report %s dropped at shutdown", reportID)
			wp.tracker.Fail(reportID, err)
		default:
			return
		}
	}
}

// run generates one report. A panic fails only this job.
func (wp *WorkerPool) run(ctx context.Context, reportID string) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Report %s panicked: %v", reportID, r)
			wp.tracker.Fail(reportID, fmt.Errorf("internal error: %v", r))
		}
	}()

	path, err := wp.gen.Generate(ctx, reportID)
	if err != nil {
		log.Printf("Report %s failed: %v", reportID, err)
		wp.tracker.Fail(reportID, err)
		return
	}
	log.Printf("Report %s written to %s", reportID, path)
	wp.tracker.Complete(reportID, path)
}

// Submit creates a job and queues it without blocking. The job id is
// returned immediately; the report is produced in the background.
func (wp *WorkerPool) Submit() (string, error) {
	job := wp.tracker.Create()
	select {
	case wp.jobs <- job.ID:
		return job.ID, nil
	default:
		wp.tracker.Remove(job.ID)
		return "", ErrQueueFull
	}
}
