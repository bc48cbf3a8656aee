// Package queue decouples webhook acknowledgment from pipeline work. The
// handler enqueues and returns 200 immediately; workers process in the
// background. Failures are logged here rather than swallowed by a detached
// goroutine, and a lost event is recovered by upstream redelivery.
package queue

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/sarim-alis/redemption-solutionsss-sub000/internal/app/models"
)

type Processor interface {
	ProcessEvent(ctx context.Context, event *models.InboundEvent) error
}

type Queue struct {
	processor Processor
	jobs      chan *models.InboundEvent
	workers   int

	mu      sync.Mutex
	started bool
	stopped bool
	wg      sync.WaitGroup
}

func New(processor Processor, workers, capacity int) *Queue {
	if workers < 1 {
		workers = 1
	}
	if capacity < 1 {
		capacity = 1
	}
	return &Queue{
		processor: processor,
		jobs:      make(chan *models.InboundEvent, capacity),
		workers:   workers,
	}
}

func (q *Queue) Start() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.started {
		return
	}
	q.started = true

	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.work()
	}
	logrus.WithField("workers", q.workers).Info("event queue started")
}

// Enqueue hands one event to the workers without blocking the caller. A full
// queue drops the event with a log line; the platform will redeliver.
func (q *Queue) Enqueue(event *models.InboundEvent) bool {
	q.mu.Lock()
	if q.stopped {
		q.mu.Unlock()
		return false
	}
	q.mu.Unlock()

	select {
	case q.jobs <- event:
		return true
	default:
		logrus.WithField("topic", event.Topic).
			Warn("event queue full, dropping event and relying on redelivery")
		return false
	}
}

// Stop drains already-accepted events and waits for workers to finish.
func (q *Queue) Stop() {
	q.mu.Lock()
	if q.stopped {
		q.mu.Unlock()
		return
	}
	q.stopped = true
	q.mu.Unlock()

	close(q.jobs)
	q.wg.Wait()
	logrus.Info("event queue stopped")
}

func (q *Queue) work() {
	defer q.wg.Done()
	for event := range q.jobs {
		if err := q.processor.ProcessEvent(context.Background(), event); err != nil {
			logrus.WithField("topic", event.Topic).
				WithError(err).
				Error("event processing failed, awaiting redelivery")
		}
	}
}
