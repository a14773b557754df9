// Package pool distributes document extraction across a fixed set of workers.
package pool

import (
	"sync"
	"time"

	"github.com/dtnitsch/keyword-extractor/models"
)

// TaskQueue is a FIFO of pending documents. Every document put on the queue
// is delivered to exactly one Get caller, and Join waits until each delivered
// document has been marked Done.
type TaskQueue struct {
	tasks     chan models.Document
	pending   sync.WaitGroup
	closeOnce sync.Once
}

// NewTaskQueue creates a queue that holds up to capacity undelivered documents.
// Put blocks while the queue is full.
func NewTaskQueue(capacity int) *TaskQueue {
	if capacity < 0 {
		capacity = 0
	}
	return &TaskQueue{tasks: make(chan models.Document, capacity)}
}

// Put enqueues a document. It must not be called after Close.
func (q *TaskQueue) Put(doc models.Document) {
	q.pending.Add(1)
	q.tasks <- doc
}

// Close marks the end of input. Get then drains what is left and reports
// ok=false without waiting once the queue is empty.
func (q *TaskQueue) Close() {
	q.closeOnce.Do(func() { close(q.tasks) })
}

// Get dequeues the next document, waiting at most timeout. ok is false when
// nothing arrived in time or the queue is closed and empty.
func (q *TaskQueue) Get(timeout time.Duration) (models.Document, bool) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case doc, ok := <-q.tasks:
		return doc, ok
	case <-timer.C:
		return models.Document{}, false
	}
}

// Done marks one dequeued document as fully processed.
func (q *TaskQueue) Done() {
	q.pending.Done()
}

// Join blocks until every enqueued document has been marked Done.
func (q *TaskQueue) Join() {
	q.pending.Wait()
}
