package pool

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dtnitsch/keyword-extractor/models"
	"github.com/dtnitsch/keyword-extractor/pkg/docsource"
	"github.com/dtnitsch/keyword-extractor/pkg/extractor"
)

// Defaults used when the corresponding Pool field is left zero.
const (
	DefaultWorkers     = 2
	DefaultIdleTimeout = time.Second
)

// Failure stages.
const (
	StageRead    = "read"
	StageExtract = "extract"
)

// Extractor is the single-call keyword extraction used by workers.
type Extractor interface {
	Extract(ctx context.Context, text string) extractor.Outcome
}

// Pool runs extraction for a batch of documents on a fixed number of workers.
type Pool struct {
	Workers     int
	IdleTimeout time.Duration
	Extractor   Extractor
	// Load reads a document's text; docsource.Load when nil.
	Load func(models.Document) (string, error)
	// Logger defaults to a discard logger.
	Logger *slog.Logger
	// Console receives one ✓/✗ line per document when set.
	Console io.Writer

	consoleMu sync.Mutex
	completed atomic.Int64
	failed    atomic.Int64
}

// run holds the settings of one Run call with defaults resolved.
type run struct {
	pool        *Pool
	idleTimeout time.Duration
	load        func(models.Document) (string, error)
	logger      *slog.Logger
	results     chan<- models.ExtractionResult
	failures    chan<- models.Failure
}

// Run processes every document exactly once and returns the result and
// failure queues, both closed and ready to drain. All documents are queued
// before the first worker starts; workers exit once the queue is empty.
// The Pool's fields are only read, so one Pool may serve concurrent runs.
func (p *Pool) Run(ctx context.Context, docs []models.Document) (<-chan models.ExtractionResult, <-chan models.Failure) {
	workers := p.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	results := make(chan models.ExtractionResult, len(docs))
	failures := make(chan models.Failure, len(docs))

	r := &run{
		pool:        p,
		idleTimeout: p.IdleTimeout,
		load:        p.Load,
		logger:      p.Logger,
		results:     results,
		failures:    failures,
	}
	if r.idleTimeout <= 0 {
		r.idleTimeout = DefaultIdleTimeout
	}
	if r.load == nil {
		r.load = docsource.Load
	}
	if r.logger == nil {
		r.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	p.completed.Store(0)
	p.failed.Store(0)

	queue := NewTaskQueue(len(docs))
	for _, doc := range docs {
		queue.Put(doc)
	}
	queue.Close()

	r.logger.Info("Starting extraction workers", "documents", len(docs), "workers", workers)
	var wg sync.WaitGroup
	for w := 1; w <= workers; w++ {
		wg.Add(1)
		go r.worker(ctx, w, len(docs), &wg, queue)
	}

	queue.Join()
	wg.Wait()
	close(results)
	close(failures)
	r.logger.Info("All extraction workers finished", "completed", p.completed.Load(), "failed", p.failed.Load())

	return results, failures
}

// Completed returns how many documents the last Run finished, successful or not.
func (p *Pool) Completed() int {
	return int(p.completed.Load())
}

// Failed returns how many documents the last Run could not extract.
func (p *Pool) Failed() int {
	return int(p.failed.Load())
}

// worker pulls documents until the queue reports no more work.
func (r *run) worker(ctx context.Context, id, total int, wg *sync.WaitGroup, queue *TaskQueue) {
	defer wg.Done()
	r.logger.Debug("Worker started", "worker_id", id)

	for {
		doc, ok := queue.Get(r.idleTimeout)
		if !ok {
			break
		}
		r.process(ctx, id, doc)
		queue.Done()

		n := r.pool.completed.Add(1)
		r.logger.Info("Progress", "worker_id", id, "completed", n, "total", total)
	}

	r.logger.Debug("Worker finished", "worker_id", id)
}

// process handles one document. Exactly one value reaches results or
// failures per document, even if reporting the outcome panics.
func (r *run) process(ctx context.Context, id int, doc models.Document) {
	recorded := false
	defer func() {
		v := recover()
		if v == nil {
			return
		}
		if recorded {
			r.logger.Error("Panic after outcome was recorded", "worker_id", id, "document", doc.Name, "panic", fmt.Sprint(v))
			return
		}
		r.fail(id, models.Failure{Document: doc.Name, Stage: StageExtract, Reason: fmt.Sprintf("panic: %v", v)}, &recorded)
	}()

	r.logger.Info("Worker started job", "worker_id", id, "document", doc.Name)

	text, err := r.load(doc)
	if err != nil {
		r.fail(id, models.Failure{Document: doc.Name, Stage: StageRead, Reason: err.Error()}, &recorded)
		return
	}

	out := r.pool.Extractor.Extract(ctx, text)
	if !out.OK() {
		r.fail(id, models.Failure{Document: doc.Name, Stage: StageExtract, Reason: out.Reason}, &recorded)
		return
	}

	r.results <- models.ExtractionResult{Document: doc.Name, Keywords: out.Keywords}
	recorded = true
	r.pool.printf("✓ %s: %s\n", doc.Name, strings.Join(out.Keywords, ", "))
	r.logger.Info("Worker finished job", "worker_id", id, "document", doc.Name, "keywords", len(out.Keywords))
}

// fail records f and then reports it. A panic while reporting is logged
// and does not produce a second failure.
func (r *run) fail(id int, f models.Failure, recorded *bool) {
	r.pool.failed.Add(1)
	r.failures <- f
	*recorded = true

	defer func() {
		if v := recover(); v != nil {
			r.logger.Error("Failed to report document failure", "document", f.Document, "panic", fmt.Sprint(v))
		}
	}()
	r.pool.printf("✗ %s: %s failed - %s\n", f.Document, f.Stage, f.Reason)
	r.logger.Error("Document failed", "worker_id", id, "document", f.Document, "stage", f.Stage, "error", f.Reason)
}

func (p *Pool) printf(format string, args ...any) {
	if p.Console == nil {
		return
	}
	p.consoleMu.Lock()
	defer p.consoleMu.Unlock()
	fmt.Fprintf(p.Console, format, args...)
}
