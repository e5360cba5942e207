package mailqueue

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/thefreewebsitewizards/leadneedle/internal/observability/metrics"
	"github.com/thefreewebsitewizards/leadneedle/pkg/logging"
)

const (
	defaultMaxAttempts    = 3
	defaultPollInterval   = time.Second
	defaultBackoffUnit    = time.Second
	defaultAttemptTimeout = 30 * time.Second
)

// Stats is a point-in-time snapshot of queue counters. Approximate under
// concurrent mutation; counters never decrease.
type Stats struct {
	QueuedTotal uint64 `json:"queued_total"`
	SentTotal   uint64 `json:"sent_total"`
	FailedTotal uint64 `json:"failed_total"`
	Depth       int    `json:"depth"`
	WorkerAlive bool   `json:"worker_alive"`
}

// Queue is an in-process FIFO of outbound emails drained by a single
// background worker. Construct one per process and pass it to callers;
// there is no package-level instance.
type Queue struct {
	transport      Transport
	logger         *logging.Logger
	metrics        *metrics.MailQueueMetrics
	pollInterval   time.Duration
	backoffUnit    time.Duration
	maxAttempts    int
	attemptTimeout time.Duration
	autoStart      bool

	mu   sync.Mutex
	jobs []*EmailJob

	queuedTotal atomic.Uint64
	sentTotal   atomic.Uint64
	failedTotal atomic.Uint64
	inflight    atomic.Int64
	running     atomic.Bool

	workerMu   sync.Mutex
	workerDone chan struct{}
}

// Option configures a Queue.
type Option func(*Queue)

func WithLogger(logger *logging.Logger) Option {
	return func(q *Queue) {
		if logger != nil {
			q.logger = logger
		}
	}
}

func WithMetrics(m *metrics.MailQueueMetrics) Option {
	return func(q *Queue) { q.metrics = m }
}

func WithPollInterval(d time.Duration) Option {
	return func(q *Queue) {
		if d > 0 {
			q.pollInterval = d
		}
	}
}

func WithBackoffUnit(d time.Duration) Option {
	return func(q *Queue) {
		if d > 0 {
			q.backoffUnit = d
		}
	}
}

func WithMaxAttempts(n int) Option {
	return func(q *Queue) {
		if n > 0 {
			q.maxAttempts = n
		}
	}
}

func WithAttemptTimeout(d time.Duration) Option {
	return func(q *Queue) {
		if d > 0 {
			q.attemptTimeout = d
		}
	}
}

// New creates a queue draining into the given transport. The worker starts
// lazily on first Enqueue.
func New(transport Transport, opts ...Option) *Queue {
	q := &Queue{
		transport:      transport,
		logger:         logging.Default(),
		pollInterval:   defaultPollInterval,
		backoffUnit:    defaultBackoffUnit,
		maxAttempts:    defaultMaxAttempts,
		attemptTimeout: defaultAttemptTimeout,
		autoStart:      true,
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Enqueue appends a job and returns immediately; delivery happens on the
// background worker. Restarts the worker if a previous one has exited.
func (q *Queue) Enqueue(job *EmailJob) {
	if job == nil {
		return
	}
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}
	if job.MaxAttempts <= 0 {
		job.MaxAttempts = q.maxAttempts
	}
	if job.EnqueuedAt.IsZero() {
		job.EnqueuedAt = time.Now().UTC()
	}
	job.State = StateQueued

	q.mu.Lock()
	q.jobs = append(q.jobs, job)
	depth := len(q.jobs)
	q.mu.Unlock()

	q.queuedTotal.Add(1)
	q.metrics.ObserveQueued(string(job.Type))
	q.metrics.SetDepth(depth)
	q.logger.Info("email queued",
		"job_id", job.ID,
		"type", job.Type,
		"to", job.To,
		"depth", depth,
	)

	if q.autoStart {
		q.ensureWorker()
	}
}

// ensureWorker starts the background worker when none is alive. The done
// channel, not a flag, decides liveness: a worker that exited for any reason
// leaves a closed channel behind and is replaced here.
func (q *Queue) ensureWorker() {
	q.workerMu.Lock()
	defer q.workerMu.Unlock()

	if q.workerDone != nil {
		select {
		case <-q.workerDone:
			// previous worker exited; fall through and restart
		default:
			return
		}
	}

	q.running.Store(true)
	done := make(chan struct{})
	q.workerDone = done
	go q.workerLoop(done)
}

func (q *Queue) workerLoop(done chan struct{}) {
	defer close(done)
	q.logger.Info("email worker started")

	for q.running.Load() {
		job := q.pop()
		if job == nil {
			time.Sleep(q.pollInterval)
			continue
		}
		q.deliver(job)
		q.inflight.Add(-1)
	}

	q.logger.Info("email worker stopped")
}

// pop removes the head job and marks it in flight under the same lock, so a
// drain caller never observes the job as neither queued nor in flight.
func (q *Queue) pop() *EmailJob {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.jobs) == 0 {
		return nil
	}
	job := q.jobs[0]
	q.jobs = q.jobs[1:]
	q.inflight.Add(1)
	q.metrics.SetDepth(len(q.jobs))
	return job
}

func (q *Queue) depth() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.jobs)
}

// Stats returns a non-blocking snapshot of queue counters.
func (q *Queue) Stats() Stats {
	return Stats{
		QueuedTotal: q.queuedTotal.Load(),
		SentTotal:   q.sentTotal.Load(),
		FailedTotal: q.failedTotal.Load(),
		Depth:       q.depth(),
		WorkerAlive: q.workerAlive(),
	}
}

func (q *Queue) workerAlive() bool {
	q.workerMu.Lock()
	defer q.workerMu.Unlock()
	if q.workerDone == nil {
		return false
	}
	select {
	case <-q.workerDone:
		return false
	default:
		return true
	}
}

// DrainAndWait blocks until every enqueued job reached a terminal state or
// the timeout elapsed. Shutdown/test paths only.
func (q *Queue) DrainAndWait(timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for {
		if q.depth() == 0 && q.inflight.Load() == 0 {
			return true
		}
		if time.Now().After(deadline) {
			q.logger.Warn("drain timed out", "remaining", q.depth())
			return false
		}
		time.Sleep(20 * time.Millisecond)
	}
}

// Shutdown stops the worker after its current attempt and waits up to
// timeout for it to exit. Best-effort: a false return means the worker was
// still busy when the timeout elapsed.
func (q *Queue) Shutdown(timeout time.Duration) bool {
	q.running.Store(false)

	q.workerMu.Lock()
	done := q.workerDone
	q.workerMu.Unlock()
	if done == nil {
		return true
	}

	select {
	case <-done:
		return true
	case <-time.After(timeout):
		q.logger.Warn("worker did not exit before shutdown timeout")
		return false
	}
}
