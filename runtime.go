package ringlog

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// Runtime owns every piece of process-wide state the design this module is
// built from keeps as globals: the output buffer, the worker goroutine, the
// shared queue, and the dispatch registry. The Design Notes in SPEC_FULL.md
// resolve global mutable state into this explicit Runtime struct, since a
// package-level global would make it impossible to run two
// independent ringlog instances (e.g. in tests) in the same process.
type Runtime struct {
	cfg      Config
	queue    *sharedInputQueue
	output   *OutputBuffer
	registry *dispatchRegistry
	worker   *outputWorker
	metrics  *metrics
	limiter  *rate.Limiter
	writer   Writer

	mu        sync.Mutex
	producers []*Producer
	shutdown  bool
}

// New constructs a Runtime writing to writer and starts its worker
// goroutine. Registration of any custom dispatch tags must happen before
// the first producer commits — see RegisterDispatch.
func New(writer Writer, opts ...Option) (*Runtime, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	m := newMetrics(cfg.MetricsRegistry, cfg.MetricsNamespace)
	queue := newSharedInputQueue(cfg.SharedQueueCapacity)
	output := newOutputBuffer(cfg.MaxOutputBufferSize, writer, cfg.MaxFlushRetries, cfg.ErrorHandler, m)
	registry := newDispatchRegistry()

	rt := &Runtime{
		cfg:      cfg,
		queue:    queue,
		output:   output,
		registry: registry,
		metrics:  m,
		limiter:  cfg.rateLimiter(),
		writer:   writer,
	}
	rt.worker = newOutputWorker(queue, output, registry, &rt.cfg, m)
	go rt.worker.run()
	return rt, nil
}

// RegisterDispatch adds a dispatch function under tag. Must be called
// before any Producer using that tag allocates its first frame; the worker
// reads the registry without a lock (see frame.go).
func (rt *Runtime) RegisterDispatch(tag DispatchTag, fn DispatchFunc) error {
	return rt.registry.register(tag, fn)
}

// NewProducer allocates a fresh InputBuffer and returns a handle to it.
// Call this once per goroutine that logs; a *Producer is not safe for
// concurrent use by more than one goroutine.
func (rt *Runtime) NewProducer() *Producer {
	ib := newInputBuffer(rt.cfg.InputBufferSize, rt.queue)
	p := &Producer{ring: ib, limiter: rt.limiter}
	rt.mu.Lock()
	rt.producers = append(rt.producers, p)
	rt.mu.Unlock()
	return p
}

// Shutdown commits every still-open producer, publishes the shutdown
// sentinel, and joins the worker goroutine. It is bounded by ctx: a
// deadline that fires before the worker finishes draining means some
// already-committed data may not reach the sink, which is a caller opt-in
// documented in SPEC_FULL.md §5, not the default cooperative-join behavior
// this design otherwise guarantees.
func (rt *Runtime) Shutdown(ctx context.Context) error {
	rt.mu.Lock()
	if rt.shutdown {
		rt.mu.Unlock()
		return nil
	}
	rt.shutdown = true
	producers := rt.producers
	rt.mu.Unlock()

	for _, p := range producers {
		if err := p.Commit(); err != nil {
			return err
		}
	}
	if err := rt.queue.queueCommitExtent(commitExtent{ring: nil, commitEnd: 0}); err != nil {
		return err
	}

	select {
	case <-rt.worker.done:
	case <-ctx.Done():
		return ctx.Err()
	}
	return rt.writer.Close()
}

// Producer is an explicit per-goroutine handle onto one InputBuffer. It
// replaces the thread-local accessor the original design relies on, since
// goroutines have no equivalent of TLS and are not pinned to one OS
// thread.
type Producer struct {
	ring    *InputBuffer
	limiter *rate.Limiter
}

// AllocateFrame reserves size bytes (payload only; the tag is written
// automatically) tagged with tag, blocking on this producer's own ring if
// necessary. The returned slice is the payload region only — callers must
// not write to the tag bytes.
func (p *Producer) AllocateFrame(tag DispatchTag, payloadSize int) ([]byte, error) {
	total := AlignFrameSize(tagSize + payloadSize)
	frame, err := p.ring.AllocateFrame(total)
	if err != nil {
		return nil, err
	}
	putTag(frame, tag)
	return frame[tagSize : tagSize+payloadSize], nil
}

// Commit publishes every frame written since the last Commit on this
// producer's ring. If a rate limit was configured, Commit waits for a
// token before publishing rather than dropping the already-written frames.
func (p *Producer) Commit() error {
	if p.limiter != nil {
		if err := p.limiter.Wait(context.Background()); err != nil {
			return err
		}
	}
	return p.ring.commit()
}
