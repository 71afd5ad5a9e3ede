package ringlog

import "time"

// outputWorker drains the shared queue and dispatches frames. It runs on
// exactly one goroutine, started by Runtime.New and joined by
// Runtime.Shutdown.
type outputWorker struct {
	queue      *sharedInputQueue
	output     *OutputBuffer
	registry   *dispatchRegistry
	backoffMin time.Duration
	backoffMax time.Duration
	metrics    *metrics
	errHandler func(error)

	done chan struct{}
}

func newOutputWorker(q *sharedInputQueue, ob *OutputBuffer, reg *dispatchRegistry, cfg *Config, m *metrics) *outputWorker {
	return &outputWorker{
		queue:      q,
		output:     ob,
		registry:   reg,
		backoffMin: cfg.BackoffStart,
		backoffMax: cfg.BackoffMax,
		metrics:    m,
		errHandler: cfg.ErrorHandler,
		done:       make(chan struct{}),
	}
}

// run is the consumer loop described in SPEC_FULL.md §4.6: pop with
// exponential backoff, signal the producer-side event, detect the shutdown
// sentinel, drain one extent's frames, flush.
func (w *outputWorker) run() {
	defer close(w.done)
	wait := time.Duration(0)
	for {
		ce, ok := w.queue.pop()
		if !ok {
			if w.queue.queueFullEvent.WaitTimeout(wait) && w.metrics != nil {
				w.metrics.queueFullEvents.Inc()
			}
			if wait == 0 {
				wait = w.backoffMin
			} else {
				wait *= 2
			}
			if wait > w.backoffMax {
				wait = w.backoffMax
			}
			continue
		}
		wait = 0
		w.queue.inputConsumedEvent.Signal()
		if w.metrics != nil {
			w.metrics.queueDepth.Set(float64(w.queue.depth()))
		}

		if ce.ring == nil {
			_ = w.output.Flush()
			return
		}

		w.drain(ce)
		if err := w.output.Flush(); err != nil && w.errHandler != nil {
			w.errHandler(err)
		}
	}
}

func (w *outputWorker) drain(ce commitExtent) {
	ring := ce.ring
	p := ring.InputStart()
	for p != ce.commitEnd {
		frame := ring.byteAt(p)
		tag := getTag(frame)
		if tag == wraparoundMarker {
			if w.metrics != nil {
				w.metrics.wraparounds.Inc()
			}
			p = ring.Wraparound()
			continue
		}

		fn, ok := w.registry.lookup(tag)
		if !ok {
			if w.errHandler != nil {
				w.errHandler(ErrUnregisteredDispatch)
			}
			debugAssert(false, "unregistered dispatch tag encountered in drain")
			return
		}

		size, dispatchErr := fn(w.output, frame[tagSize:])
		if dispatchErr != nil && w.errHandler != nil {
			w.errHandler(dispatchErr)
		}
		if w.metrics != nil {
			w.metrics.framesDispatched.Inc()
		}
		p = ring.DiscardFrame(size)
	}
}
