// Package ringlog is a low-latency asynchronous logging core.
//
// Overview:
// ringlog moves the cost of serializing and writing a log record off the
// calling goroutine. Each producer owns a lock-free ring buffer; a single
// background worker drains every ring through a shared handoff queue,
// dispatches each frame to a registered formatter, and flushes the result to
// a pluggable Writer. The design favors a wait-free fast path over strict
// ordering or durability guarantees — see the key properties below
// before reaching for this over a conventional synchronous logger.
//
// Key properties:
//   - Per-goroutine ring buffers: no lock contention between producers.
//   - Wait-free frame allocation on the common path; producers only block
//     when their own ring or the shared queue is genuinely full.
//   - A single consumer goroutine owns the sink; no writer-side locking.
//   - Pluggable Writer with Success/RetryLater/GiveUp semantics instead of a
//     single binary success/failure.
//   - Optional rate limiting and Prometheus metrics.
//
// Getting started:
//
//	writer, err := ringlog.NewFileWriter("app.log")
//	if err != nil {
//	    panic(err)
//	}
//	rt, err := ringlog.New(writer)
//	if err != nil {
//	    panic(err)
//	}
//	defer rt.Shutdown(context.Background())
//
//	logger := ringlog.NewLogger(rt)
//	logger.Info("service starting")
//	logger.Infof("listening on %s", addr)
//
// Producer handles:
//
// Goroutines have no thread-local storage, so there is no implicit
// "current" ring the way the C++ original of this design keeps one per
// thread. Call rt.NewProducer() once per goroutine that logs and reuse the
// handle; a *Producer is not safe for concurrent use by more than one
// goroutine at a time.
//
// Dispatch registry:
//
// The ring only ever stores an 8-byte dispatch tag followed by an opaque
// payload; it has no notion of a format string. Runtime.RegisterDispatch
// associates a tag with a function that knows how to turn that payload into
// bytes in the OutputBuffer. The built-in Logger facade registers a small
// set of tags for its own use; callers needing a custom wire shape can
// register their own.
//
// Backpressure:
//
// A producer whose ring is full blocks in AllocateFrame until the consumer
// catches up; a producer publishing into a full shared queue blocks in
// Commit. Neither case drops data silently — see Config.ErrorHandler and the
// sink GiveUp behavior in outputbuffer.go for the one case where bytes are
// deliberately discarded.
package ringlog
