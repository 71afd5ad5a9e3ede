package ringlog

import "sync/atomic"

// DefaultInputBufferSize is the default capacity, in bytes, of one
// producer's ring.
const DefaultInputBufferSize = 8 * 4096

// InputBuffer is a single-producer/single-consumer lock-free ring of
// frames. It is owned by exactly one *Producer (the producer role) and
// drained by exactly one OutputWorker goroutine (the consumer role).
//
// Offsets, not pointers: the distilled design this is ported from expresses
// cursors as pointers into a malloc'd region. Go slices already carry
// their own bounds, so every cursor here is a byte offset into buf — the
// arithmetic is identical, just without unsafe pointer math.
type InputBuffer struct {
	buf []byte

	// inputEnd is the producer cursor: byte offset of the next free slot.
	// Written only by the owning producer; read by the consumer.
	inputEnd atomic.Uint64

	// commitEnd is the producer's local not-yet-published cursor. It is
	// never touched by any goroutine other than the owning producer, so it
	// needs no synchronization.
	commitEnd uint64

	// inputStart is the consumer cursor: byte offset of the oldest
	// not-yet-discarded frame. Written only by the consumer; read by the
	// producer.
	inputStart atomic.Uint64

	// inputConsumed is signaled by the consumer after it discards a frame
	// from this specific ring, and waited on by this ring's producer when
	// it runs out of space.
	inputConsumed *spscEvent

	queue *sharedInputQueue
}

func newInputBuffer(capacity int, queue *sharedInputQueue) *InputBuffer {
	if capacity <= 0 {
		capacity = DefaultInputBufferSize
	}
	capacity = AlignFrameSize(capacity)
	return &InputBuffer{
		buf:           make([]byte, capacity),
		inputConsumed: newSPSCEvent(),
		queue:         queue,
	}
}

func (ib *InputBuffer) capacity() int { return len(ib.buf) }

// advance moves offset forward by distance, wrapping at the ring's physical
// end. A frame is never split across the wrap point — the wraparound
// marker exists precisely so offsets landing near the end jump to 0 instead
// of splitting.
func (ib *InputBuffer) advance(offset, distance uint64) uint64 {
	next := offset + distance
	if next == uint64(len(ib.buf)) {
		return 0
	}
	return next
}

// AllocateFrame reserves size bytes (already FrameAlignment-aligned by the
// caller) for a new frame, blocking on this ring's own backpressure if
// necessary. It returns the writable slice for the frame, starting at the
// dispatch tag.
//
// AllocateFrame never allocates right up to making inputStart == inputEnd
// mean "full" — the strict size < free (not <=) comparisons below preserve
// the same disambiguation the consumer relies on in InputStart/DiscardFrame.
func (ib *InputBuffer) AllocateFrame(size int) ([]byte, error) {
	if size >= len(ib.buf) {
		return nil, ErrFrameTooLarge
	}
	u := uint64(size)
	for {
		e := ib.inputEnd.Load()
		s := ib.inputStart.Load()
		c := uint64(len(ib.buf))

		if s > e {
			// Contiguous free region between e and s.
			free := s - e
			if u < free {
				ib.inputEnd.Store(ib.advance(e, u))
				return ib.buf[e : e+u], nil
			}
		} else {
			free1 := c - e // tail segment
			free2 := s     // head segment
			if u < free1 {
				ib.inputEnd.Store(ib.advance(e, u))
				return ib.buf[e : e+u], nil
			}
			if u < free2 {
				putTag(ib.buf[e:], wraparoundMarker)
				ib.inputEnd.Store(u)
				return ib.buf[0:u], nil
			}
		}

		if err := ib.waitInputConsumed(); err != nil {
			return nil, err
		}
	}
}

// waitInputConsumed blocks until the consumer has freed more space in this
// ring. If the consumer has already drained everything up to the last
// commit boundary, it has nothing queued left to eventually signal — so the
// producer commits its newly-written frames first, mirroring the reference
// wait_input_consumed's "if(commit_end == input_start) commit()" check,
// rather than otherwise waiting forever on a consumer with nothing to do.
func (ib *InputBuffer) waitInputConsumed() error {
	if ib.commitEnd == ib.inputStart.Load() {
		if err := ib.commit(); err != nil {
			return err
		}
	}
	ib.inputConsumed.Wait()
	return nil
}

// commit publishes every frame written since the last commit by pushing a
// commitExtent into the shared queue.
func (ib *InputBuffer) commit() error {
	end := ib.inputEnd.Load()
	if end == ib.commitEnd {
		return nil
	}
	if err := ib.queue.queueCommitExtent(commitExtent{ring: ib, commitEnd: end}); err != nil {
		return err
	}
	ib.commitEnd = end
	return nil
}

// InputStart returns the consumer's current cursor. Called only by the
// OutputWorker.
func (ib *InputBuffer) InputStart() uint64 {
	return ib.inputStart.Load()
}

// DiscardFrame advances the consumer cursor past a frame of size bytes and
// signals the producer that space has been freed. Called only by the
// OutputWorker.
func (ib *InputBuffer) DiscardFrame(size int) uint64 {
	next := ib.advance(ib.inputStart.Load(), uint64(size))
	ib.inputStart.Store(next)
	ib.inputConsumed.Signal()
	return next
}

// Wraparound advances the consumer cursor to the physical start of the
// ring after encountering a wraparound marker. It does not signal — the
// space reclaimed by the marker itself is not payload space a producer can
// reuse without the matching DiscardFrame of the frame that follows.
func (ib *InputBuffer) Wraparound() uint64 {
	s := ib.inputStart.Load()
	debugAssert(getTag(ib.buf[s:]) == wraparoundMarker, "wraparound() called at a non-marker offset")
	ib.inputStart.Store(0)
	return 0
}

// byteAt returns the byte slice starting at offset, for the worker to read
// a frame's tag and payload.
func (ib *InputBuffer) byteAt(offset uint64) []byte {
	return ib.buf[offset:]
}
