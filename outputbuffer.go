package ringlog

// DefaultMaxOutputBufferSize is the default OutputBuffer capacity: 1 MiB,
// matching the reference implementation's default.
const DefaultMaxOutputBufferSize = 1 << 20

// OutputBuffer stages formatted bytes for the sink. It is owned exclusively
// by the OutputWorker goroutine — no locking.
type OutputBuffer struct {
	buf       []byte
	commitEnd int

	writer       Writer
	sinkGivenUp  bool
	maxRetries   int
	errorHandler func(error)
	metrics      *metrics
}

func newOutputBuffer(maxSize int, writer Writer, maxRetries int, errorHandler func(error), m *metrics) *OutputBuffer {
	if maxSize <= 0 {
		maxSize = DefaultMaxOutputBufferSize
	}
	return &OutputBuffer{
		buf:          make([]byte, maxSize),
		writer:       writer,
		maxRetries:   maxRetries,
		errorHandler: errorHandler,
		metrics:      m,
	}
}

// Reserve returns a contiguous writable slice of n bytes, flushing first if
// there isn't currently room. Returns ErrCapacityExceeded if n can never
// fit even in an empty buffer.
func (ob *OutputBuffer) Reserve(n int) ([]byte, error) {
	if n > len(ob.buf) {
		return nil, ErrCapacityExceeded
	}
	if ob.commitEnd+n > len(ob.buf) {
		if err := ob.Flush(); err != nil {
			return nil, err
		}
	}
	if ob.commitEnd+n > len(ob.buf) {
		return nil, ErrCapacityExceeded
	}
	return ob.buf[ob.commitEnd : ob.commitEnd+n], nil
}

// Commit advances the buffer past the n bytes written into the slice
// returned by the immediately preceding Reserve call.
func (ob *OutputBuffer) Commit(n int) {
	ob.commitEnd += n
}

// Flush writes everything committed so far to the sink and resets the
// buffer, unless the sink has already given up — in which case bytes are
// discarded so rings keep draining instead of backing up behind a dead
// sink.
func (ob *OutputBuffer) Flush() error {
	if ob.commitEnd == 0 {
		return nil
	}
	if ob.sinkGivenUp {
		ob.commitEnd = 0
		return nil
	}

	attempts := 0
	for {
		res, err := ob.writer.Write(ob.buf[:ob.commitEnd])
		switch res {
		case WriteSuccess:
			if ob.metrics != nil {
				ob.metrics.bytesFlushed.Add(float64(ob.commitEnd))
			}
			ob.commitEnd = 0
			return nil
		case WriteRetryLater:
			attempts++
			if attempts > ob.maxRetries {
				ob.giveUp(err)
				return nil
			}
			continue
		case WriteGiveUp:
			ob.giveUp(err)
			return nil
		case WriteFatal:
			ob.commitEnd = 0
			return err
		default:
			ob.commitEnd = 0
			return err
		}
	}
}

func (ob *OutputBuffer) giveUp(err error) {
	ob.sinkGivenUp = true
	ob.commitEnd = 0
	if ob.metrics != nil {
		ob.metrics.sinkGiveUps.Inc()
	}
	if ob.errorHandler != nil {
		ob.errorHandler(err)
	}
}
