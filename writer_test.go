package ringlog

import (
	"bytes"
	"errors"
	"sync"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memWriter is a test Writer backed by an in-memory buffer, with knobs to
// inject a fixed number of RetryLater/GiveUp responses before succeeding.
type memWriter struct {
	mu          sync.Mutex
	buf         bytes.Buffer
	retriesLeft int
	giveUp      bool
	fatal       bool
	closed      bool
}

func (w *memWriter) Write(buf []byte) (WriteResult, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.fatal {
		return WriteFatal, errors.New("unexpected sink corruption")
	}
	if w.giveUp {
		return WriteGiveUp, errors.New("sink permanently unavailable")
	}
	if w.retriesLeft > 0 {
		w.retriesLeft--
		return WriteRetryLater, syscall.ENOSPC
	}
	w.buf.Write(buf)
	return WriteSuccess, nil
}

func (w *memWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	return nil
}

func (w *memWriter) String() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.String()
}

func TestClassifyWriteErr(t *testing.T) {
	res, _ := classifyWriteErr(syscall.ENOSPC)
	assert.Equal(t, WriteRetryLater, res)

	res, _ = classifyWriteErr(syscall.EPIPE)
	assert.Equal(t, WriteGiveUp, res)

	res, err := classifyWriteErr(nil)
	assert.Equal(t, WriteSuccess, res)
	require.NoError(t, err)
}

// TestClassifyWriteErrFatalForUnknownErrors covers an error that is neither
// ENOSPC nor in the enumerated permanent-failure list: it must escalate as
// WriteFatal rather than being absorbed into the ordinary GiveUp swallow
// state like a routine EPIPE would be.
func TestClassifyWriteErrFatalForUnknownErrors(t *testing.T) {
	res, err := classifyWriteErr(errors.New("unexpected sink corruption"))
	assert.Equal(t, WriteFatal, res)
	require.Error(t, err)
}

func TestMultiWriterEscalatesToWorstResult(t *testing.T) {
	ok := &memWriter{}
	failing := &memWriter{giveUp: true}
	mw := NewMultiWriter(ok, failing)

	res, err := mw.Write([]byte("hello"))
	assert.Equal(t, WriteGiveUp, res)
	require.Error(t, err)
}
