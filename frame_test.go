package ringlog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlignFrameSize(t *testing.T) {
	cases := map[int]int{0: 0, 1: 8, 7: 8, 8: 8, 9: 16, 16: 16, 17: 24}
	for in, want := range cases {
		assert.Equal(t, want, AlignFrameSize(in), "AlignFrameSize(%d)", in)
	}
}

func TestDispatchRegistryRejectsReservedTags(t *testing.T) {
	r := newDispatchRegistry()
	noop := func(ob *OutputBuffer, payload []byte) (int, error) { return 0, nil }

	require.Error(t, r.register(0, noop))
	require.Error(t, r.register(wraparoundMarker, noop))
}

func TestDispatchRegistryRejectsDuplicateTags(t *testing.T) {
	r := newDispatchRegistry()
	noop := func(ob *OutputBuffer, payload []byte) (int, error) { return 0, nil }

	require.NoError(t, r.register(1, noop))
	require.Error(t, r.register(1, noop))
}

func TestTagRoundTrip(t *testing.T) {
	buf := make([]byte, tagSize)
	putTag(buf, DispatchTag(42))
	assert.Equal(t, DispatchTag(42), getTag(buf))
}
