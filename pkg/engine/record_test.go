package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameValue_RoundTrip(t *testing.T) {
	rec := frameValue([]byte("hello"))

	kind, payload, err := unframe(rec)
	require.NoError(t, err)
	assert.Equal(t, recordValue, kind)
	assert.Equal(t, []byte("hello"), payload)
}

func TestFrameOperands_RoundTrip(t *testing.T) {
	ops := [][]byte{[]byte("a"), {}, []byte("longer operand")}
	rec := frameOperands(ops)

	kind, payload, err := unframe(rec)
	require.NoError(t, err)
	require.Equal(t, recordOperands, kind)

	got, err := unpackOperands(payload)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []byte("a"), got[0])
	assert.Empty(t, got[1])
	assert.Equal(t, []byte("longer operand"), got[2])
}

func TestUnframe_RejectsGarbage(t *testing.T) {
	_, _, err := unframe(nil)
	assert.Error(t, err)

	_, _, err = unframe([]byte{0x7f, 1, 2})
	assert.Error(t, err)
}

func TestUnpackOperands_RejectsTruncation(t *testing.T) {
	rec := frameOperands([][]byte{[]byte("abcdef")})
	_, payload, err := unframe(rec)
	require.NoError(t, err)

	_, err = unpackOperands(payload[:len(payload)-2])
	assert.Error(t, err)

	_, err = unpackOperands(nil)
	assert.Error(t, err)
}
