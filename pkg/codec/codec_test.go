package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInt32Codec_RoundTrip(t *testing.T) {
	c := Int32Codec{}
	for _, v := range []int32{0, 1, -1, 42, -2147483648, 2147483647} {
		n, ok := c.Size(v)
		require.True(t, ok)
		require.Equal(t, 4, n)

		buf := make([]byte, n)
		c.MarshalTo(v, buf)
		assert.Equal(t, v, c.Unmarshal(buf))

		// Append must produce identical bytes.
		assert.Equal(t, buf, c.Append(nil, v))
	}
}

func TestInt64Codec_RoundTrip(t *testing.T) {
	c := Int64Codec{}
	for _, v := range []int64{0, 5, -2, 10, -9223372036854775808, 9223372036854775807} {
		assert.Equal(t, v, c.Unmarshal(Marshal[int64](c, v)))
	}
}

func TestUintCodecs_RoundTrip(t *testing.T) {
	c32 := Uint32Codec{}
	assert.Equal(t, uint32(0xdeadbeef), c32.Unmarshal(Marshal[uint32](c32, 0xdeadbeef)))

	c64 := Uint64Codec{}
	assert.Equal(t, uint64(0xdeadbeefcafe), c64.Unmarshal(Marshal[uint64](c64, 0xdeadbeefcafe)))
}

func TestFloat64Codec_RoundTrip(t *testing.T) {
	c := Float64Codec{}
	for _, v := range []float64{0, 1.5, -273.15, 6.022e23} {
		assert.Equal(t, v, c.Unmarshal(Marshal[float64](c, v)))
	}
}

func TestBoolCodec_RoundTrip(t *testing.T) {
	c := BoolCodec{}
	require.Equal(t, 1, c.Width())
	assert.True(t, c.Unmarshal(Marshal[bool](c, true)))
	assert.False(t, c.Unmarshal(Marshal[bool](c, false)))
}

func TestStringCodec_RoundTrip(t *testing.T) {
	c := StringCodec{}
	for _, v := range []string{"", "a", "hello world", "snø og regn"} {
		n, ok := c.Size(v)
		require.True(t, ok)
		require.Equal(t, len(v), n)
		assert.Equal(t, v, c.Unmarshal(Marshal[string](c, v)))
	}
}

func TestBytesCodec_RoundTrip(t *testing.T) {
	c := BytesCodec{}
	v := []byte{1, 2, 3}
	got := c.Unmarshal(Marshal[[]byte](c, v))
	assert.Equal(t, v, got)

	// Decoded value must not alias the input buffer.
	buf := Marshal[[]byte](c, v)
	got = c.Unmarshal(buf)
	buf[0] = 99
	assert.Equal(t, byte(1), got[0])
}

func TestJSONCodec_SizeUnknown(t *testing.T) {
	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}
	c := JSONCodec[payload]{}

	_, ok := c.Size(payload{})
	require.False(t, ok)

	v := payload{Name: "odin", Count: 2}
	assert.Equal(t, v, c.Unmarshal(c.Append(nil, v)))

	assert.Panics(t, func() { c.MarshalTo(v, make([]byte, 16)) })
}
