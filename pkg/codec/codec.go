// Package codec provides typed binary codecs for values stored in RuneKV
// column families.
//
// A Codec turns a value of one Go type into bytes and back. The contract is
// split into a sizing step and a writing step so callers can pick the
// cheapest buffer for each encode: a small scratch array when the size is
// known and small, a pooled buffer when it is known and larger, and an
// append-grown buffer only when the size cannot be computed up front.
//
// Codecs store no type tag. A buffer must always be decoded by the codec
// that produced it; decoding anything else is outside the contract and has
// undefined behavior.
package codec

// Codec encodes and decodes values of type T.
//
// Implementations must be stateless (or configuration-only) and safe for
// concurrent use.
type Codec[T any] interface {
	// Size returns the exact encoded length of v and true when the length
	// can be computed without encoding. Codecs that must stream (for
	// example object serializers) return false; callers then encode via
	// Append instead. Size has no side effects.
	Size(v T) (n int, ok bool)

	// MarshalTo encodes v into buf. The caller must size buf to exactly
	// the length reported by Size; MarshalTo writes every byte of buf and
	// never reads or writes past it. Only valid when Size returned true.
	MarshalTo(v T, buf []byte)

	// Append encodes v onto dst and returns the extended slice. Used when
	// Size returns false, and valid for any codec.
	Append(dst []byte, v T) []byte

	// Unmarshal decodes a value from data. Data must have been produced by
	// this codec; behavior on anything else is undefined.
	Unmarshal(data []byte) T
}

// FixedCodec is a Codec whose every encoded value occupies the same number
// of bytes. Fixed-width collection layouts require one, which makes the
// uniform-element-size invariant a compile-time property rather than a
// convention.
type FixedCodec[T any] interface {
	Codec[T]

	// Width returns the encoded length of any value, in bytes.
	Width() int
}

// Marshal encodes v into a freshly allocated buffer. It is a convenience
// for callers that do not manage buffers themselves.
func Marshal[T any](c Codec[T], v T) []byte {
	if n, ok := c.Size(v); ok {
		buf := make([]byte, n)
		c.MarshalTo(v, buf)
		return buf
	}
	return c.Append(nil, v)
}
