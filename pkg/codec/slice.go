package codec

import "encoding/binary"

// Two collection layouts share the same outer shape: a 4-byte little-endian
// element count followed by the elements. The fixed-width layout packs
// elements back to back and is only constructible from a FixedCodec; the
// variable-width layout prefixes each element with its own 4-byte length.
// The two layouts are not cross-compatible: a buffer written by one must be
// decoded by the same one.

// FixedSliceCodec encodes []T as [count:4][elements packed contiguously],
// with every element occupying exactly elem.Width() bytes.
type FixedSliceCodec[T any] struct {
	elem FixedCodec[T]
}

// NewFixedSlice returns the fixed-width collection codec for elem. Use it
// for primitive scalar element types; requiring a FixedCodec keeps
// variable-size element codecs out of this layout entirely.
func NewFixedSlice[T any](elem FixedCodec[T]) FixedSliceCodec[T] {
	return FixedSliceCodec[T]{elem: elem}
}

func (c FixedSliceCodec[T]) Size(v []T) (int, bool) {
	return 4 + len(v)*c.elem.Width(), true
}

func (c FixedSliceCodec[T]) MarshalTo(v []T, buf []byte) {
	binary.LittleEndian.PutUint32(buf, uint32(len(v)))
	w := c.elem.Width()
	off := 4
	for _, e := range v {
		c.elem.MarshalTo(e, buf[off:off+w])
		off += w
	}
}

func (c FixedSliceCodec[T]) Append(dst []byte, v []T) []byte {
	dst = binary.LittleEndian.AppendUint32(dst, uint32(len(v)))
	for _, e := range v {
		dst = c.elem.Append(dst, e)
	}
	return dst
}

func (c FixedSliceCodec[T]) Unmarshal(data []byte) []T {
	count := int(binary.LittleEndian.Uint32(data))
	if count == 0 {
		return nil
	}
	// Element boundaries are located by dividing the payload evenly, which
	// the FixedCodec requirement guarantees matches Width.
	w := (len(data) - 4) / count
	out := make([]T, count)
	off := 4
	for i := range out {
		out[i] = c.elem.Unmarshal(data[off : off+w])
		off += w
	}
	return out
}

// SliceCodec encodes []T as [count:4][{size:4, bytes}]*count. It accepts
// any element codec; if any element's size is unknown the whole
// collection's size is unknown and encoding goes through Append.
type SliceCodec[T any] struct {
	elem Codec[T]
}

// NewSlice returns the variable-width collection codec for elem.
func NewSlice[T any](elem Codec[T]) SliceCodec[T] {
	return SliceCodec[T]{elem: elem}
}

func (c SliceCodec[T]) Size(v []T) (int, bool) {
	total := 4
	for _, e := range v {
		n, ok := c.elem.Size(e)
		if !ok {
			return 0, false
		}
		total += 4 + n
	}
	return total, true
}

func (c SliceCodec[T]) MarshalTo(v []T, buf []byte) {
	binary.LittleEndian.PutUint32(buf, uint32(len(v)))
	off := 4
	for _, e := range v {
		n, _ := c.elem.Size(e)
		binary.LittleEndian.PutUint32(buf[off:], uint32(n))
		c.elem.MarshalTo(e, buf[off+4:off+4+n])
		off += 4 + n
	}
}

func (c SliceCodec[T]) Append(dst []byte, v []T) []byte {
	dst = binary.LittleEndian.AppendUint32(dst, uint32(len(v)))
	for _, e := range v {
		// Reserve the length slot, encode, then backfill. Handles element
		// codecs that cannot size themselves up front.
		start := len(dst)
		dst = append(dst, 0, 0, 0, 0)
		dst = c.elem.Append(dst, e)
		binary.LittleEndian.PutUint32(dst[start:], uint32(len(dst)-start-4))
	}
	return dst
}

func (c SliceCodec[T]) Unmarshal(data []byte) []T {
	count := int(binary.LittleEndian.Uint32(data))
	if count == 0 {
		return nil
	}
	out := make([]T, count)
	off := 4
	for i := range out {
		n := int(binary.LittleEndian.Uint32(data[off:]))
		out[i] = c.elem.Unmarshal(data[off+4 : off+4+n])
		off += 4 + n
	}
	return out
}
