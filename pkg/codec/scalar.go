package codec

import (
	"encoding/binary"
	"math"
)

// Scalar codecs. Integers and floats are encoded little-endian at their
// natural width, booleans as a single byte, strings as raw UTF-8 with no
// length prefix (length travels out of band through the Size contract).

// Int32Codec encodes int32 values as 4 little-endian bytes.
type Int32Codec struct{}

func (Int32Codec) Size(int32) (int, bool) { return 4, true }
func (Int32Codec) Width() int             { return 4 }

func (Int32Codec) MarshalTo(v int32, buf []byte) {
	binary.LittleEndian.PutUint32(buf, uint32(v))
}

func (Int32Codec) Append(dst []byte, v int32) []byte {
	return binary.LittleEndian.AppendUint32(dst, uint32(v))
}

func (Int32Codec) Unmarshal(data []byte) int32 {
	return int32(binary.LittleEndian.Uint32(data))
}

// Uint32Codec encodes uint32 values as 4 little-endian bytes.
type Uint32Codec struct{}

func (Uint32Codec) Size(uint32) (int, bool) { return 4, true }
func (Uint32Codec) Width() int              { return 4 }

func (Uint32Codec) MarshalTo(v uint32, buf []byte) {
	binary.LittleEndian.PutUint32(buf, v)
}

func (Uint32Codec) Append(dst []byte, v uint32) []byte {
	return binary.LittleEndian.AppendUint32(dst, v)
}

func (Uint32Codec) Unmarshal(data []byte) uint32 {
	return binary.LittleEndian.Uint32(data)
}

// Int64Codec encodes int64 values as 8 little-endian bytes.
type Int64Codec struct{}

func (Int64Codec) Size(int64) (int, bool) { return 8, true }
func (Int64Codec) Width() int             { return 8 }

func (Int64Codec) MarshalTo(v int64, buf []byte) {
	binary.LittleEndian.PutUint64(buf, uint64(v))
}

func (Int64Codec) Append(dst []byte, v int64) []byte {
	return binary.LittleEndian.AppendUint64(dst, uint64(v))
}

func (Int64Codec) Unmarshal(data []byte) int64 {
	return int64(binary.LittleEndian.Uint64(data))
}

// Uint64Codec encodes uint64 values as 8 little-endian bytes.
type Uint64Codec struct{}

func (Uint64Codec) Size(uint64) (int, bool) { return 8, true }
func (Uint64Codec) Width() int              { return 8 }

func (Uint64Codec) MarshalTo(v uint64, buf []byte) {
	binary.LittleEndian.PutUint64(buf, v)
}

func (Uint64Codec) Append(dst []byte, v uint64) []byte {
	return binary.LittleEndian.AppendUint64(dst, v)
}

func (Uint64Codec) Unmarshal(data []byte) uint64 {
	return binary.LittleEndian.Uint64(data)
}

// Float64Codec encodes float64 values as their IEEE 754 bits, little-endian.
type Float64Codec struct{}

func (Float64Codec) Size(float64) (int, bool) { return 8, true }
func (Float64Codec) Width() int               { return 8 }

func (Float64Codec) MarshalTo(v float64, buf []byte) {
	binary.LittleEndian.PutUint64(buf, math.Float64bits(v))
}

func (Float64Codec) Append(dst []byte, v float64) []byte {
	return binary.LittleEndian.AppendUint64(dst, math.Float64bits(v))
}

func (Float64Codec) Unmarshal(data []byte) float64 {
	return math.Float64frombits(binary.LittleEndian.Uint64(data))
}

// BoolCodec encodes bool values as a single byte, 0 or 1.
type BoolCodec struct{}

func (BoolCodec) Size(bool) (int, bool) { return 1, true }
func (BoolCodec) Width() int            { return 1 }

func (BoolCodec) MarshalTo(v bool, buf []byte) {
	buf[0] = boolByte(v)
}

func (BoolCodec) Append(dst []byte, v bool) []byte {
	return append(dst, boolByte(v))
}

func (BoolCodec) Unmarshal(data []byte) bool {
	return data[0] != 0
}

// StringCodec encodes strings as their raw UTF-8 bytes.
type StringCodec struct{}

func (StringCodec) Size(v string) (int, bool) { return len(v), true }

func (StringCodec) MarshalTo(v string, buf []byte) {
	copy(buf, v)
}

func (StringCodec) Append(dst []byte, v string) []byte {
	return append(dst, v...)
}

func (StringCodec) Unmarshal(data []byte) string {
	return string(data)
}

// BytesCodec passes byte slices through unchanged. Unmarshal copies so the
// decoded value does not alias engine-owned buffers.
type BytesCodec struct{}

func (BytesCodec) Size(v []byte) (int, bool) { return len(v), true }

func (BytesCodec) MarshalTo(v []byte, buf []byte) {
	copy(buf, v)
}

func (BytesCodec) Append(dst []byte, v []byte) []byte {
	return append(dst, v...)
}

func (BytesCodec) Unmarshal(data []byte) []byte {
	if len(data) == 0 {
		return nil
	}
	return append([]byte(nil), data...)
}

func boolByte(v bool) byte {
	if v {
		return 1
	}
	return 0
}
