package engine

import (
	"encoding/binary"
	"fmt"
)

// Pebble exposes one associative ValueMerger instead of distinct full and
// partial merge callbacks, and hands the base value to it exactly like an
// operand. To route the right bytes to the right callback, every record this
// backend stores carries a one-byte kind: plain values (puts and resolved
// merges) versus stacks of merge operands (merge submissions and refused
// partial merges). The framing is private to this backend and stripped
// before bytes reach the typed layer.

const (
	recordValue    byte = 0x00
	recordOperands byte = 0x01
)

// frameValue prefixes value bytes with the value record kind.
func frameValue(value []byte) []byte {
	out := make([]byte, 0, 1+len(value))
	out = append(out, recordValue)
	return append(out, value...)
}

// frameOperands packs operands into an operand-stack record:
// [kind:1][count:4][{len:4, bytes}]*count. A refused partial merge re-emits
// its whole input stack, which is how "keep the operands uncombined" is
// expressed to Pebble.
func frameOperands(operands [][]byte) []byte {
	total := 1 + 4
	for _, op := range operands {
		total += 4 + len(op)
	}
	out := make([]byte, 0, total)
	out = append(out, recordOperands)
	out = binary.LittleEndian.AppendUint32(out, uint32(len(operands)))
	for _, op := range operands {
		out = binary.LittleEndian.AppendUint32(out, uint32(len(op)))
		out = append(out, op...)
	}
	return out
}

// unframe splits a record into its kind and payload. Unlike codec payloads,
// framing is validated: a bad kind means this backend did not write the
// record.
func unframe(data []byte) (kind byte, payload []byte, err error) {
	if len(data) < 1 {
		return 0, nil, fmt.Errorf("engine: empty record")
	}
	kind = data[0]
	if kind != recordValue && kind != recordOperands {
		return 0, nil, fmt.Errorf("engine: unknown record kind 0x%02x", kind)
	}
	return kind, data[1:], nil
}

// unpackOperands splits an operand-stack payload into its frames. The
// returned slices alias the input.
func unpackOperands(payload []byte) ([][]byte, error) {
	if len(payload) < 4 {
		return nil, fmt.Errorf("engine: operand stack truncated")
	}
	count := int(binary.LittleEndian.Uint32(payload))
	out := make([][]byte, 0, count)
	off := 4
	for i := 0; i < count; i++ {
		if off+4 > len(payload) {
			return nil, fmt.Errorf("engine: operand %d header truncated", i)
		}
		n := int(binary.LittleEndian.Uint32(payload[off:]))
		off += 4
		if off+n > len(payload) {
			return nil, fmt.Errorf("engine: operand %d payload truncated", i)
		}
		out = append(out, payload[off:off+n])
		off += n
	}
	return out, nil
}
