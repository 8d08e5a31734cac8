// Package merge defines the accumulative merge machinery for RuneKV:
// tagged Add/Remove operands and their codec, the typed merge operator
// algebra, and the bridge that adapts typed operators to the engine's
// byte-oriented merge callback.
//
// A merge submits a delta for a key without reading its current value. The
// engine accumulates deltas and resolves them later, either fully (at read
// time, with the existing value in hand) or partially (at compaction time,
// pre-combining deltas when that is provably order-safe).
package merge

import (
	"fmt"

	"github.com/ssargent/runekv/pkg/codec"
)

// Op tags a collection operand as an addition or a removal.
type Op byte

const (
	// OpAdd appends the operand's items to the stored collection.
	OpAdd Op = 0
	// OpRemove deletes the first occurrence of each of the operand's items.
	OpRemove Op = 1
)

func (o Op) String() string {
	switch o {
	case OpAdd:
		return "add"
	case OpRemove:
		return "remove"
	default:
		return fmt.Sprintf("op(%d)", byte(o))
	}
}

// Operand is one accumulative change to a stored collection. Operands are
// transient: encoded for the engine call and reconstructed inside the
// bridge, never persisted as standalone entities.
type Operand[T any] struct {
	Op    Op
	Items []T
}

// Add builds an addition operand.
func Add[T any](items ...T) Operand[T] {
	return Operand[T]{Op: OpAdd, Items: items}
}

// Remove builds a removal operand.
func Remove[T any](items ...T) Operand[T] {
	return Operand[T]{Op: OpRemove, Items: items}
}

// OperandCodec encodes Operand[T] as [tag:1][collection payload]. The
// collection payload is whatever the wrapped slice codec produces, so the
// fixed- vs variable-width choice travels with the element type.
type OperandCodec[T any] struct {
	items codec.Codec[[]T]
}

// NewOperandCodec wraps a collection codec into an operand codec.
func NewOperandCodec[T any](items codec.Codec[[]T]) OperandCodec[T] {
	return OperandCodec[T]{items: items}
}

func (c OperandCodec[T]) Size(v Operand[T]) (int, bool) {
	n, ok := c.items.Size(v.Items)
	if !ok {
		// Unknown inner size forces the append path for the whole operand,
		// tag byte included, so the format stays self-consistent.
		return 0, false
	}
	return 1 + n, true
}

func (c OperandCodec[T]) MarshalTo(v Operand[T], buf []byte) {
	buf[0] = byte(v.Op)
	c.items.MarshalTo(v.Items, buf[1:])
}

func (c OperandCodec[T]) Append(dst []byte, v Operand[T]) []byte {
	dst = append(dst, byte(v.Op))
	return c.items.Append(dst, v.Items)
}

func (c OperandCodec[T]) Unmarshal(data []byte) Operand[T] {
	return Operand[T]{
		Op:    Op(data[0]),
		Items: c.items.Unmarshal(data[1:]),
	}
}
