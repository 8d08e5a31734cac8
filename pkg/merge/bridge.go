package merge

import (
	"errors"
	"fmt"

	"github.com/ssargent/runekv/pkg/codec"
)

// Bridge adapts a typed Operator to the engine's untyped merge callback:
// it decodes the existing value and operands, runs the algebra, and
// re-encodes the result. Algebra errors and panics (including decode panics
// from corrupt operands) are converted into the callback's false result —
// the engine's "merge failed" / "cannot combine" signal — and never allowed
// to escape into the engine's read or compaction path.
//
// Bridge satisfies the engine's Operator contract:
//
//	Name() string
//	FullMerge(key, existing []byte, operands [][]byte) ([]byte, bool)
//	PartialMerge(key []byte, operands [][]byte) ([]byte, bool)
type Bridge[V, O any] struct {
	name     string
	values   codec.Codec[V]
	operands codec.Codec[O]
	op       Operator[V, O]
}

// NewBridge binds an operator name, the value and operand codecs, and the
// typed algebra. The name is persisted by the engine and must be stable
// across restarts. Misconfiguration fails here, at registration, not on
// first use.
func NewBridge[V, O any](name string, values codec.Codec[V], operands codec.Codec[O], op Operator[V, O]) (*Bridge[V, O], error) {
	if name == "" {
		return nil, errors.New("merge: operator name must not be empty")
	}
	if values == nil {
		return nil, fmt.Errorf("merge: operator %q: nil value codec", name)
	}
	if operands == nil {
		return nil, fmt.Errorf("merge: operator %q: nil operand codec", name)
	}
	if op == nil {
		return nil, fmt.Errorf("merge: operator %q: nil operator", name)
	}
	return &Bridge[V, O]{name: name, values: values, operands: operands, op: op}, nil
}

// Name returns the registered operator name.
func (b *Bridge[V, O]) Name() string {
	return b.name
}

// FullMerge resolves the optional existing value plus ordered operands into
// the final stored value. A nil existing slice means the key was absent.
func (b *Bridge[V, O]) FullMerge(_, existing []byte, operands [][]byte) (result []byte, ok bool) {
	defer func() {
		if recover() != nil {
			result, ok = nil, false
		}
	}()

	var ex V
	exists := existing != nil
	if exists {
		ex = b.values.Unmarshal(existing)
	}

	merged, err := b.op.FullMerge(ex, exists, b.decode(operands))
	if err != nil {
		return nil, false
	}
	return codec.Marshal(b.values, merged), true
}

// PartialMerge pre-combines a batch of operands, or reports false to keep
// them uncombined for a later full merge.
func (b *Bridge[V, O]) PartialMerge(_ []byte, operands [][]byte) (result []byte, ok bool) {
	defer func() {
		if recover() != nil {
			result, ok = nil, false
		}
	}()

	combined, ok := b.op.PartialMerge(b.decode(operands))
	if !ok {
		return nil, false
	}
	return codec.Marshal(b.operands, combined), true
}

func (b *Bridge[V, O]) decode(operands [][]byte) []O {
	out := make([]O, len(operands))
	for i, raw := range operands {
		out[i] = b.operands.Unmarshal(raw)
	}
	return out
}
