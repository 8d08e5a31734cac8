package merge

import "fmt"

// Operator is the typed merge algebra for one column family, parameterized
// over the stored value type V and the operand type O. The two may
// coincide (integer counters) or differ (V = []T, O = Operand[T]).
type Operator[V, O any] interface {
	// FullMerge applies operands, in the order given, to the existing
	// value (or to the type's empty value when exists is false) and
	// returns the final stored value.
	FullMerge(existing V, exists bool, operands []O) (V, error)

	// PartialMerge folds a batch of operands into one equivalent operand
	// when that is safe without knowing the existing value or any operand
	// outside the batch. The second result reports whether the batch was
	// combined; false keeps the operands as they are for a later full
	// merge.
	PartialMerge(operands []O) (O, bool)
}

// ListOperator merges Add/Remove operands into a stored slice. Add appends
// all items; Remove deletes the first matching occurrence of each item and
// silently no-ops on absent items (list semantics, not set semantics).
type ListOperator[T comparable] struct{}

func (ListOperator[T]) FullMerge(existing []T, exists bool, operands []Operand[T]) ([]T, error) {
	var out []T
	if exists {
		out = append(out, existing...)
	}
	for _, op := range operands {
		switch op.Op {
		case OpAdd:
			out = append(out, op.Items...)
		case OpRemove:
			for _, item := range op.Items {
				out = removeFirst(out, item)
			}
		default:
			return nil, fmt.Errorf("merge: unknown operand tag %d", byte(op.Op))
		}
	}
	return out, nil
}

// PartialMerge concatenates Add-only batches, which is commutative and
// associative regardless of the existing value. Any Remove in the batch
// refuses combination: an item it removes may be added by an operand that
// only surfaces at full-merge time from a different compaction input, and
// the relative order between the two is unobservable here.
func (ListOperator[T]) PartialMerge(operands []Operand[T]) (Operand[T], bool) {
	if len(operands) == 0 {
		return Operand[T]{}, false
	}
	total := 0
	for _, op := range operands {
		if op.Op != OpAdd {
			return Operand[T]{}, false
		}
		total += len(op.Items)
	}
	items := make([]T, 0, total)
	for _, op := range operands {
		items = append(items, op.Items...)
	}
	return Operand[T]{Op: OpAdd, Items: items}, true
}

func removeFirst[T comparable](s []T, item T) []T {
	for i, e := range s {
		if e == item {
			return append(s[:i], s[i+1:]...)
		}
	}
	return s
}

// CounterOperator merges signed 64-bit deltas by addition. Both the stored
// value and the operand are plain int64s.
type CounterOperator struct{}

func (CounterOperator) FullMerge(existing int64, exists bool, operands []int64) (int64, error) {
	sum := int64(0)
	if exists {
		sum = existing
	}
	for _, d := range operands {
		sum += d
	}
	return sum, nil
}

// PartialMerge always combines: addition needs neither the existing value
// nor any outside ordering.
func (CounterOperator) PartialMerge(operands []int64) (int64, bool) {
	if len(operands) == 0 {
		return 0, false
	}
	sum := int64(0)
	for _, d := range operands {
		sum += d
	}
	return sum, true
}
