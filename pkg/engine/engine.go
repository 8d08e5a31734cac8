// Package engine wraps the embedded LSM storage engine (Pebble) behind the
// narrow byte-oriented contract the typed layer consumes: per-column-family
// put/get/delete/merge/batch/iterate, column-family lifecycle, and a merge
// operator registration point.
//
// Each column family is an independent Pebble database in its own
// subdirectory of the store path. That gives every family its own merge
// operator (bound at open, name persisted by Pebble) and makes Clear a
// close / remove / reopen of just that family.
package engine

import "errors"

var (
	// ErrClosed is returned by operations on a closed engine.
	ErrClosed = errors.New("engine: closed")

	// ErrUnknownColumnFamily is returned when the named column family was
	// never created on this engine instance.
	ErrUnknownColumnFamily = errors.New("engine: unknown column family")

	// ErrColumnFamilyExists is returned by CreateColumnFamily for a name
	// that is already registered.
	ErrColumnFamilyExists = errors.New("engine: column family already exists")

	// ErrNoMergeOperator is returned by Merge on a column family created
	// without an operator.
	ErrNoMergeOperator = errors.New("engine: no merge operator registered")

	// ErrMergeFailed wraps a full-merge failure reported by the operator.
	// Reads translate it to key-absent rather than surfacing it, so a bad
	// operand never wedges reads of the key.
	ErrMergeFailed = errors.New("engine: merge failed")
)

// Operator is the untyped merge callback contract a column family's merge
// operator must satisfy. The typed layer supplies one via merge.Bridge;
// implementations must not panic — failures are reported through the false
// result.
type Operator interface {
	// Name identifies the operator. The engine persists it and refuses to
	// reopen a family with a different operator name, so it must be stable
	// across process restarts.
	Name() string

	// FullMerge applies operands, oldest first, to the existing value
	// (nil when the key is absent) and returns the final stored value.
	// A false result marks the merge as failed.
	FullMerge(key, existing []byte, operands [][]byte) ([]byte, bool)

	// PartialMerge combines a batch of operands into one equivalent
	// operand, or returns false to keep the batch uncombined for a later
	// FullMerge.
	PartialMerge(key []byte, operands [][]byte) ([]byte, bool)
}

// KV is one key/value pair in a batched write.
type KV struct {
	Key   []byte
	Value []byte
}

// Engine is the storage contract consumed by the typed store layer. All
// methods are safe for concurrent use; Clear serializes against in-flight
// operations on the same column family only.
type Engine interface {
	// CreateColumnFamily opens (creating if needed) the named family. A
	// nil operator creates a family without merge support.
	CreateColumnFamily(name string, op Operator) error

	// DropColumnFamily closes the family and deletes its data.
	DropColumnFamily(name string) error

	Put(cf string, key, value []byte) error

	// Get returns the stored value and true, or false when the key is
	// absent (including when resolving its merge operands failed).
	Get(cf string, key []byte) ([]byte, bool, error)

	Delete(cf string, key []byte) error

	// Merge submits one encoded operand for the key.
	Merge(cf string, key, operand []byte) error

	// PutRange writes all pairs in one atomic batch.
	PutRange(cf string, kvs []KV) error

	// Iterate visits all pairs in key order until fn returns false. The
	// slices passed to fn are only valid during the call.
	Iterate(cf string, fn func(key, value []byte) bool) error

	// Clear drops and recreates the family, keeping its operator binding.
	Clear(cf string) error

	Close() error
}
