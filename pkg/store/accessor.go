package store

import (
	"fmt"

	"github.com/ssargent/runekv/internal/pool"
	"github.com/ssargent/runekv/pkg/codec"
	"github.com/ssargent/runekv/pkg/engine"
)

// scratchSize bounds the per-call scratch arrays used for small encodings.
// Anything larger rents a pooled buffer instead.
const scratchSize = 64

// Accessor performs typed operations against one column family. K is the
// key type, V the stored value type, O the merge operand type (equal to V
// on plain families, which reject Merge).
//
// Accessors are cheap, stateless handles; a single accessor is safe for
// concurrent use.
type Accessor[K, V, O any] struct {
	eng      engine.Engine
	cf       string
	keys     codec.Codec[K]
	values   codec.Codec[V]
	operands codec.Codec[O]
}

// Entry is one key/value pair for PutRange.
type Entry[K, V any] struct {
	Key   K
	Value V
}

// Name returns the column family name.
func (a *Accessor[K, V, O]) Name() string {
	return a.cf
}

// Put stores value under key.
func (a *Accessor[K, V, O]) Put(key K, value V) error {
	var ks, vs [scratchSize]byte
	kb, krel := encode[K](a.keys, key, ks[:])
	defer krel()
	vb, vrel := encode[V](a.values, value, vs[:])
	defer vrel()
	return a.eng.Put(a.cf, kb, vb)
}

// Get returns the value stored under key, with found=false when the key is
// absent.
func (a *Accessor[K, V, O]) Get(key K) (V, bool, error) {
	var zero V
	var ks [scratchSize]byte
	kb, krel := encode[K](a.keys, key, ks[:])
	defer krel()

	raw, found, err := a.eng.Get(a.cf, kb)
	if err != nil || !found {
		return zero, false, err
	}
	return a.values.Unmarshal(raw), true, nil
}

// Delete removes key.
func (a *Accessor[K, V, O]) Delete(key K) error {
	var ks [scratchSize]byte
	kb, krel := encode[K](a.keys, key, ks[:])
	defer krel()
	return a.eng.Delete(a.cf, kb)
}

// Merge submits an accumulative operand for key without reading the
// current value. Only valid on families registered with a merge operator.
func (a *Accessor[K, V, O]) Merge(key K, operand O) error {
	if a.operands == nil {
		return fmt.Errorf("%w: %s", engine.ErrNoMergeOperator, a.cf)
	}
	var ks, os [scratchSize]byte
	kb, krel := encode[K](a.keys, key, ks[:])
	defer krel()
	ob, orel := encode[O](a.operands, operand, os[:])
	defer orel()
	return a.eng.Merge(a.cf, kb, ob)
}

// PutRange writes all entries in one atomic batch.
func (a *Accessor[K, V, O]) PutRange(entries []Entry[K, V]) error {
	kvs := make([]engine.KV, len(entries))
	for i, e := range entries {
		kvs[i] = engine.KV{
			Key:   codec.Marshal(a.keys, e.Key),
			Value: codec.Marshal(a.values, e.Value),
		}
	}
	return a.eng.PutRange(a.cf, kvs)
}

// Iterate visits every pair in key order until fn returns false.
func (a *Accessor[K, V, O]) Iterate(fn func(key K, value V) bool) error {
	return a.eng.Iterate(a.cf, func(k, v []byte) bool {
		return fn(a.keys.Unmarshal(k), a.values.Unmarshal(v))
	})
}

// Clear drops and recreates the column family. Codecs and the merge
// operator stay bound; no re-registration is needed.
func (a *Accessor[K, V, O]) Clear() error {
	return a.eng.Clear(a.cf)
}

// encode writes v with the cheapest suitable buffer: the caller's scratch
// array when the size is known and fits, a pooled sized buffer when known
// and larger, a pooled growable buffer when the size is unknown. The bytes
// produced are identical on every path. The returned release func must be
// called once the bytes are no longer needed; it is the pooled buffer's
// only way home, on success and error paths alike.
func encode[T any](c codec.Codec[T], v T, scratch []byte) ([]byte, func()) {
	if n, ok := c.Size(v); ok {
		if n <= len(scratch) {
			buf := scratch[:n]
			c.MarshalTo(v, buf)
			return buf, func() {}
		}
		b := pool.Get()
		buf := b.Sized(n)
		c.MarshalTo(v, buf)
		return buf, func() { pool.Put(b) }
	}
	b := pool.Get()
	b.B = c.Append(b.B[:0], v)
	return b.B, func() { pool.Put(b) }
}
