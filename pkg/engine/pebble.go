package engine

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"
	"go.uber.org/zap"
)

// Options configures a Pebble-backed engine.
type Options struct {
	// Path is the store root; each column family lives in a subdirectory.
	Path string

	// FS is the filesystem Pebble runs on. Nil means the OS filesystem;
	// tests pass vfs.NewMem().
	FS vfs.FS

	// Logger receives lifecycle and merge-failure events. Nil means no
	// logging.
	Logger *zap.Logger

	// SyncWrites makes every write wait for the WAL to be durable.
	SyncWrites bool
}

// DB is the Pebble-backed Engine implementation.
type DB struct {
	opts Options
	log  *zap.Logger
	wo   *pebble.WriteOptions

	mu       sync.RWMutex
	families map[string]*family
	closed   bool
}

// family pairs a column family name with its live Pebble handle. The
// RWMutex is the single mutual-exclusion point per family: every operation
// holds it shared, Clear and Drop hold it exclusively while the handle is
// swapped, so no caller ever observes a half-replaced handle.
type family struct {
	name string
	op   Operator

	mu sync.RWMutex
	db *pebble.DB
}

var _ Engine = (*DB)(nil)

// Open prepares the store root. Column families are registered afterwards
// with CreateColumnFamily; none are opened implicitly.
func Open(opts Options) (*DB, error) {
	if opts.FS == nil {
		opts.FS = vfs.Default
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if err := opts.FS.MkdirAll(opts.Path, 0o755); err != nil {
		return nil, fmt.Errorf("engine: create store root: %w", err)
	}
	wo := pebble.NoSync
	if opts.SyncWrites {
		wo = pebble.Sync
	}
	return &DB{
		opts:     opts,
		log:      opts.Logger,
		wo:       wo,
		families: make(map[string]*family),
	}, nil
}

// CreateColumnFamily opens the named family, creating its directory on
// first use. The operator (may be nil) is bound to the family's Pebble
// instance; Pebble persists the operator name and will refuse a mismatched
// reopen.
func (e *DB) CreateColumnFamily(name string, op Operator) error {
	if name == "" {
		return errors.New("engine: column family name must not be empty")
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	if _, ok := e.families[name]; ok {
		return fmt.Errorf("%w: %s", ErrColumnFamilyExists, name)
	}
	db, err := e.openFamily(name, op)
	if err != nil {
		return fmt.Errorf("engine: open column family %s: %w", name, err)
	}
	e.families[name] = &family{name: name, op: op, db: db}
	e.log.Info("column family opened",
		zap.String("cf", name),
		zap.Bool("merge", op != nil))
	return nil
}

func (e *DB) openFamily(name string, op Operator) (*pebble.DB, error) {
	popts := &pebble.Options{FS: e.opts.FS}
	if op != nil {
		popts.Merger = &pebble.Merger{
			Name: op.Name(),
			Merge: func(key, value []byte) (pebble.ValueMerger, error) {
				return newValueMerger(op, key, value)
			},
		}
	}
	return pebble.Open(e.opts.FS.PathJoin(e.opts.Path, name), popts)
}

// DropColumnFamily closes the family and removes its directory.
func (e *DB) DropColumnFamily(name string) error {
	e.mu.Lock()
	fam, ok := e.families[name]
	if !ok {
		e.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownColumnFamily, name)
	}
	delete(e.families, name)
	e.mu.Unlock()

	fam.mu.Lock()
	defer fam.mu.Unlock()
	if err := fam.db.Close(); err != nil {
		return fmt.Errorf("engine: close column family %s: %w", name, err)
	}
	fam.db = nil
	if err := e.opts.FS.RemoveAll(e.opts.FS.PathJoin(e.opts.Path, name)); err != nil {
		return fmt.Errorf("engine: remove column family %s: %w", name, err)
	}
	e.log.Info("column family dropped", zap.String("cf", name))
	return nil
}

func (e *DB) family(cf string) (*family, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.closed {
		return nil, ErrClosed
	}
	fam, ok := e.families[cf]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownColumnFamily, cf)
	}
	return fam, nil
}

// Put stores value under key.
func (e *DB) Put(cf string, key, value []byte) error {
	fam, err := e.family(cf)
	if err != nil {
		return err
	}
	fam.mu.RLock()
	defer fam.mu.RUnlock()
	if fam.db == nil {
		return ErrClosed
	}
	return fam.db.Set(key, frameValue(value), e.wo)
}

// Get reads the value for key. Absent keys — and keys whose merge
// resolution failed — report found=false.
func (e *DB) Get(cf string, key []byte) ([]byte, bool, error) {
	fam, err := e.family(cf)
	if err != nil {
		return nil, false, err
	}
	fam.mu.RLock()
	defer fam.mu.RUnlock()
	if fam.db == nil {
		return nil, false, ErrClosed
	}

	data, closer, err := fam.db.Get(key)
	switch {
	case errors.Is(err, pebble.ErrNotFound):
		return nil, false, nil
	case errors.Is(err, ErrMergeFailed):
		e.log.Warn("merge failed, treating key as absent",
			zap.String("cf", cf),
			zap.Binary("key", key),
			zap.Error(err))
		return nil, false, nil
	case err != nil:
		return nil, false, err
	}
	defer closer.Close()

	kind, payload, err := unframe(data)
	if err != nil {
		return nil, false, err
	}
	if kind != recordValue {
		return nil, false, fmt.Errorf("engine: %s: unresolved operand record for key", cf)
	}
	out := append([]byte(nil), payload...)
	return out, true, nil
}

// Delete removes key.
func (e *DB) Delete(cf string, key []byte) error {
	fam, err := e.family(cf)
	if err != nil {
		return err
	}
	fam.mu.RLock()
	defer fam.mu.RUnlock()
	if fam.db == nil {
		return ErrClosed
	}
	return fam.db.Delete(key, e.wo)
}

// Merge submits one operand for key. The operand is stored as a
// single-frame stack; compaction may later combine stacks via the
// operator's PartialMerge.
func (e *DB) Merge(cf string, key, operand []byte) error {
	fam, err := e.family(cf)
	if err != nil {
		return err
	}
	if fam.op == nil {
		return fmt.Errorf("%w: %s", ErrNoMergeOperator, cf)
	}
	fam.mu.RLock()
	defer fam.mu.RUnlock()
	if fam.db == nil {
		return ErrClosed
	}
	return fam.db.Merge(key, frameOperands([][]byte{operand}), e.wo)
}

// PutRange writes all pairs atomically.
func (e *DB) PutRange(cf string, kvs []KV) error {
	fam, err := e.family(cf)
	if err != nil {
		return err
	}
	fam.mu.RLock()
	defer fam.mu.RUnlock()
	if fam.db == nil {
		return ErrClosed
	}

	batch := fam.db.NewBatch()
	defer batch.Close()
	for _, kv := range kvs {
		if err := batch.Set(kv.Key, frameValue(kv.Value), nil); err != nil {
			return err
		}
	}
	return fam.db.Apply(batch, e.wo)
}

// Iterate visits every pair in key order. Merge records are resolved by
// Pebble before they reach the callback.
func (e *DB) Iterate(cf string, fn func(key, value []byte) bool) error {
	fam, err := e.family(cf)
	if err != nil {
		return err
	}
	fam.mu.RLock()
	defer fam.mu.RUnlock()
	if fam.db == nil {
		return ErrClosed
	}

	iter, err := fam.db.NewIter(&pebble.IterOptions{})
	if err != nil {
		return err
	}
	for iter.First(); iter.Valid(); iter.Next() {
		kind, payload, err := unframe(iter.Value())
		if err != nil {
			iter.Close()
			return err
		}
		if kind != recordValue {
			iter.Close()
			return fmt.Errorf("engine: %s: unresolved operand record during iteration", cf)
		}
		if !fn(iter.Key(), payload) {
			break
		}
	}
	if err := iter.Error(); err != nil {
		iter.Close()
		return err
	}
	return iter.Close()
}

// Clear drops and recreates the column family under its exclusive lock, so
// concurrent operations see either the old contents or an empty family,
// never an in-between state. The operator binding survives.
func (e *DB) Clear(cf string) error {
	fam, err := e.family(cf)
	if err != nil {
		return err
	}
	fam.mu.Lock()
	defer fam.mu.Unlock()
	if fam.db == nil {
		return ErrClosed
	}

	if err := fam.db.Close(); err != nil {
		return fmt.Errorf("engine: clear %s: close: %w", cf, err)
	}
	fam.db = nil
	if err := e.opts.FS.RemoveAll(e.opts.FS.PathJoin(e.opts.Path, cf)); err != nil {
		return fmt.Errorf("engine: clear %s: remove: %w", cf, err)
	}
	db, err := e.openFamily(cf, fam.op)
	if err != nil {
		return fmt.Errorf("engine: clear %s: reopen: %w", cf, err)
	}
	fam.db = db
	e.log.Info("column family cleared", zap.String("cf", cf))
	return nil
}

// Close shuts down every column family.
func (e *DB) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}
	e.closed = true

	var firstErr error
	for _, fam := range e.families {
		fam.mu.Lock()
		if fam.db != nil {
			if err := fam.db.Close(); err != nil && firstErr == nil {
				firstErr = err
			}
			fam.db = nil
		}
		fam.mu.Unlock()
	}
	return firstErr
}

// valueMerger adapts an Operator to Pebble's accumulate-then-finish merge
// protocol. Values arrive newest-to-oldest on forward reads and compactions
// and oldest-to-newest on reverse scans; operands are kept oldest-first
// regardless, which is the order FullMerge is specified in.
type valueMerger struct {
	op       Operator
	key      []byte
	base     []byte
	hasBase  bool
	operands [][]byte
}

var _ pebble.ValueMerger = (*valueMerger)(nil)

func newValueMerger(op Operator, key, value []byte) (*valueMerger, error) {
	m := &valueMerger{op: op, key: append([]byte(nil), key...)}
	if err := m.include(value, true); err != nil {
		return nil, err
	}
	return m, nil
}

// include absorbs one stored record. Pebble owns the slice, so payloads are
// copied before they are retained.
func (m *valueMerger) include(data []byte, newest bool) error {
	kind, payload, err := unframe(data)
	if err != nil {
		return err
	}
	switch kind {
	case recordValue:
		// The base value; always the oldest record in the merge.
		if m.hasBase {
			return fmt.Errorf("engine: two base values in one merge of key %q", m.key)
		}
		m.base = append([]byte(nil), payload...)
		m.hasBase = true
		return nil
	default:
		frames, err := unpackOperands(payload)
		if err != nil {
			return err
		}
		copied := make([][]byte, len(frames))
		for i, f := range frames {
			copied[i] = append([]byte(nil), f...)
		}
		if newest {
			m.operands = append(m.operands, copied...)
		} else {
			m.operands = append(copied, m.operands...)
		}
		return nil
	}
}

func (m *valueMerger) MergeNewer(value []byte) error {
	return m.include(value, true)
}

func (m *valueMerger) MergeOlder(value []byte) error {
	return m.include(value, false)
}

// Finish resolves the accumulated records. includesBase means the merge saw
// the key's entire history, so the result is final: run FullMerge and emit
// a value record. Otherwise this is an intermediate compaction: try
// PartialMerge and either emit the combined operand or re-emit the stack
// unchanged so a later full merge sees every operand.
func (m *valueMerger) Finish(includesBase bool) ([]byte, io.Closer, error) {
	if includesBase || m.hasBase {
		var existing []byte
		if m.hasBase {
			// Zero-length base values stay non-nil; nil means absent to
			// the operator.
			existing = m.base
			if existing == nil {
				existing = []byte{}
			}
		}
		result, ok := m.op.FullMerge(m.key, existing, m.operands)
		if !ok {
			return nil, nil, fmt.Errorf("%w: operator %s, key %q, %d operands",
				ErrMergeFailed, m.op.Name(), m.key, len(m.operands))
		}
		return frameValue(result), nil, nil
	}

	if combined, ok := m.op.PartialMerge(m.key, m.operands); ok {
		return frameOperands([][]byte{combined}), nil, nil
	}
	return frameOperands(m.operands), nil, nil
}
