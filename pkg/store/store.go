// Package store is the typed layer of RuneKV: it registers column families
// with their key/value codecs (and, for merge families, an operand codec
// plus a merge operator) and hands out typed accessors. All binary encoding
// decisions live in pkg/codec; all storage decisions live in pkg/engine.
package store

import (
	"errors"
	"fmt"

	"github.com/cockroachdb/pebble/vfs"
	"go.uber.org/zap"

	"github.com/ssargent/runekv/pkg/codec"
	"github.com/ssargent/runekv/pkg/engine"
	"github.com/ssargent/runekv/pkg/merge"
)

// ErrInvalidConfig marks column-family registration errors: missing codecs,
// empty names, nil operators. These are fatal at wiring time, never
// deferred to first use.
var ErrInvalidConfig = errors.New("store: invalid column family configuration")

// Config configures a store.
type Config struct {
	// DataDir is the directory holding all column families.
	DataDir string

	// FS overrides the filesystem (tests pass vfs.NewMem()). Nil means the
	// OS filesystem.
	FS vfs.FS

	// Logger receives store and engine events. Nil disables logging.
	Logger *zap.Logger

	// SyncWrites makes every write durable before returning.
	SyncWrites bool
}

// Store owns the engine and the set of registered column families.
type Store struct {
	eng engine.Engine
	log *zap.Logger
}

// Open opens (creating if needed) a store at cfg.DataDir. Column families
// are registered afterwards via RegisterColumnFamily and
// RegisterMergeColumnFamily.
func Open(cfg Config) (*Store, error) {
	if cfg.DataDir == "" {
		return nil, fmt.Errorf("%w: data dir must not be empty", ErrInvalidConfig)
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	eng, err := engine.Open(engine.Options{
		Path:       cfg.DataDir,
		FS:         cfg.FS,
		Logger:     log,
		SyncWrites: cfg.SyncWrites,
	})
	if err != nil {
		return nil, err
	}
	return &Store{eng: eng, log: log}, nil
}

// Close shuts the store down.
func (s *Store) Close() error {
	return s.eng.Close()
}

// RegisterColumnFamily creates (or reopens) a plain column family with the
// given key and value codecs. The returned accessor rejects Merge.
func RegisterColumnFamily[K, V any](s *Store, name string, keys codec.Codec[K], values codec.Codec[V]) (*Accessor[K, V, V], error) {
	if err := validate(name, keys, values); err != nil {
		return nil, err
	}
	if err := s.eng.CreateColumnFamily(name, nil); err != nil {
		return nil, err
	}
	return &Accessor[K, V, V]{eng: s.eng, cf: name, keys: keys, values: values}, nil
}

// RegisterMergeColumnFamily creates (or reopens) a column family with merge
// support. operatorName is persisted by the engine and must stay stable
// across restarts; op supplies the full/partial merge algebra over the
// decoded types.
func RegisterMergeColumnFamily[K, V, O any](
	s *Store,
	name string,
	keys codec.Codec[K],
	values codec.Codec[V],
	operands codec.Codec[O],
	operatorName string,
	op merge.Operator[V, O],
) (*Accessor[K, V, O], error) {
	if err := validate(name, keys, values); err != nil {
		return nil, err
	}
	bridge, err := merge.NewBridge[V, O](operatorName, values, operands, op)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, name, err)
	}
	if err := s.eng.CreateColumnFamily(name, bridge); err != nil {
		return nil, err
	}
	return &Accessor[K, V, O]{eng: s.eng, cf: name, keys: keys, values: values, operands: operands}, nil
}

func validate[K, V any](name string, keys codec.Codec[K], values codec.Codec[V]) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidConfig)
	}
	if keys == nil {
		return fmt.Errorf("%w: %s: nil key codec", ErrInvalidConfig, name)
	}
	if values == nil {
		return fmt.Errorf("%w: %s: nil value codec", ErrInvalidConfig, name)
	}
	return nil
}
