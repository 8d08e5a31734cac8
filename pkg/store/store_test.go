package store

import (
	"testing"

	"github.com/cockroachdb/pebble/vfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/runekv/pkg/codec"
	"github.com/ssargent/runekv/pkg/merge"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(Config{DataDir: "store", FS: vfs.NewMem()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpen_RequiresDataDir(t *testing.T) {
	_, err := Open(Config{FS: vfs.NewMem()})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestRegisterColumnFamily_Validation(t *testing.T) {
	s := newTestStore(t)

	_, err := RegisterColumnFamily[string, string](s, "", codec.StringCodec{}, codec.StringCodec{})
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = RegisterColumnFamily[string, string](s, "kv", nil, codec.StringCodec{})
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = RegisterColumnFamily[string, string](s, "kv", codec.StringCodec{}, nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestRegisterMergeColumnFamily_Validation(t *testing.T) {
	s := newTestStore(t)
	values := codec.NewSlice[string](codec.StringCodec{})
	operands := merge.NewOperandCodec[string](values)

	// Empty operator name is a registration-time failure.
	_, err := RegisterMergeColumnFamily[string, []string, merge.Operand[string]](
		s, "tags", codec.StringCodec{}, values, operands, "", merge.ListOperator[string]{})
	assert.ErrorIs(t, err, ErrInvalidConfig)

	// Nil operand codec likewise.
	_, err = RegisterMergeColumnFamily[string, []string, merge.Operand[string]](
		s, "tags", codec.StringCodec{}, values, nil, "runekv.list", merge.ListOperator[string]{})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
