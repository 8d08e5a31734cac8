package engine

import (
	"encoding/binary"
	"sync"
	"testing"

	"github.com/cockroachdb/pebble/vfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// addOperator sums little-endian int64 operands; the simplest associative
// algebra, enough to drive the merge paths end to end.
type addOperator struct{}

func (addOperator) Name() string { return "test.add" }

func (addOperator) FullMerge(_, existing []byte, operands [][]byte) ([]byte, bool) {
	var sum int64
	if existing != nil {
		if len(existing) != 8 {
			return nil, false
		}
		sum = int64(binary.LittleEndian.Uint64(existing))
	}
	for _, op := range operands {
		if len(op) != 8 {
			return nil, false
		}
		sum += int64(binary.LittleEndian.Uint64(op))
	}
	return binary.LittleEndian.AppendUint64(nil, uint64(sum)), true
}

func (addOperator) PartialMerge(_ []byte, operands [][]byte) ([]byte, bool) {
	var sum int64
	for _, op := range operands {
		if len(op) != 8 {
			return nil, false
		}
		sum += int64(binary.LittleEndian.Uint64(op))
	}
	return binary.LittleEndian.AppendUint64(nil, uint64(sum)), true
}

// refusingOperator never resolves anything.
type refusingOperator struct{}

func (refusingOperator) Name() string { return "test.refuse" }

func (refusingOperator) FullMerge(_, _ []byte, _ [][]byte) ([]byte, bool) {
	return nil, false
}

func (refusingOperator) PartialMerge(_ []byte, _ [][]byte) ([]byte, bool) {
	return nil, false
}

func delta(v int64) []byte {
	return binary.LittleEndian.AppendUint64(nil, uint64(v))
}

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(Options{Path: "store", FS: vfs.NewMem()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestDB_PutGetDelete(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.CreateColumnFamily("kv", nil))

	require.NoError(t, db.Put("kv", []byte("k"), []byte("v")))

	got, found, err := db.Get("kv", []byte("k"))
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []byte("v"), got)

	_, found, err = db.Get("kv", []byte("missing"))
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, db.Delete("kv", []byte("k")))
	_, found, err = db.Get("kv", []byte("k"))
	require.NoError(t, err)
	assert.False(t, found)
}

func TestDB_UnknownColumnFamily(t *testing.T) {
	db := newTestDB(t)

	err := db.Put("nope", []byte("k"), []byte("v"))
	assert.ErrorIs(t, err, ErrUnknownColumnFamily)
}

func TestDB_CreateColumnFamilyTwice(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.CreateColumnFamily("kv", nil))
	assert.ErrorIs(t, db.CreateColumnFamily("kv", nil), ErrColumnFamilyExists)
}

func TestDB_MergeResolvesOnGet(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.CreateColumnFamily("counters", addOperator{}))

	key := []byte("hits")
	require.NoError(t, db.Merge("counters", key, delta(5)))
	require.NoError(t, db.Merge("counters", key, delta(-2)))
	require.NoError(t, db.Merge("counters", key, delta(10)))

	got, found, err := db.Get("counters", key)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, int64(13), int64(binary.LittleEndian.Uint64(got)))
}

func TestDB_MergeOnTopOfPut(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.CreateColumnFamily("counters", addOperator{}))

	key := []byte("hits")
	require.NoError(t, db.Put("counters", key, delta(100)))
	require.NoError(t, db.Merge("counters", key, delta(5)))

	got, found, err := db.Get("counters", key)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, int64(105), int64(binary.LittleEndian.Uint64(got)))
}

func TestDB_MergeWithoutOperator(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.CreateColumnFamily("kv", nil))

	err := db.Merge("kv", []byte("k"), []byte("x"))
	assert.ErrorIs(t, err, ErrNoMergeOperator)
}

func TestDB_FailedMergeReadsAsAbsent(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.CreateColumnFamily("bad", refusingOperator{}))

	key := []byte("k")
	require.NoError(t, db.Merge("bad", key, []byte("op")))

	_, found, err := db.Get("bad", key)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestDB_PutRangeAndIterate(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.CreateColumnFamily("kv", nil))

	require.NoError(t, db.PutRange("kv", []KV{
		{Key: []byte("b"), Value: []byte("2")},
		{Key: []byte("a"), Value: []byte("1")},
		{Key: []byte("c"), Value: []byte("3")},
	}))

	var keys, values []string
	err := db.Iterate("kv", func(k, v []byte) bool {
		keys = append(keys, string(k))
		values = append(values, string(v))
		return true
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, keys)
	assert.Equal(t, []string{"1", "2", "3"}, values)
}

func TestDB_IterateResolvesMerges(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.CreateColumnFamily("counters", addOperator{}))

	require.NoError(t, db.Merge("counters", []byte("a"), delta(1)))
	require.NoError(t, db.Merge("counters", []byte("a"), delta(2)))

	var got int64
	err := db.Iterate("counters", func(k, v []byte) bool {
		got = int64(binary.LittleEndian.Uint64(v))
		return true
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), got)
}

func TestDB_IterateEarlyStop(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.CreateColumnFamily("kv", nil))
	require.NoError(t, db.Put("kv", []byte("a"), []byte("1")))
	require.NoError(t, db.Put("kv", []byte("b"), []byte("2")))

	seen := 0
	err := db.Iterate("kv", func(k, v []byte) bool {
		seen++
		return false
	})
	require.NoError(t, err)
	assert.Equal(t, 1, seen)
}

func TestDB_ClearKeepsOperatorBinding(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.CreateColumnFamily("counters", addOperator{}))

	key := []byte("hits")
	require.NoError(t, db.Merge("counters", key, delta(7)))
	require.NoError(t, db.Clear("counters"))

	_, found, err := db.Get("counters", key)
	require.NoError(t, err)
	require.False(t, found)

	// Same family keeps accepting puts and merges with no re-registration.
	require.NoError(t, db.Put("counters", key, delta(1)))
	require.NoError(t, db.Merge("counters", key, delta(2)))

	got, found, err := db.Get("counters", key)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, int64(3), int64(binary.LittleEndian.Uint64(got)))
}

func TestDB_ClearIsIndependentPerFamily(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.CreateColumnFamily("a", nil))
	require.NoError(t, db.CreateColumnFamily("b", nil))

	require.NoError(t, db.Put("a", []byte("k"), []byte("va")))
	require.NoError(t, db.Put("b", []byte("k"), []byte("vb")))
	require.NoError(t, db.Clear("a"))

	_, found, err := db.Get("a", []byte("k"))
	require.NoError(t, err)
	assert.False(t, found)

	got, found, err := db.Get("b", []byte("k"))
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []byte("vb"), got)
}

func TestDB_ConcurrentOpsDuringClear(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.CreateColumnFamily("kv", nil))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := []byte{byte(n)}
			for j := 0; j < 50; j++ {
				_ = db.Put("kv", key, []byte("v"))
				_, _, _ = db.Get("kv", key)
			}
		}(i)
	}
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = db.Clear("kv")
		}()
	}
	wg.Wait()

	// The family is still usable afterwards.
	require.NoError(t, db.Put("kv", []byte("k"), []byte("v")))
	_, found, err := db.Get("kv", []byte("k"))
	require.NoError(t, err)
	assert.True(t, found)
}

func TestDB_DropColumnFamily(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.CreateColumnFamily("kv", nil))
	require.NoError(t, db.Put("kv", []byte("k"), []byte("v")))

	require.NoError(t, db.DropColumnFamily("kv"))
	assert.ErrorIs(t, db.Put("kv", []byte("k"), []byte("v")), ErrUnknownColumnFamily)

	// The name is free to be created again, empty.
	require.NoError(t, db.CreateColumnFamily("kv", nil))
	_, found, err := db.Get("kv", []byte("k"))
	require.NoError(t, err)
	assert.False(t, found)
}

func TestDB_CloseRejectsFurtherOps(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.CreateColumnFamily("kv", nil))
	require.NoError(t, db.Close())

	err := db.Put("kv", []byte("k"), []byte("v"))
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, db.CreateColumnFamily("x", nil), ErrClosed)
}

func TestValueMerger_PartialThenFull(t *testing.T) {
	// Exercise the ValueMerger protocol directly: an intermediate
	// compaction without the base must keep a combinable batch as one
	// operand record that a later full merge still understands.
	op := addOperator{}

	vm, err := newValueMerger(op, []byte("k"), frameOperands([][]byte{delta(5)}))
	require.NoError(t, err)
	require.NoError(t, vm.MergeNewer(frameOperands([][]byte{delta(-2)})))

	partial, _, err := vm.Finish(false)
	require.NoError(t, err)

	kind, payload, err := unframe(partial)
	require.NoError(t, err)
	require.Equal(t, recordOperands, kind)
	frames, err := unpackOperands(payload)
	require.NoError(t, err)
	require.Len(t, frames, 1)

	vm2, err := newValueMerger(op, []byte("k"), partial)
	require.NoError(t, err)
	require.NoError(t, vm2.MergeNewer(frameOperands([][]byte{delta(10)})))

	final, _, err := vm2.Finish(true)
	require.NoError(t, err)
	kind, payload, err = unframe(final)
	require.NoError(t, err)
	require.Equal(t, recordValue, kind)
	assert.Equal(t, int64(13), int64(binary.LittleEndian.Uint64(payload)))
}

func TestValueMerger_RefusedPartialKeepsOperands(t *testing.T) {
	op := refusingOperator{}

	vm, err := newValueMerger(op, []byte("k"), frameOperands([][]byte{[]byte("x")}))
	require.NoError(t, err)
	require.NoError(t, vm.MergeOlder(frameOperands([][]byte{[]byte("w")})))

	out, _, err := vm.Finish(false)
	require.NoError(t, err)

	kind, payload, err := unframe(out)
	require.NoError(t, err)
	require.Equal(t, recordOperands, kind)
	frames, err := unpackOperands(payload)
	require.NoError(t, err)
	require.Len(t, frames, 2)
	// Oldest first, regardless of arrival direction.
	assert.Equal(t, []byte("w"), frames[0])
	assert.Equal(t, []byte("x"), frames[1])
}

func TestValueMerger_BaseArrivesOldest(t *testing.T) {
	op := addOperator{}

	// Forward read order: newest operand first, base last via MergeOlder.
	vm, err := newValueMerger(op, []byte("k"), frameOperands([][]byte{delta(5)}))
	require.NoError(t, err)
	require.NoError(t, vm.MergeOlder(frameValue(delta(100))))

	out, _, err := vm.Finish(true)
	require.NoError(t, err)
	kind, payload, err := unframe(out)
	require.NoError(t, err)
	require.Equal(t, recordValue, kind)
	assert.Equal(t, int64(105), int64(binary.LittleEndian.Uint64(payload)))
}
