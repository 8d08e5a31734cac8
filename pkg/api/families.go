package api

import (
	"github.com/ssargent/runekv/pkg/codec"
	"github.com/ssargent/runekv/pkg/merge"
	"github.com/ssargent/runekv/pkg/store"
)

// Families bundles the column families the server (and CLI) operate on:
// a plain byte-value family, a merge family of tag lists, and a merge
// family of counters.
type Families struct {
	KV       *store.Accessor[string, []byte, []byte]
	Tags     *store.Accessor[string, []string, merge.Operand[string]]
	Counters *store.Accessor[string, int64, int64]
}

// OpenFamilies registers the standard column families on s. Codec and
// operator choices are fixed here; operator names are persisted by the
// engine and must not change between releases.
func OpenFamilies(s *store.Store) (*Families, error) {
	kv, err := store.RegisterColumnFamily[string, []byte](
		s, "kv", codec.StringCodec{}, codec.BytesCodec{})
	if err != nil {
		return nil, err
	}

	tagValues := codec.NewSlice[string](codec.StringCodec{})
	tags, err := store.RegisterMergeColumnFamily[string, []string, merge.Operand[string]](
		s, "tags", codec.StringCodec{}, tagValues,
		merge.NewOperandCodec[string](tagValues),
		"runekv.list.v1", merge.ListOperator[string]{})
	if err != nil {
		return nil, err
	}

	counters, err := store.RegisterMergeColumnFamily[string, int64, int64](
		s, "counters", codec.StringCodec{}, codec.Int64Codec{}, codec.Int64Codec{},
		"runekv.counter.v1", merge.CounterOperator{})
	if err != nil {
		return nil, err
	}

	return &Families{KV: kv, Tags: tags, Counters: counters}, nil
}
