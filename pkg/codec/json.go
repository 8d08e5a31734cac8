package codec

import (
	"encoding/json"
	"fmt"
)

// JSONCodec encodes values of any JSON-serializable type. Its encoded
// length is never known up front, so it always takes the append path; it
// exists both as a general payload codec and as the reference
// implementation of a streaming codec.
type JSONCodec[T any] struct{}

func (JSONCodec[T]) Size(T) (int, bool) { return 0, false }

// MarshalTo is not supported: Size never succeeds, so callers are required
// to use Append.
func (JSONCodec[T]) MarshalTo(T, []byte) {
	panic("codec: JSONCodec has no sized form; use Append")
}

func (JSONCodec[T]) Append(dst []byte, v T) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		// Only reachable with types json cannot serialize, which is a
		// column-family configuration bug.
		panic(fmt.Sprintf("codec: json encode: %v", err))
	}
	return append(dst, b...)
}

func (JSONCodec[T]) Unmarshal(data []byte) T {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		panic(fmt.Sprintf("codec: json decode: %v", err))
	}
	return v
}
