package common

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/iterator"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

// SetSerialized serializes data and puts it into contract storage.
func SetSerialized(ctx storage.Context, key any, value any) {
	data := std.Serialize(value)
	storage.Put(ctx, key, data)
}

// GetInt returns integer stored by key or 0 if there is no such key.
func GetInt(ctx storage.Context, key any) int {
	val := storage.Get(ctx, key)
	if val == nil {
		return 0
	}

	return val.(int)
}

// KeyList returns all 20-byte suffixes of the keys with the given prefix.
func KeyList(ctx storage.Context, prefix []byte) []interop.Hash160 {
	res := []interop.Hash160{}

	it := storage.Find(ctx, prefix, storage.KeysOnly|storage.RemovePrefix)
	for iterator.Next(it) {
		res = append(res, iterator.Value(it).(interop.Hash160))
	}

	return res
}

// KeyCount returns the number of keys with the given prefix.
func KeyCount(ctx storage.Context, prefix []byte) int {
	var cnt int

	it := storage.Find(ctx, prefix, storage.KeysOnly)
	for iterator.Next(it) {
		cnt++
	}

	return cnt
}
