package orm

import (
	"encoding/binary"

	"github.com/iov-one/vaultswap"
	"github.com/iov-one/vaultswap/errors"
)

const indexPrefix = "_i."

// index stores one empty-valued entry per indexed model. The entry key is
// the index prefix, the length prefixed index value and the model key, so
// that all models sharing a value are next to each other.
type index struct {
	name    string
	prefix  []byte
	indexer Indexer
}

func newIndex(bucket, name string, indexer Indexer) *index {
	return &index{
		name:    name,
		prefix:  []byte(indexPrefix + bucket + "_" + name + ":"),
		indexer: indexer,
	}
}

// valuePrefix returns the key prefix shared by all entries of given value.
func (i *index) valuePrefix(value []byte) []byte {
	var l [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(l[:], uint64(len(value)))
	out := make([]byte, 0, len(i.prefix)+n+len(value))
	out = append(out, i.prefix...)
	out = append(out, l[:n]...)
	return append(out, value...)
}

func (i *index) entryKey(value, key []byte) []byte {
	return append(i.valuePrefix(value), key...)
}

// update moves the entry of key from the value of prev to the value of
// next. Either model can be nil.
func (i *index) update(db vaultswap.KVStore, key []byte, prev, next Model) error {
	var before, after []byte
	var err error
	if prev != nil {
		if before, err = i.indexer(prev); err != nil {
			return errors.Wrap(err, "indexer")
		}
	}
	if next != nil {
		if after, err = i.indexer(next); err != nil {
			return errors.Wrap(err, "indexer")
		}
	}
	if before != nil && string(before) == string(after) {
		return nil
	}
	if before != nil {
		if err := db.Delete(i.entryKey(before, key)); err != nil {
			return errors.Wrap(errors.ErrDatabase, err.Error())
		}
	}
	if after != nil {
		if err := db.Set(i.entryKey(after, key), []byte{}); err != nil {
			return errors.Wrap(errors.ErrDatabase, err.Error())
		}
	}
	return nil
}

func (i *index) keys(db vaultswap.ReadOnlyKVStore, value []byte) ([][]byte, error) {
	start := i.valuePrefix(value)
	it, err := db.Iterator(start, prefixEnd(start))
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	defer it.Close()

	var keys [][]byte
	for it.Valid() {
		k := it.Key()
		keys = append(keys, append([]byte(nil), k[len(start):]...))
		if err := it.Next(); err != nil {
			return nil, errors.Wrap(errors.ErrDatabase, err.Error())
		}
	}
	return keys, nil
}

// prefixEnd returns the smallest key greater than all keys starting with
// prefix, or nil if there is none.
func prefixEnd(prefix []byte) []byte {
	end := append([]byte(nil), prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		end[i]++
		if end[i] != 0 {
			return end[:i+1]
		}
	}
	return nil
}
