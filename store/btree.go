package store

import (
	"bytes"

	"github.com/google/btree"
	"github.com/iov-one/vaultswap/errors"
)

// freeListSize is the number of btree nodes kept for reuse between
// cache layers of the same store.
const freeListSize = btree.DefaultFreeListSize

// BTreeCacheable gives any KVStore a btree-backed cache layer.
type BTreeCacheable struct {
	KVStore
}

var _ CacheableKVStore = BTreeCacheable{}

// CacheWrap returns a layer that is flushed into the store through a
// batch on Write.
func (b BTreeCacheable) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(b.KVStore, b.NewBatch(), nil)
}

// MemStore returns an in-memory store. Nothing is persisted.
func MemStore() CacheableKVStore {
	e := EmptyKVStore{}
	return NewBTreeCacheWrap(e, e.NewBatch(), nil)
}

// RecordedStore returns an in-memory store together with the batch
// collecting every write, in the order it was made. The writes reach the
// batch once the returned layer is written.
func RecordedStore() (KVCacheWrap, *NonAtomicBatch) {
	e := EmptyKVStore{}
	b := NewNonAtomicBatch(e)
	return NewBTreeCacheWrap(e, b, nil), b
}

// BTreeCacheWrap keeps pending writes in a btree in front of a read only
// parent. Writes are mirrored into a batch that is flushed on Write.
type BTreeCacheWrap struct {
	bt    *btree.BTree
	free  *btree.FreeList
	back  ReadOnlyKVStore
	batch Batch
}

var _ KVCacheWrap = BTreeCacheWrap{}

// NewBTreeCacheWrap creates a cache layer over kv. All writes must go
// through batch, kv is only read from.
//
// free may be nil. Pass the list of a parent layer to share nodes.
func NewBTreeCacheWrap(kv ReadOnlyKVStore, batch Batch, free *btree.FreeList) BTreeCacheWrap {
	if free == nil {
		free = btree.NewFreeList(freeListSize)
	}
	return BTreeCacheWrap{
		bt:    btree.NewWithFreeList(2, free),
		free:  free,
		back:  kv,
		batch: batch,
	}
}

// CacheWrap stacks another layer on top of this one.
func (b BTreeCacheWrap) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(b, b.NewBatch(), b.free)
}

// NewBatch returns a batch writing into this layer.
func (b BTreeCacheWrap) NewBatch() Batch {
	return NewNonAtomicBatch(b)
}

// Write flushes all pending changes to the parent and clears the layer.
func (b BTreeCacheWrap) Write() error {
	err := b.batch.Write()
	b.Discard()
	return err
}

// Discard drops all pending changes. Nodes go back to the free list.
func (b BTreeCacheWrap) Discard() {
	for b.bt.DeleteMin() != nil {
	}
	if nb, ok := b.batch.(*NonAtomicBatch); ok {
		nb.ops = nil
	}
}

// Set stores the value in the cache and in the batch.
func (b BTreeCacheWrap) Set(key, value []byte) error {
	if len(key) == 0 {
		return errors.Wrap(errors.ErrInvalidInput, "empty key")
	}
	b.bt.ReplaceOrInsert(setItem{key: key, value: value})
	return b.batch.Set(key, value)
}

// Delete marks the key removed in the cache and in the batch.
func (b BTreeCacheWrap) Delete(key []byte) error {
	b.bt.ReplaceOrInsert(deletedItem{key: key})
	return b.batch.Delete(key)
}

// Get reads the cache first and falls back to the parent.
func (b BTreeCacheWrap) Get(key []byte) ([]byte, error) {
	switch it := b.bt.Get(bkey(key)).(type) {
	case nil:
		return b.back.Get(key)
	case setItem:
		return it.value, nil
	case deletedItem:
		return nil, nil
	default:
		return nil, errors.Wrapf(errors.ErrDatabase, "unknown btree item %T", it)
	}
}

// Has reads the cache first and falls back to the parent.
func (b BTreeCacheWrap) Has(key []byte) (bool, error) {
	switch it := b.bt.Get(bkey(key)).(type) {
	case nil:
		return b.back.Has(key)
	case setItem:
		return true, nil
	case deletedItem:
		return false, nil
	default:
		return false, errors.Wrapf(errors.ErrDatabase, "unknown btree item %T", it)
	}
}

// Iterator returns keys in [start, end) in ascending order, merging the
// cache with the parent. A nil bound is open.
func (b BTreeCacheWrap) Iterator(start, end []byte) (Iterator, error) {
	parent, err := b.back.Iterator(start, end)
	if err != nil {
		return nil, errors.Wrap(err, "parent iterator")
	}
	return newMergeIterator(snapshot(b.bt, start, end), parent), nil
}

// keyer is implemented by every item stored in the btree.
type keyer interface {
	btree.Item
	itemKey() []byte
}

func less(a []byte, item btree.Item) bool {
	return bytes.Compare(a, item.(keyer).itemKey()) < 0
}

// bkey is used for lookups only.
type bkey []byte

func (k bkey) itemKey() []byte             { return k }
func (k bkey) Less(item btree.Item) bool { return less(k, item) }

type setItem struct {
	key   []byte
	value []byte
}

func (s setItem) itemKey() []byte             { return s.key }
func (s setItem) Less(item btree.Item) bool { return less(s.key, item) }

type deletedItem struct {
	key []byte
}

func (d deletedItem) itemKey() []byte             { return d.key }
func (d deletedItem) Less(item btree.Item) bool { return less(d.key, item) }
