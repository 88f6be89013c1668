package store

import (
	"bytes"

	"github.com/google/btree"
)

// snapshot copies the cached items within [start, end) so that the
// iterator stays valid while the cache is being written to.
func snapshot(bt *btree.BTree, start, end []byte) []keyer {
	var items []keyer
	collect := func(i btree.Item) bool {
		items = append(items, i.(keyer))
		return true
	}
	switch {
	case start == nil && end == nil:
		bt.Ascend(collect)
	case start == nil:
		bt.AscendLessThan(bkey(end), collect)
	case end == nil:
		bt.AscendGreaterOrEqual(bkey(start), collect)
	default:
		bt.AscendRange(bkey(start), bkey(end), collect)
	}
	return items
}

// mergeIterator walks the cached items and the parent iterator side by
// side. Cached entries shadow the parent, deleted entries hide it.
type mergeIterator struct {
	cache  []keyer
	parent Iterator

	key   []byte
	value []byte
	valid bool
}

var _ Iterator = (*mergeIterator)(nil)

func newMergeIterator(cache []keyer, parent Iterator) *mergeIterator {
	it := &mergeIterator{cache: cache, parent: parent}
	it.advance()
	return it
}

// advance positions the iterator on the next visible entry.
func (m *mergeIterator) advance() {
	for {
		hasCache := len(m.cache) > 0
		hasParent := m.parent.Valid()

		switch {
		case !hasCache && !hasParent:
			m.valid = false
			m.key, m.value = nil, nil
			return
		case !hasCache:
			m.takeParent()
			return
		case !hasParent:
			if m.takeCache() {
				return
			}
		default:
			cmp := bytes.Compare(m.cache[0].itemKey(), m.parent.Key())
			if cmp > 0 {
				m.takeParent()
				return
			}
			if cmp == 0 {
				// cached value overrides the parent one
				_ = m.parent.Next()
			}
			if m.takeCache() {
				return
			}
		}
	}
}

func (m *mergeIterator) takeParent() {
	m.key, m.value, m.valid = m.parent.Key(), m.parent.Value(), true
	_ = m.parent.Next()
}

// takeCache consumes the first cached item and reports whether it is
// visible.
func (m *mergeIterator) takeCache() bool {
	head := m.cache[0]
	m.cache = m.cache[1:]
	if s, ok := head.(setItem); ok {
		m.key, m.value, m.valid = s.key, s.value, true
		return true
	}
	return false
}

// Valid returns true iff Key and Value can be read.
func (m *mergeIterator) Valid() bool {
	return m.valid
}

// Next moves to the following key. Panics when not valid.
func (m *mergeIterator) Next() error {
	if !m.valid {
		panic("iterator is not valid")
	}
	m.advance()
	return nil
}

// Key returns the current key. Panics when not valid.
func (m *mergeIterator) Key() []byte {
	if !m.valid {
		panic("iterator is not valid")
	}
	return m.key
}

// Value returns the current value. Panics when not valid.
func (m *mergeIterator) Value() []byte {
	if !m.valid {
		panic("iterator is not valid")
	}
	return m.value
}

// Close releases the parent iterator.
func (m *mergeIterator) Close() {
	m.parent.Close()
	m.cache = nil
	m.valid = false
}
