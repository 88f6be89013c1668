package orm

import (
	"testing"

	"github.com/iov-one/vaultswap"
	"github.com/iov-one/vaultswap/errors"
	"github.com/iov-one/vaultswap/store"
	"github.com/iov-one/vaultswap/weavetest/assert"
)

// note is a minimal model used to exercise the bucket.
type note struct {
	Owner string
	Text  string
}

func (n *note) Marshal() ([]byte, error) { return vaultswap.MarshalBinary(n) }
func (n *note) Unmarshal(raw []byte) error { return vaultswap.UnmarshalBinary(raw, n) }

func (n *note) Validate() error {
	if n.Text == "" {
		return errors.Wrap(errors.ErrEmpty, "text")
	}
	return nil
}

func byOwner(m Model) ([]byte, error) {
	n, ok := m.(*note)
	if !ok {
		return nil, errors.WithType(errors.ErrInvalidModel, m)
	}
	if n.Owner == "" {
		return nil, nil
	}
	return []byte(n.Owner), nil
}

func newNoteBucket() ModelBucket {
	return NewModelBucket("note", &note{}, WithIndex("owner", byOwner))
}

func TestModelBucket(t *testing.T) {
	db := store.MemStore()
	b := newNoteBucket()

	assert.Nil(t, b.Put(db, []byte("n1"), &note{Owner: "alice", Text: "hi"}))

	var n1 note
	assert.Nil(t, b.One(db, []byte("n1"), &n1))
	assert.Equal(t, note{Owner: "alice", Text: "hi"}, n1)
	assert.Nil(t, b.Has(db, []byte("n1")))

	assert.IsErr(t, errors.ErrInvalidType, b.One(db, []byte("n1"), &other{}))
	assert.IsErr(t, errors.ErrEmpty, b.Put(db, []byte("n2"), &note{Owner: "alice"}))
	assert.IsErr(t, errors.ErrEmpty, b.Put(db, nil, &note{Text: "no key"}))

	assert.Nil(t, b.Delete(db, []byte("n1")))
	assert.IsErr(t, errors.ErrNotFound, b.Delete(db, []byte("n1")))
	assert.IsErr(t, errors.ErrNotFound, b.One(db, []byte("n1"), &n1))
	assert.IsErr(t, errors.ErrNotFound, b.Has(db, []byte("n1")))
}

func TestModelBucketByIndex(t *testing.T) {
	db := store.MemStore()
	b := newNoteBucket()

	assert.Nil(t, b.Put(db, []byte("a1"), &note{Owner: "alice", Text: "1"}))
	assert.Nil(t, b.Put(db, []byte("a2"), &note{Owner: "alice", Text: "2"}))
	assert.Nil(t, b.Put(db, []byte("b1"), &note{Owner: "bob", Text: "3"}))
	assert.Nil(t, b.Put(db, []byte("x1"), &note{Text: "unowned"}))
	// an owner name that is a prefix of another must not match it
	assert.Nil(t, b.Put(db, []byte("c1"), &note{Owner: "alicex", Text: "4"}))

	keys, err := b.ByIndex(db, "owner", []byte("alice"))
	assert.Nil(t, err)
	assert.Equal(t, [][]byte{[]byte("a1"), []byte("a2")}, keys)

	// moving a model to another owner moves the index entry
	assert.Nil(t, b.Put(db, []byte("a2"), &note{Owner: "bob", Text: "2"}))
	keys, err = b.ByIndex(db, "owner", []byte("alice"))
	assert.Nil(t, err)
	assert.Equal(t, [][]byte{[]byte("a1")}, keys)
	keys, err = b.ByIndex(db, "owner", []byte("bob"))
	assert.Nil(t, err)
	assert.Equal(t, [][]byte{[]byte("a2"), []byte("b1")}, keys)

	// deleting removes the entry
	assert.Nil(t, b.Delete(db, []byte("b1")))
	keys, err = b.ByIndex(db, "owner", []byte("bob"))
	assert.Nil(t, err)
	assert.Equal(t, [][]byte{[]byte("a2")}, keys)

	keys, err = b.ByIndex(db, "owner", []byte("nobody"))
	assert.Nil(t, err)
	assert.Equal(t, 0, len(keys))

	_, err = b.ByIndex(db, "missing", []byte("alice"))
	assert.IsErr(t, errors.ErrInvalidInput, err)
}

func TestModelBucketNames(t *testing.T) {
	assert.Panics(t, func() { NewModelBucket("Bad Name", &note{}) })
	assert.Panics(t, func() {
		NewModelBucket("note", &note{}, WithIndex("owner", byOwner), WithIndex("owner", byOwner))
	})
}

func TestPrefixEnd(t *testing.T) {
	assert.Equal(t, []byte("ab"), prefixEnd([]byte("aa")))
	assert.Equal(t, []byte{0x01}, prefixEnd([]byte{0x00, 0xff}))
	assert.Nil(t, prefixEnd([]byte{0xff, 0xff}))
}

type other struct{ note }
