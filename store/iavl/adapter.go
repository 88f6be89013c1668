package iavl

import (
	"github.com/iov-one/vaultswap/errors"
	"github.com/iov-one/vaultswap/store"
	"github.com/tendermint/iavl"
	dbm "github.com/tendermint/tendermint/libs/db"
)

// cacheSize is the number of tree nodes kept in memory.
const cacheSize = 10000

// CommitStore manages the ledger state in an iavl tree. Every commit
// saves a new tree version, its root hash is the application hash.
type CommitStore struct {
	tree *iavl.MutableTree
	last *store.CommitID
}

var _ store.CommitKVStore = (*CommitStore)(nil)

// NewCommitStore loads the latest version persisted in db.
func NewCommitStore(db dbm.DB) (*CommitStore, error) {
	tree := iavl.NewMutableTree(db, cacheSize)
	version, err := tree.Load()
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return &CommitStore{
		tree: tree,
		last: &store.CommitID{Version: version, Hash: tree.Hash()},
	}, nil
}

// NewDiskCommitStore opens a leveldb database called name in dir.
func NewDiskCommitStore(dir, name string) (*CommitStore, error) {
	db, err := dbm.NewGoLevelDB(name, dir)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "open %s: %s", name, err)
	}
	return NewCommitStore(db)
}

// MemCommitStore returns a store that is never persisted.
func MemCommitStore() *CommitStore {
	s, err := NewCommitStore(dbm.NewMemDB())
	if err != nil {
		// An empty memory database always loads.
		panic(err)
	}
	return s
}

// Commit saves the working tree as the next version.
func (s *CommitStore) Commit() (store.CommitID, error) {
	hash, version, err := s.tree.SaveVersion()
	if err != nil {
		return store.CommitID{}, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	*s.last = store.CommitID{Version: version, Hash: hash}
	return *s.last, nil
}

// LatestVersion returns info on the latest version saved.
func (s *CommitStore) LatestVersion() store.CommitID {
	return *s.last
}

// Adapter returns the working tree. Changes written to it are included
// in the next Commit.
func (s *CommitStore) Adapter() store.CacheableKVStore {
	return adapter{tree: s.tree}
}

// adapter exposes the working tree as a store.
type adapter struct {
	tree *iavl.MutableTree
}

var _ store.CacheableKVStore = adapter{}

func (a adapter) Get(key []byte) ([]byte, error) {
	_, val := a.tree.Get(key)
	return val, nil
}

func (a adapter) Has(key []byte) (bool, error) {
	return a.tree.Has(key), nil
}

func (a adapter) Set(key, value []byte) error {
	if len(key) == 0 {
		return errors.Wrap(errors.ErrInvalidInput, "empty key")
	}
	// The tree refuses nil values.
	if value == nil {
		value = []byte{}
	}
	a.tree.Set(key, value)
	return nil
}

func (a adapter) Delete(key []byte) error {
	a.tree.Remove(key)
	return nil
}

func (a adapter) NewBatch() store.Batch {
	return store.NewNonAtomicBatch(a)
}

// CacheWrap puts a btree layer in front of the tree.
func (a adapter) CacheWrap() store.KVCacheWrap {
	return store.NewBTreeCacheWrap(a, a.NewBatch(), nil)
}

// Iterator loads the whole range up front, so the tree may be modified
// while the iterator is in use.
func (a adapter) Iterator(start, end []byte) (store.Iterator, error) {
	var res []store.Model
	a.tree.IterateRange(start, end, true, func(key, value []byte) bool {
		res = append(res, store.Pair(key, value))
		return false
	})
	return store.NewSliceIterator(res), nil
}
