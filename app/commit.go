package app

import (
	"github.com/iov-one/vaultswap"
	"github.com/iov-one/vaultswap/errors"
)

// CommitStore maintains separate cache wraps for DeliverTx and CheckTx
// on top of the committed state.
type CommitStore struct {
	backend   vaultswap.CommitKVStore
	committed vaultswap.CacheableKVStore
	deliver   vaultswap.KVCacheWrap
	check     vaultswap.KVCacheWrap
}

// NewCommitStore sets up the deliver and check caches over the working
// state of given store.
func NewCommitStore(store vaultswap.CommitKVStore) *CommitStore {
	committed := store.Adapter()
	return &CommitStore{
		backend:   store,
		committed: committed,
		deliver:   committed.CacheWrap(),
		check:     committed.CacheWrap(),
	}
}

// CommitInfo returns the current height and hash
func (cs *CommitStore) CommitInfo() vaultswap.CommitID {
	return cs.backend.LatestVersion()
}

// Commit flushes deliver to the underlying store, saves a new version
// and regenerates the deliver and check caches.
func (cs *CommitStore) Commit() (vaultswap.CommitID, error) {
	if err := cs.deliver.Write(); err != nil {
		return vaultswap.CommitID{}, errors.Wrap(err, "write deliver cache")
	}
	cs.check.Discard()

	id, err := cs.backend.Commit()
	if err != nil {
		return vaultswap.CommitID{}, errors.Wrap(err, "commit")
	}
	cs.reset()
	return id, nil
}

// reset drops all uncommitted changes.
func (cs *CommitStore) reset() {
	cs.deliver.Discard()
	cs.check.Discard()
	cs.deliver = cs.committed.CacheWrap()
	cs.check = cs.committed.CacheWrap()
}

// CheckStore returns a store implementation that must be used during the
// checking phase.
func (cs *CommitStore) CheckStore() vaultswap.CacheableKVStore {
	return cs.check
}

// DeliverStore returns a store implementation that must be used during the
// delivery phase.
func (cs *CommitStore) DeliverStore() vaultswap.CacheableKVStore {
	return cs.deliver
}

// _vs: is a prefix for internal application data
const chainIDKey = "_vs:chainID"

// loadChainID returns the chain id stored if any
func loadChainID(kv vaultswap.ReadOnlyKVStore) (string, error) {
	v, err := kv.Get([]byte(chainIDKey))
	if err != nil {
		return "", errors.Wrap(err, "load chain id")
	}
	return string(v), nil
}

// saveChainID stores a chain id in the kv store.
// Returns error if already set, or invalid name
func saveChainID(kv vaultswap.KVStore, chainID string) error {
	if !vaultswap.IsValidChainID(chainID) {
		return errors.Wrapf(errors.ErrInvalidInput, "chain id: %v", chainID)
	}
	k := []byte(chainIDKey)
	exists, err := kv.Has(k)
	if err != nil {
		return errors.Wrap(err, "load chain id")
	}
	if exists {
		return errors.Wrap(errors.ErrUnauthorized, "can't modify chain id after genesis init")
	}
	if err := kv.Set(k, []byte(chainID)); err != nil {
		return errors.Wrap(err, "save chain id")
	}
	return nil
}
