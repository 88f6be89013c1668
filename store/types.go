package store

import "github.com/iov-one/vaultswap"

// Move references for all storage types into this package
// for shorter names everywhere
type (
	ReadOnlyKVStore  = vaultswap.ReadOnlyKVStore
	SetDeleter       = vaultswap.SetDeleter
	KVStore          = vaultswap.KVStore
	Batch            = vaultswap.Batch
	Iterator         = vaultswap.Iterator
	CacheableKVStore = vaultswap.CacheableKVStore
	KVCacheWrap      = vaultswap.KVCacheWrap
	CommitKVStore    = vaultswap.CommitKVStore
	CommitID         = vaultswap.CommitID
)

// Model groups together key and value to return
type Model struct {
	Key   []byte
	Value []byte
}

// Pair constructs a model from a key-value pair
func Pair(key, value []byte) Model {
	return Model{
		Key:   key,
		Value: value,
	}
}
