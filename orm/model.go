package orm

import "github.com/iov-one/vaultswap"

// Model is implemented by any entity that can be stored using ModelBucket.
type Model interface {
	vaultswap.Persistent
	Validate() error
}

// Indexer returns the secondary index value for given model. A nil value
// means the model is not indexed.
type Indexer func(Model) ([]byte, error)
