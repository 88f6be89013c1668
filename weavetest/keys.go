package weavetest

import (
	"github.com/iov-one/vaultswap"
	"github.com/iov-one/vaultswap/crypto"
)

// NewKey returns a random ed25519 key.
func NewKey() *crypto.PrivateKey {
	return crypto.GenPrivKeyEd25519()
}

// NewCondition returns the signature condition of a random key.
func NewCondition() vaultswap.Condition {
	return NewKey().PublicKey().Condition()
}
