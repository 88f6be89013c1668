package token

import (
	"github.com/iov-one/vaultswap"
	"github.com/iov-one/vaultswap/errors"
)

const optKey = "token"

// GenesisMint declares a mint in the genesis file.
type GenesisMint struct {
	Address   vaultswap.Address `json:"address"`
	Authority vaultswap.Address `json:"authority"`
	Decimals  uint32            `json:"decimals"`
}

// GenesisAccount declares a funded account in the genesis file. Genesis
// accounts pay no storage deposit.
type GenesisAccount struct {
	Address vaultswap.Address `json:"address"`
	Mint    vaultswap.Address `json:"mint"`
	Owner   vaultswap.Address `json:"owner"`
	Amount  uint64            `json:"amount"`
}

// Initializer fulfils the Initializer interface to load data from
// the genesis file
type Initializer struct{}

var _ vaultswap.Initializer = Initializer{}

// FromGenesis saves all declared mints and accounts. The supply of each
// mint is the sum of its genesis accounts.
func (Initializer) FromGenesis(opts vaultswap.Options, db vaultswap.KVStore) error {
	var gen struct {
		Mints    []GenesisMint    `json:"mints"`
		Accounts []GenesisAccount `json:"accounts"`
	}
	if err := opts.ReadOptions(optKey, &gen); err != nil {
		return errors.Wrap(err, "cannot read token genesis")
	}

	mints := NewMintBucket()
	supply := make(map[string]uint64)
	for i, m := range gen.Mints {
		if err := m.Address.Validate(); err != nil {
			return errors.Wrapf(err, "mint %d", i)
		}
		supply[string(m.Address)] = 0
	}

	accounts := NewAccountBucket()
	for i, a := range gen.Accounts {
		if err := a.Address.Validate(); err != nil {
			return errors.Wrapf(err, "account %d", i)
		}
		total, ok := supply[string(a.Mint)]
		if !ok {
			return errors.Wrapf(errors.ErrNotFound, "account %d mint %s", i, a.Mint)
		}
		if total+a.Amount < total {
			return errors.Wrapf(errors.ErrOverflow, "mint %s supply", a.Mint)
		}
		supply[string(a.Mint)] = total + a.Amount
		acc := &Account{
			Metadata: &vaultswap.Metadata{Schema: 1},
			Mint:     a.Mint,
			Owner:    a.Owner,
			Amount:   a.Amount,
		}
		if err := accounts.Put(db, a.Address, acc); err != nil {
			return errors.Wrapf(err, "account %d", i)
		}
	}

	for i, m := range gen.Mints {
		mint := &Mint{
			Metadata:  &vaultswap.Metadata{Schema: 1},
			Authority: m.Authority,
			Supply:    supply[string(m.Address)],
			Decimals:  m.Decimals,
		}
		if err := mints.Put(db, m.Address, mint); err != nil {
			return errors.Wrapf(err, "mint %d", i)
		}
	}
	return nil
}
