package escrow

import (
	"context"

	"github.com/iov-one/vaultswap"
	"github.com/iov-one/vaultswap/errors"
	"github.com/iov-one/vaultswap/x"
)

var (
	// VaultSeed is combined with the escrow id to derive the vault
	// account address.
	VaultSeed = []byte("token-seed")
	// AuthoritySeed derives the authority owning every vault.
	AuthoritySeed = []byte("escrow")
)

// VaultAddress returns the address of the vault of given escrow and the
// bump that produced it.
func VaultAddress(programID, escrowID []byte) (vaultswap.Address, uint8, error) {
	cond, bump, err := vaultswap.DeriveAddress(programID, VaultSeed, escrowID)
	if err != nil {
		return nil, 0, errors.Wrap(err, "vault address")
	}
	return cond.Address(), bump, nil
}

// VaultAuthority returns the condition that owns all vaults of the
// program.
func VaultAuthority(programID []byte) (vaultswap.Condition, error) {
	cond, _, err := vaultswap.DeriveAddress(programID, AuthoritySeed)
	if err != nil {
		return nil, errors.Wrap(err, "vault authority")
	}
	return cond, nil
}

// verifyVault recomputes the vault address of an escrow from its stored
// bump.
func verifyVault(programID, escrowID []byte, e *Escrow) error {
	cond, err := vaultswap.CreateDerivedAddress(programID, uint8(e.VaultBump), VaultSeed, escrowID)
	if err != nil {
		return errors.Wrap(err, "vault address")
	}
	if !cond.Address().Equals(e.Vault) {
		return errors.Wrapf(ErrVaultMismatch, "escrow %X", escrowID)
	}
	return nil
}

type contextKey int // local to the escrow module

const (
	contextKeyAuthority contextKey = iota
)

// withAuthority is private, only escrow handlers may act as the vault
// authority.
func withAuthority(ctx vaultswap.Context, authority vaultswap.Condition) vaultswap.Context {
	return context.WithValue(ctx, contextKeyAuthority, authority)
}

// Authenticate yields the vault authority while an escrow handler is
// releasing a vault.
type Authenticate struct{}

var _ x.Authenticator = Authenticate{}

// GetConditions returns the vault authority if set.
func (Authenticate) GetConditions(ctx vaultswap.Context) []vaultswap.Condition {
	val, _ := ctx.Value(contextKeyAuthority).(vaultswap.Condition)
	if val == nil {
		return nil
	}
	return []vaultswap.Condition{val}
}

// HasAddress returns true if addr is the vault authority in the context.
func (a Authenticate) HasAddress(ctx vaultswap.Context, addr vaultswap.Address) bool {
	for _, c := range a.GetConditions(ctx) {
		if addr.Equals(c.Address()) {
			return true
		}
	}
	return false
}
