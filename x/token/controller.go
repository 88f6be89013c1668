package token

import (
	"math"

	"github.com/iov-one/vaultswap"
	"github.com/iov-one/vaultswap/errors"
	"github.com/iov-one/vaultswap/orm"
	"github.com/iov-one/vaultswap/x"
	"github.com/iov-one/vaultswap/x/cash"
)

// Controller is the token ledger as seen by other extensions. Every
// operation that takes funds or control away from an account owner
// requires the owner to be authenticated in the context.
type Controller interface {
	LoadMint(db vaultswap.ReadOnlyKVStore, mint vaultswap.Address) (*Mint, error)
	LoadAccount(db vaultswap.ReadOnlyKVStore, addr vaultswap.Address) (*Account, error)
	Balance(db vaultswap.ReadOnlyKVStore, addr vaultswap.Address) (uint64, error)

	// CreateAccount allocates an empty account at addr. The storage
	// deposit is charged from payer, who must be authenticated.
	CreateAccount(ctx vaultswap.Context, db vaultswap.KVStore, payer, addr, mint, owner vaultswap.Address) (*Account, error)

	// Transfer moves amount between two accounts of the same mint.
	Transfer(ctx vaultswap.Context, db vaultswap.KVStore, from, to vaultswap.Address, amount uint64) error

	// SetOwner hands the account over to newOwner.
	SetOwner(ctx vaultswap.Context, db vaultswap.KVStore, addr, newOwner vaultswap.Address) error

	// MintTo issues new tokens into an account. The mint authority must
	// be authenticated.
	MintTo(ctx vaultswap.Context, db vaultswap.KVStore, addr vaultswap.Address, amount uint64) error

	// CloseAccount removes an empty account and refunds its storage
	// deposit to the refund wallet.
	CloseAccount(ctx vaultswap.Context, db vaultswap.KVStore, addr, refund vaultswap.Address) error
}

// BaseController is the default token ledger implementation.
type BaseController struct {
	auth     x.Authenticator
	cash     cash.Controller
	mints    orm.ModelBucket
	accounts orm.ModelBucket
}

var _ Controller = BaseController{}

// NewController returns a ledger that authorizes operations with auth
// and charges storage deposits through cashCtrl.
func NewController(auth x.Authenticator, cashCtrl cash.Controller) BaseController {
	return BaseController{
		auth:     auth,
		cash:     cashCtrl,
		mints:    NewMintBucket(),
		accounts: NewAccountBucket(),
	}
}

func (c BaseController) LoadMint(db vaultswap.ReadOnlyKVStore, mint vaultswap.Address) (*Mint, error) {
	var m Mint
	if err := c.mints.One(db, mint, &m); err != nil {
		return nil, errors.Wrapf(err, "mint %s", mint)
	}
	return &m, nil
}

func (c BaseController) LoadAccount(db vaultswap.ReadOnlyKVStore, addr vaultswap.Address) (*Account, error) {
	var a Account
	if err := c.accounts.One(db, addr, &a); err != nil {
		return nil, errors.Wrapf(err, "account %s", addr)
	}
	return &a, nil
}

func (c BaseController) Balance(db vaultswap.ReadOnlyKVStore, addr vaultswap.Address) (uint64, error) {
	a, err := c.LoadAccount(db, addr)
	if err != nil {
		return 0, err
	}
	return a.Amount, nil
}

func (c BaseController) CreateAccount(ctx vaultswap.Context, db vaultswap.KVStore, payer, addr, mint, owner vaultswap.Address) (*Account, error) {
	if err := c.checkCreateAccount(ctx, db, payer, addr, mint); err != nil {
		return nil, err
	}
	deposit, err := c.cash.Charge(db, payer)
	if err != nil {
		return nil, err
	}
	acc := &Account{
		Metadata: &vaultswap.Metadata{Schema: 1},
		Mint:     mint,
		Owner:    owner,
		Deposit:  deposit,
	}
	if err := c.accounts.Put(db, addr, acc); err != nil {
		return nil, errors.Wrap(err, "save account")
	}
	return acc, nil
}

// checkCreateAccount runs every check of CreateAccount without writing.
func (c BaseController) checkCreateAccount(ctx vaultswap.Context, db vaultswap.ReadOnlyKVStore, payer, addr, mint vaultswap.Address) error {
	if err := addr.Validate(); err != nil {
		return errors.Wrap(err, "account address")
	}
	if !c.auth.HasAddress(ctx, payer) {
		return errors.Wrap(errors.ErrUnauthorized, "payer signature missing")
	}
	if _, err := c.LoadMint(db, mint); err != nil {
		return err
	}
	switch err := c.accounts.Has(db, addr); {
	case err == nil:
		return errors.Wrapf(errors.ErrDuplicate, "account %s", addr)
	case !errors.ErrNotFound.Is(err):
		return err
	}
	conf, err := cash.LoadConfiguration(db)
	if err != nil {
		return err
	}
	funds, err := c.cash.Balance(db, payer)
	if err != nil {
		return err
	}
	if funds < conf.StorageDeposit {
		return errors.Wrapf(errors.ErrInsufficientBalance, "wallet %s holds %d, storage deposit is %d", payer, funds, conf.StorageDeposit)
	}
	return nil
}

// ownedAccount loads an account and ensures its owner is authenticated.
func (c BaseController) ownedAccount(ctx vaultswap.Context, db vaultswap.ReadOnlyKVStore, addr vaultswap.Address) (*Account, error) {
	acc, err := c.LoadAccount(db, addr)
	if err != nil {
		return nil, err
	}
	if !c.auth.HasAddress(ctx, acc.Owner) {
		return nil, errors.Wrapf(errors.ErrUnauthorized, "account %s owner", addr)
	}
	return acc, nil
}

func (c BaseController) Transfer(ctx vaultswap.Context, db vaultswap.KVStore, from, to vaultswap.Address, amount uint64) error {
	src, dst, err := c.checkTransfer(ctx, db, from, to, amount)
	if err != nil {
		return err
	}
	if from.Equals(to) {
		return nil
	}
	src.Amount -= amount
	dst.Amount += amount
	if err := c.accounts.Put(db, from, src); err != nil {
		return errors.Wrap(err, "save source")
	}
	if err := c.accounts.Put(db, to, dst); err != nil {
		return errors.Wrap(err, "save destination")
	}
	return nil
}

// checkTransfer loads both accounts of a transfer and ensures it can be
// applied.
func (c BaseController) checkTransfer(ctx vaultswap.Context, db vaultswap.ReadOnlyKVStore, from, to vaultswap.Address, amount uint64) (*Account, *Account, error) {
	if amount == 0 {
		return nil, nil, errors.Wrap(errors.ErrInvalidAmount, "zero transfer")
	}
	src, err := c.ownedAccount(ctx, db, from)
	if err != nil {
		return nil, nil, err
	}
	dst, err := c.LoadAccount(db, to)
	if err != nil {
		return nil, nil, err
	}
	if !src.Mint.Equals(dst.Mint) {
		return nil, nil, errors.Wrapf(errors.ErrInvalidInput, "mint mismatch: %s and %s", src.Mint, dst.Mint)
	}
	if src.Amount < amount {
		return nil, nil, errors.Wrapf(errors.ErrInsufficientBalance, "account %s holds %d, %d needed", from, src.Amount, amount)
	}
	if !from.Equals(to) && dst.Amount > math.MaxUint64-amount {
		return nil, nil, errors.Wrap(errors.ErrOverflow, "destination account")
	}
	return src, dst, nil
}

func (c BaseController) SetOwner(ctx vaultswap.Context, db vaultswap.KVStore, addr, newOwner vaultswap.Address) error {
	if err := newOwner.Validate(); err != nil {
		return errors.Wrap(err, "new owner")
	}
	acc, err := c.ownedAccount(ctx, db, addr)
	if err != nil {
		return err
	}
	acc.Owner = newOwner
	return c.accounts.Put(db, addr, acc)
}

func (c BaseController) MintTo(ctx vaultswap.Context, db vaultswap.KVStore, addr vaultswap.Address, amount uint64) error {
	acc, mint, err := c.checkMintTo(ctx, db, addr, amount)
	if err != nil {
		return err
	}
	mint.Supply += amount
	acc.Amount += amount
	if err := c.mints.Put(db, acc.Mint, mint); err != nil {
		return errors.Wrap(err, "save mint")
	}
	return c.accounts.Put(db, addr, acc)
}

func (c BaseController) checkMintTo(ctx vaultswap.Context, db vaultswap.ReadOnlyKVStore, addr vaultswap.Address, amount uint64) (*Account, *Mint, error) {
	if amount == 0 {
		return nil, nil, errors.Wrap(errors.ErrInvalidAmount, "zero issue")
	}
	acc, err := c.LoadAccount(db, addr)
	if err != nil {
		return nil, nil, err
	}
	mint, err := c.LoadMint(db, acc.Mint)
	if err != nil {
		return nil, nil, err
	}
	if !c.auth.HasAddress(ctx, mint.Authority) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "mint authority signature missing")
	}
	if mint.Supply > math.MaxUint64-amount {
		return nil, nil, errors.Wrap(errors.ErrOverflow, "mint supply")
	}
	return acc, mint, nil
}

func (c BaseController) CloseAccount(ctx vaultswap.Context, db vaultswap.KVStore, addr, refund vaultswap.Address) error {
	acc, err := c.checkCloseAccount(ctx, db, addr)
	if err != nil {
		return err
	}
	if err := c.accounts.Delete(db, addr); err != nil {
		return errors.Wrap(err, "delete account")
	}
	return c.cash.Refund(db, refund, acc.Deposit)
}

// checkCloseAccount returns the account if its owner signed and it holds
// no tokens.
func (c BaseController) checkCloseAccount(ctx vaultswap.Context, db vaultswap.ReadOnlyKVStore, addr vaultswap.Address) (*Account, error) {
	acc, err := c.ownedAccount(ctx, db, addr)
	if err != nil {
		return nil, err
	}
	if acc.Amount != 0 {
		return nil, errors.Wrapf(errors.ErrInvalidState, "account %s holds %d", addr, acc.Amount)
	}
	return acc, nil
}

// AccountsByOwner returns the addresses of all accounts of given owner.
func AccountsByOwner(db vaultswap.ReadOnlyKVStore, owner vaultswap.Address) ([]vaultswap.Address, error) {
	keys, err := NewAccountBucket().ByIndex(db, "owner", owner)
	if err != nil {
		return nil, err
	}
	addrs := make([]vaultswap.Address, len(keys))
	for i, k := range keys {
		addrs[i] = k
	}
	return addrs, nil
}
