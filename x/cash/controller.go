package cash

import (
	"math"

	"github.com/iov-one/vaultswap"
	"github.com/iov-one/vaultswap/errors"
	"github.com/iov-one/vaultswap/orm"
)

// ReserveAddress holds all storage deposits. No key exists for it, coins
// leave it only through Refund.
var ReserveAddress = vaultswap.NewCondition("cash", "reserve", []byte("storage")).Address()

// Controller is the functionality of the cash extension available to
// other extensions.
type Controller interface {
	// Balance returns the native coins held by given address.
	Balance(db vaultswap.ReadOnlyKVStore, addr vaultswap.Address) (uint64, error)

	// MoveCoins moves amount from src to dest. The caller is responsible
	// for authorizing the transfer.
	MoveCoins(db vaultswap.KVStore, src, dest vaultswap.Address, amount uint64) error

	// IssueCoins creates amount of new coins in the wallet of dest.
	IssueCoins(db vaultswap.KVStore, dest vaultswap.Address, amount uint64) error

	// Charge moves the configured storage deposit from payer to the
	// reserve and returns the charged amount.
	Charge(db vaultswap.KVStore, payer vaultswap.Address) (uint64, error)

	// Refund pays a storage deposit back from the reserve.
	Refund(db vaultswap.KVStore, dest vaultswap.Address, amount uint64) error
}

// BaseController is the default Controller implementation.
type BaseController struct {
	bucket orm.ModelBucket
}

var _ Controller = BaseController{}

// NewController returns a controller operating on the wallet bucket.
func NewController() BaseController {
	return BaseController{bucket: NewBucket()}
}

func (c BaseController) load(db vaultswap.ReadOnlyKVStore, addr vaultswap.Address) (*Wallet, error) {
	if err := addr.Validate(); err != nil {
		return nil, errors.Wrap(err, "wallet address")
	}
	var w Wallet
	switch err := c.bucket.One(db, addr, &w); {
	case err == nil:
		return &w, nil
	case errors.ErrNotFound.Is(err):
		return &Wallet{Metadata: &vaultswap.Metadata{Schema: 1}}, nil
	default:
		return nil, err
	}
}

func (c BaseController) Balance(db vaultswap.ReadOnlyKVStore, addr vaultswap.Address) (uint64, error) {
	w, err := c.load(db, addr)
	if err != nil {
		return 0, err
	}
	return w.Amount, nil
}

func (c BaseController) MoveCoins(db vaultswap.KVStore, src, dest vaultswap.Address, amount uint64) error {
	if amount == 0 {
		return errors.Wrap(errors.ErrInvalidAmount, "zero transfer")
	}
	if err := dest.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}
	sender, err := c.load(db, src)
	if err != nil {
		return err
	}
	if sender.Amount < amount {
		return errors.Wrapf(errors.ErrInsufficientBalance, "wallet %s holds %d, %d needed", src, sender.Amount, amount)
	}
	sender.Amount -= amount
	if err := c.bucket.Put(db, src, sender); err != nil {
		return errors.Wrap(err, "save sender")
	}

	// Reload after the sender was saved, src and dest may be the same.
	recipient, err := c.load(db, dest)
	if err != nil {
		return err
	}
	if recipient.Amount > math.MaxUint64-amount {
		return errors.Wrap(errors.ErrOverflow, "recipient wallet")
	}
	recipient.Amount += amount
	if err := c.bucket.Put(db, dest, recipient); err != nil {
		return errors.Wrap(err, "save recipient")
	}
	return nil
}

func (c BaseController) IssueCoins(db vaultswap.KVStore, dest vaultswap.Address, amount uint64) error {
	w, err := c.load(db, dest)
	if err != nil {
		return err
	}
	if w.Amount > math.MaxUint64-amount {
		return errors.Wrap(errors.ErrOverflow, "wallet")
	}
	w.Amount += amount
	return c.bucket.Put(db, dest, w)
}

func (c BaseController) Charge(db vaultswap.KVStore, payer vaultswap.Address) (uint64, error) {
	conf, err := LoadConfiguration(db)
	if err != nil {
		return 0, err
	}
	if conf.StorageDeposit == 0 {
		return 0, nil
	}
	if err := c.MoveCoins(db, payer, ReserveAddress, conf.StorageDeposit); err != nil {
		return 0, errors.Wrap(err, "storage deposit")
	}
	return conf.StorageDeposit, nil
}

func (c BaseController) Refund(db vaultswap.KVStore, dest vaultswap.Address, amount uint64) error {
	if amount == 0 {
		return nil
	}
	if err := c.MoveCoins(db, ReserveAddress, dest, amount); err != nil {
		return errors.Wrap(err, "storage refund")
	}
	return nil
}
