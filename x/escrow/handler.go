package escrow

import (
	"github.com/iov-one/vaultswap"
	"github.com/iov-one/vaultswap/errors"
	"github.com/iov-one/vaultswap/orm"
	"github.com/iov-one/vaultswap/x"
	"github.com/iov-one/vaultswap/x/cash"
	"github.com/iov-one/vaultswap/x/token"
	"github.com/tendermint/tendermint/libs/common"
)

const (
	initializeCost int64 = 300
	exchangeCost   int64 = 200
	cancelCost     int64 = 100

	stateTag = "escrow.state"
)

// RegisterRoutes will instantiate and register all handlers in this
// package. The token ledger used by the handlers accepts the vault
// authority in addition to auth.
func RegisterRoutes(r vaultswap.Registry, auth x.Authenticator, cashCtrl cash.Controller) {
	tokens := token.NewController(x.ChainAuth(auth, Authenticate{}), cashCtrl)
	base := handler{auth: auth, tokens: tokens, cash: cashCtrl, bucket: NewBucket()}
	r.Handle(&InitializeMsg{}, InitializeHandler{base})
	r.Handle(&ExchangeMsg{}, ExchangeHandler{base})
	r.Handle(&CancelMsg{}, CancelHandler{base})
}

// handler is the state shared by all escrow handlers.
type handler struct {
	auth   x.Authenticator
	tokens token.Controller
	cash   cash.Controller
	bucket orm.ModelBucket
}

// load returns the active escrow stored under id.
func (h handler) load(db vaultswap.ReadOnlyKVStore, id []byte) (*Escrow, error) {
	var e Escrow
	switch err := h.bucket.One(db, id, &e); {
	case err == nil:
		return &e, nil
	case errors.ErrNotFound.Is(err):
		return nil, errors.Wrapf(ErrRecordNotFound, "escrow %X", id)
	default:
		return nil, errors.Wrap(err, "cannot load escrow")
	}
}

// ownedBy loads a token account and ensures it belongs to owner.
func (h handler) ownedBy(db vaultswap.ReadOnlyKVStore, addr, owner vaultswap.Address, name string) (*token.Account, error) {
	acc, err := h.tokens.LoadAccount(db, addr)
	if err != nil {
		return nil, errors.Wrap(err, name)
	}
	if !acc.Owner.Equals(owner) {
		return nil, errors.Wrapf(errors.ErrUnauthorized, "%s %s is not owned by %s", name, addr, owner)
	}
	return acc, nil
}

// release runs fn with the vault authority of the program authenticated.
func (h handler) release(ctx vaultswap.Context, db vaultswap.KVStore, fn func(vaultswap.Context) error) error {
	conf, err := LoadConfiguration(db)
	if err != nil {
		return err
	}
	authority, err := VaultAuthority(conf.ProgramID)
	if err != nil {
		return err
	}
	return fn(withAuthority(ctx, authority))
}

// retire closes the vault of an empty escrow and deletes the record. Both
// storage deposits go back to the initializer.
func (h handler) retire(ctx vaultswap.Context, db vaultswap.KVStore, id []byte, e *Escrow) error {
	err := h.release(ctx, db, func(ctx vaultswap.Context) error {
		return h.tokens.CloseAccount(ctx, db, e.Vault, e.Initializer)
	})
	if err != nil {
		return errors.Wrap(err, "close vault")
	}
	if err := h.bucket.Delete(db, id); err != nil {
		return errors.Wrap(err, "delete escrow")
	}
	return h.cash.Refund(db, e.Initializer, e.StorageDeposit)
}

// InitializeHandler creates an escrow together with its funded vault.
type InitializeHandler struct {
	handler
}

var _ vaultswap.Handler = InitializeHandler{}

// Check verifies the escrow can be created and returns the cost of
// executing it.
func (h InitializeHandler) Check(ctx vaultswap.Context, db vaultswap.KVStore, tx vaultswap.Tx) (*vaultswap.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &vaultswap.CheckResult{GasAllocated: initializeCost}, nil
}

// Deliver allocates the vault, hands it over to the vault authority and
// moves the deposit into it.
func (h InitializeHandler) Deliver(ctx vaultswap.Context, db vaultswap.KVStore, tx vaultswap.Tx) (*vaultswap.DeliverResult, error) {
	in, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	msg := in.msg

	if _, err := h.tokens.CreateAccount(ctx, db, msg.Initializer, in.vault, in.mint, msg.Initializer); err != nil {
		return nil, errors.Wrap(err, "create vault")
	}
	if err := h.tokens.SetOwner(ctx, db, in.vault, in.authority.Address()); err != nil {
		return nil, errors.Wrap(err, "vault owner")
	}
	if err := h.tokens.Transfer(ctx, db, msg.DepositSource, in.vault, msg.DepositAmount); err != nil {
		return nil, errors.Wrap(err, "deposit")
	}

	deposit, err := h.cash.Charge(db, msg.Initializer)
	if err != nil {
		return nil, errors.Wrap(err, "escrow storage")
	}
	escrow := &Escrow{
		Metadata:            &vaultswap.Metadata{Schema: 1},
		Initializer:         msg.Initializer,
		DepositSource:       msg.DepositSource,
		ProceedsDestination: msg.ProceedsDestination,
		DepositAmount:       msg.DepositAmount,
		ExpectedAmount:      msg.ExpectedAmount,
		Vault:               in.vault,
		VaultBump:           uint32(in.bump),
		StorageDeposit:      deposit,
	}
	if err := h.bucket.Put(db, msg.EscrowID, escrow); err != nil {
		return nil, errors.Wrap(err, "cannot store escrow")
	}

	vaultswap.GetLogger(ctx).Info("escrow initialized",
		"id", vaultswap.Address(msg.EscrowID), "vault", in.vault, "deposit", msg.DepositAmount)
	return &vaultswap.DeliverResult{
		Data: msg.EscrowID,
		Tags: []common.KVPair{{Key: []byte(stateTag), Value: []byte("active")}},
	}, nil
}

type initialization struct {
	msg       *InitializeMsg
	vault     vaultswap.Address
	bump      uint8
	authority vaultswap.Condition
	mint      vaultswap.Address
}

// validate does all common pre-processing between Check and Deliver.
func (h InitializeHandler) validate(ctx vaultswap.Context, db vaultswap.KVStore, tx vaultswap.Tx) (*initialization, error) {
	var msg InitializeMsg
	if err := vaultswap.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Initializer) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "initializer signature missing")
	}

	conf, err := LoadConfiguration(db)
	if err != nil {
		return nil, err
	}
	vault, bump, err := VaultAddress(conf.ProgramID, msg.EscrowID)
	if err != nil {
		return nil, err
	}
	authority, err := VaultAuthority(conf.ProgramID)
	if err != nil {
		return nil, err
	}

	switch err := h.bucket.Has(db, msg.EscrowID); {
	case err == nil:
		return nil, errors.Wrapf(ErrAlreadyInitialized, "escrow %X", msg.EscrowID)
	case !errors.ErrNotFound.Is(err):
		return nil, err
	}
	switch _, err := h.tokens.LoadAccount(db, vault); {
	case err == nil:
		return nil, errors.Wrapf(ErrAlreadyInitialized, "vault %s", vault)
	case !errors.ErrNotFound.Is(err):
		return nil, err
	}

	src, err := h.ownedBy(db, msg.DepositSource, msg.Initializer, "deposit source")
	if err != nil {
		return nil, err
	}
	if _, err := h.ownedBy(db, msg.ProceedsDestination, msg.Initializer, "proceeds destination"); err != nil {
		return nil, err
	}
	if src.Amount < msg.DepositAmount {
		return nil, errors.Wrapf(errors.ErrInsufficientBalance,
			"deposit source holds %d, %d needed", src.Amount, msg.DepositAmount)
	}

	// The vault account and the escrow record each take a storage deposit.
	cashConf, err := cash.LoadConfiguration(db)
	if err != nil {
		return nil, err
	}
	funds, err := h.cash.Balance(db, msg.Initializer)
	if err != nil {
		return nil, err
	}
	if need := 2 * cashConf.StorageDeposit; funds < need {
		return nil, errors.Wrapf(errors.ErrInsufficientBalance,
			"initializer wallet holds %d, storage deposits need %d", funds, need)
	}

	in := &initialization{
		msg:       &msg,
		vault:     vault,
		bump:      bump,
		authority: authority,
		mint:      src.Mint,
	}
	return in, nil
}

// ExchangeHandler settles an escrow.
type ExchangeHandler struct {
	handler
}

var _ vaultswap.Handler = ExchangeHandler{}

// Check verifies the escrow can be settled and returns the cost of
// executing it.
func (h ExchangeHandler) Check(ctx vaultswap.Context, db vaultswap.KVStore, tx vaultswap.Tx) (*vaultswap.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &vaultswap.CheckResult{GasAllocated: exchangeCost}, nil
}

// Deliver pays the initializer, releases the vault to the taker and
// removes the escrow.
func (h ExchangeHandler) Deliver(ctx vaultswap.Context, db vaultswap.KVStore, tx vaultswap.Tx) (*vaultswap.DeliverResult, error) {
	msg, escrow, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	if err := h.tokens.Transfer(ctx, db, msg.TakerDeposit, escrow.ProceedsDestination, escrow.ExpectedAmount); err != nil {
		return nil, errors.Wrap(err, "pay initializer")
	}
	err = h.release(ctx, db, func(ctx vaultswap.Context) error {
		return h.tokens.Transfer(ctx, db, escrow.Vault, msg.TakerReceive, escrow.DepositAmount)
	})
	if err != nil {
		return nil, errors.Wrap(err, "release vault")
	}
	left, err := h.tokens.Balance(db, escrow.Vault)
	if err != nil {
		return nil, err
	}
	if left != 0 {
		return nil, errors.Wrapf(errors.ErrInvalidState, "vault holds %d after release", left)
	}
	if err := h.retire(ctx, db, msg.EscrowID, escrow); err != nil {
		return nil, err
	}

	vaultswap.GetLogger(ctx).Info("escrow settled",
		"id", vaultswap.Address(msg.EscrowID), "taker", msg.Taker)
	return &vaultswap.DeliverResult{
		Data: msg.EscrowID,
		Tags: []common.KVPair{{Key: []byte(stateTag), Value: []byte("settled")}},
	}, nil
}

// validate does all common pre-processing between Check and Deliver.
func (h ExchangeHandler) validate(ctx vaultswap.Context, db vaultswap.KVStore, tx vaultswap.Tx) (*ExchangeMsg, *Escrow, error) {
	var msg ExchangeMsg
	if err := vaultswap.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Taker) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "taker signature missing")
	}
	escrow, err := h.load(db, msg.EscrowID)
	if err != nil {
		return nil, nil, err
	}
	if !msg.Vault.Equals(escrow.Vault) {
		return nil, nil, errors.Wrapf(ErrVaultMismatch, "escrow vault is %s", escrow.Vault)
	}
	if err := h.checkVault(db, msg.EscrowID, escrow); err != nil {
		return nil, nil, err
	}

	pay, err := h.ownedBy(db, msg.TakerDeposit, msg.Taker, "taker deposit")
	if err != nil {
		return nil, nil, err
	}
	receive, err := h.ownedBy(db, msg.TakerReceive, msg.Taker, "taker receive")
	if err != nil {
		return nil, nil, err
	}
	proceeds, err := h.tokens.LoadAccount(db, escrow.ProceedsDestination)
	if err != nil {
		return nil, nil, errors.Wrap(err, "proceeds destination")
	}
	vault, err := h.tokens.LoadAccount(db, escrow.Vault)
	if err != nil {
		return nil, nil, errors.Wrap(err, "vault")
	}
	if !pay.Mint.Equals(proceeds.Mint) {
		return nil, nil, errors.Wrapf(errors.ErrInvalidInput, "taker deposit must hold %s", proceeds.Mint)
	}
	if !receive.Mint.Equals(vault.Mint) {
		return nil, nil, errors.Wrapf(errors.ErrInvalidInput, "taker receive must hold %s", vault.Mint)
	}
	if vault.Amount != escrow.DepositAmount {
		return nil, nil, errors.Wrapf(errors.ErrInvalidState, "vault holds %d, escrow %d", vault.Amount, escrow.DepositAmount)
	}
	if pay.Amount < escrow.ExpectedAmount {
		return nil, nil, errors.Wrapf(errors.ErrInsufficientBalance,
			"taker deposit holds %d, %d needed", pay.Amount, escrow.ExpectedAmount)
	}
	return &msg, escrow, nil
}

// CancelHandler returns the deposit to the initializer.
type CancelHandler struct {
	handler
}

var _ vaultswap.Handler = CancelHandler{}

// Check verifies the escrow can be cancelled and returns the cost of
// executing it.
func (h CancelHandler) Check(ctx vaultswap.Context, db vaultswap.KVStore, tx vaultswap.Tx) (*vaultswap.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &vaultswap.CheckResult{GasAllocated: cancelCost}, nil
}

// Deliver empties the vault into the deposit source and removes the
// escrow.
func (h CancelHandler) Deliver(ctx vaultswap.Context, db vaultswap.KVStore, tx vaultswap.Tx) (*vaultswap.DeliverResult, error) {
	msg, escrow, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	amount, err := h.tokens.Balance(db, escrow.Vault)
	if err != nil {
		return nil, errors.Wrap(err, "vault")
	}
	if amount > 0 {
		err := h.release(ctx, db, func(ctx vaultswap.Context) error {
			return h.tokens.Transfer(ctx, db, escrow.Vault, escrow.DepositSource, amount)
		})
		if err != nil {
			return nil, errors.Wrap(err, "return deposit")
		}
	}
	if err := h.retire(ctx, db, msg.EscrowID, escrow); err != nil {
		return nil, err
	}

	vaultswap.GetLogger(ctx).Info("escrow cancelled", "id", vaultswap.Address(msg.EscrowID))
	return &vaultswap.DeliverResult{
		Data: msg.EscrowID,
		Tags: []common.KVPair{{Key: []byte(stateTag), Value: []byte("cancelled")}},
	}, nil
}

// validate does all common pre-processing between Check and Deliver.
func (h CancelHandler) validate(ctx vaultswap.Context, db vaultswap.KVStore, tx vaultswap.Tx) (*CancelMsg, *Escrow, error) {
	var msg CancelMsg
	if err := vaultswap.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	escrow, err := h.load(db, msg.EscrowID)
	if err != nil {
		return nil, nil, err
	}
	if !msg.Initializer.Equals(escrow.Initializer) || !h.auth.HasAddress(ctx, escrow.Initializer) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "only the initializer can cancel")
	}
	if !msg.Vault.Equals(escrow.Vault) {
		return nil, nil, errors.Wrapf(ErrVaultMismatch, "escrow vault is %s", escrow.Vault)
	}
	if err := h.checkVault(db, msg.EscrowID, escrow); err != nil {
		return nil, nil, err
	}
	return &msg, escrow, nil
}

// checkVault ensures the stored vault is the one derived for the escrow.
func (h handler) checkVault(db vaultswap.ReadOnlyKVStore, id []byte, e *Escrow) error {
	conf, err := LoadConfiguration(db)
	if err != nil {
		return err
	}
	return verifyVault(conf.ProgramID, id, e)
}
