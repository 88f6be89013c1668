package token

import (
	"github.com/iov-one/vaultswap"
	"github.com/iov-one/vaultswap/errors"
	"github.com/iov-one/vaultswap/orm"
	"github.com/iov-one/vaultswap/x"
	"github.com/iov-one/vaultswap/x/cash"
)

const (
	createMintCost    = 100
	createAccountCost = 100
	transferCost      = 50
)

// RegisterRoutes will instantiate and register all handlers in this
// package.
func RegisterRoutes(r vaultswap.Registry, auth x.Authenticator, cashCtrl cash.Controller) {
	ctrl := NewController(auth, cashCtrl)
	r.Handle(&CreateMintMsg{}, &createMintHandler{auth: auth, cash: cashCtrl, bucket: NewMintBucket()})
	r.Handle(&CreateAccountMsg{}, &createAccountHandler{ctrl: ctrl})
	r.Handle(&MintToMsg{}, &mintToHandler{ctrl: ctrl})
	r.Handle(&TransferMsg{}, &transferHandler{ctrl: ctrl})
	r.Handle(&CloseAccountMsg{}, &closeAccountHandler{ctrl: ctrl})
}

type createMintHandler struct {
	auth   x.Authenticator
	cash   cash.Controller
	bucket orm.ModelBucket
}

func (h *createMintHandler) Check(ctx vaultswap.Context, db vaultswap.KVStore, tx vaultswap.Tx) (*vaultswap.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &vaultswap.CheckResult{GasAllocated: createMintCost}, nil
}

func (h *createMintHandler) Deliver(ctx vaultswap.Context, db vaultswap.KVStore, tx vaultswap.Tx) (*vaultswap.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if _, err := h.cash.Charge(db, msg.Authority); err != nil {
		return nil, err
	}
	mint := &Mint{
		Metadata:  &vaultswap.Metadata{Schema: 1},
		Authority: msg.Authority,
		Decimals:  msg.Decimals,
	}
	if err := h.bucket.Put(db, msg.Mint, mint); err != nil {
		return nil, errors.Wrap(err, "save mint")
	}
	return &vaultswap.DeliverResult{Data: msg.Mint}, nil
}

func (h *createMintHandler) validate(ctx vaultswap.Context, db vaultswap.KVStore, tx vaultswap.Tx) (*CreateMintMsg, error) {
	var msg CreateMintMsg
	if err := vaultswap.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Authority) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "mint authority signature missing")
	}
	switch err := h.bucket.Has(db, msg.Mint); {
	case err == nil:
		return nil, errors.Wrapf(errors.ErrDuplicate, "mint %s", msg.Mint)
	case !errors.ErrNotFound.Is(err):
		return nil, err
	}
	return &msg, nil
}

type createAccountHandler struct {
	ctrl BaseController
}

func (h *createAccountHandler) Check(ctx vaultswap.Context, db vaultswap.KVStore, tx vaultswap.Tx) (*vaultswap.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &vaultswap.CheckResult{GasAllocated: createAccountCost}, nil
}

func (h *createAccountHandler) Deliver(ctx vaultswap.Context, db vaultswap.KVStore, tx vaultswap.Tx) (*vaultswap.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if _, err := h.ctrl.CreateAccount(ctx, db, msg.Payer, msg.Account, msg.Mint, msg.Owner); err != nil {
		return nil, err
	}
	return &vaultswap.DeliverResult{Data: msg.Account}, nil
}

func (h *createAccountHandler) validate(ctx vaultswap.Context, db vaultswap.KVStore, tx vaultswap.Tx) (*CreateAccountMsg, error) {
	var msg CreateAccountMsg
	if err := vaultswap.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if err := h.ctrl.checkCreateAccount(ctx, db, msg.Payer, msg.Account, msg.Mint); err != nil {
		return nil, err
	}
	return &msg, nil
}

type mintToHandler struct {
	ctrl BaseController
}

func (h *mintToHandler) Check(ctx vaultswap.Context, db vaultswap.KVStore, tx vaultswap.Tx) (*vaultswap.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &vaultswap.CheckResult{GasAllocated: transferCost}, nil
}

func (h *mintToHandler) Deliver(ctx vaultswap.Context, db vaultswap.KVStore, tx vaultswap.Tx) (*vaultswap.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.ctrl.MintTo(ctx, db, msg.Account, msg.Amount); err != nil {
		return nil, err
	}
	return &vaultswap.DeliverResult{}, nil
}

func (h *mintToHandler) validate(ctx vaultswap.Context, db vaultswap.KVStore, tx vaultswap.Tx) (*MintToMsg, error) {
	var msg MintToMsg
	if err := vaultswap.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if _, _, err := h.ctrl.checkMintTo(ctx, db, msg.Account, msg.Amount); err != nil {
		return nil, err
	}
	return &msg, nil
}

type transferHandler struct {
	ctrl BaseController
}

func (h *transferHandler) Check(ctx vaultswap.Context, db vaultswap.KVStore, tx vaultswap.Tx) (*vaultswap.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &vaultswap.CheckResult{GasAllocated: transferCost}, nil
}

func (h *transferHandler) Deliver(ctx vaultswap.Context, db vaultswap.KVStore, tx vaultswap.Tx) (*vaultswap.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.ctrl.Transfer(ctx, db, msg.Source, msg.Destination, msg.Amount); err != nil {
		return nil, err
	}
	return &vaultswap.DeliverResult{}, nil
}

func (h *transferHandler) validate(ctx vaultswap.Context, db vaultswap.KVStore, tx vaultswap.Tx) (*TransferMsg, error) {
	var msg TransferMsg
	if err := vaultswap.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if _, _, err := h.ctrl.checkTransfer(ctx, db, msg.Source, msg.Destination, msg.Amount); err != nil {
		return nil, err
	}
	return &msg, nil
}

type closeAccountHandler struct {
	ctrl BaseController
}

func (h *closeAccountHandler) Check(ctx vaultswap.Context, db vaultswap.KVStore, tx vaultswap.Tx) (*vaultswap.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &vaultswap.CheckResult{}, nil
}

func (h *closeAccountHandler) Deliver(ctx vaultswap.Context, db vaultswap.KVStore, tx vaultswap.Tx) (*vaultswap.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.ctrl.CloseAccount(ctx, db, msg.Account, msg.Refund); err != nil {
		return nil, err
	}
	return &vaultswap.DeliverResult{}, nil
}

func (h *closeAccountHandler) validate(ctx vaultswap.Context, db vaultswap.KVStore, tx vaultswap.Tx) (*CloseAccountMsg, error) {
	var msg CloseAccountMsg
	if err := vaultswap.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if _, err := h.ctrl.checkCloseAccount(ctx, db, msg.Account); err != nil {
		return nil, err
	}
	return &msg, nil
}
