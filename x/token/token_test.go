package token

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/iov-one/vaultswap"
	"github.com/iov-one/vaultswap/errors"
	"github.com/iov-one/vaultswap/gconf"
	"github.com/iov-one/vaultswap/store"
	"github.com/iov-one/vaultswap/weavetest"
	"github.com/iov-one/vaultswap/weavetest/assert"
	"github.com/iov-one/vaultswap/x/cash"
)

const storageDeposit = 3

type fixture struct {
	db        vaultswap.CacheableKVStore
	cash      cash.BaseController
	alice     vaultswap.Condition
	bob       vaultswap.Condition
	authority vaultswap.Condition
	mintX     vaultswap.Address
	mintY     vaultswap.Address
}

func newFixture(t testing.TB) *fixture {
	t.Helper()
	f := &fixture{
		db:        store.MemStore(),
		cash:      cash.NewController(),
		alice:     weavetest.NewCondition(),
		bob:       weavetest.NewCondition(),
		authority: weavetest.NewCondition(),
		mintX:     weavetest.NewCondition().Address(),
		mintY:     weavetest.NewCondition().Address(),
	}
	conf := &cash.Configuration{Metadata: &vaultswap.Metadata{Schema: 1}, StorageDeposit: storageDeposit}
	assert.Nil(t, gconf.Save(f.db, "cash", conf))
	assert.Nil(t, f.cash.IssueCoins(f.db, f.alice.Address(), 100))
	assert.Nil(t, f.cash.IssueCoins(f.db, f.bob.Address(), 100))

	mints := NewMintBucket()
	for _, m := range []vaultswap.Address{f.mintX, f.mintY} {
		mint := &Mint{Metadata: &vaultswap.Metadata{Schema: 1}, Authority: f.authority.Address()}
		assert.Nil(t, mints.Put(f.db, m, mint))
	}
	return f
}

// controller returns a ledger where given conditions are authenticated.
func (f *fixture) controller(signers ...vaultswap.Condition) BaseController {
	return NewController(&weavetest.Auth{Signers: signers}, f.cash)
}

// account creates an account owned by owner holding amount.
func (f *fixture) account(t testing.TB, owner vaultswap.Condition, mint vaultswap.Address, amount uint64) vaultswap.Address {
	t.Helper()
	addr := weavetest.NewCondition().Address()
	ctrl := f.controller(owner, f.authority)
	_, err := ctrl.CreateAccount(context.Background(), f.db, owner.Address(), addr, mint, owner.Address())
	assert.Nil(t, err)
	if amount > 0 {
		assert.Nil(t, ctrl.MintTo(context.Background(), f.db, addr, amount))
	}
	return addr
}

func TestTransfer(t *testing.T) {
	cases := map[string]struct {
		signer   func(*fixture) vaultswap.Condition
		dstMint  func(*fixture) vaultswap.Address
		amount   uint64
		wantErr  *errors.Error
		wantSrc  uint64
		wantDest uint64
	}{
		"owner moves funds": {
			signer:   func(f *fixture) vaultswap.Condition { return f.alice },
			dstMint:  func(f *fixture) vaultswap.Address { return f.mintX },
			amount:   40,
			wantSrc:  60,
			wantDest: 40,
		},
		"not the owner": {
			signer:   func(f *fixture) vaultswap.Condition { return f.bob },
			dstMint:  func(f *fixture) vaultswap.Address { return f.mintX },
			amount:   40,
			wantErr:  errors.ErrUnauthorized,
			wantSrc:  100,
			wantDest: 0,
		},
		"mint mismatch": {
			signer:   func(f *fixture) vaultswap.Condition { return f.alice },
			dstMint:  func(f *fixture) vaultswap.Address { return f.mintY },
			amount:   40,
			wantErr:  errors.ErrInvalidInput,
			wantSrc:  100,
			wantDest: 0,
		},
		"insufficient balance": {
			signer:   func(f *fixture) vaultswap.Condition { return f.alice },
			dstMint:  func(f *fixture) vaultswap.Address { return f.mintX },
			amount:   101,
			wantErr:  errors.ErrInsufficientBalance,
			wantSrc:  100,
			wantDest: 0,
		},
		"zero amount": {
			signer:   func(f *fixture) vaultswap.Condition { return f.alice },
			dstMint:  func(f *fixture) vaultswap.Address { return f.mintX },
			amount:   0,
			wantErr:  errors.ErrInvalidAmount,
			wantSrc:  100,
			wantDest: 0,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			f := newFixture(t)
			src := f.account(t, f.alice, f.mintX, 100)
			dst := f.account(t, f.bob, tc.dstMint(f), 0)

			ctrl := f.controller(tc.signer(f))
			err := ctrl.Transfer(context.Background(), f.db, src, dst, tc.amount)
			assert.IsErr(t, tc.wantErr, err)

			got, err := ctrl.Balance(f.db, src)
			assert.Nil(t, err)
			assert.Equal(t, tc.wantSrc, got)
			got, err = ctrl.Balance(f.db, dst)
			assert.Nil(t, err)
			assert.Equal(t, tc.wantDest, got)
		})
	}
}

func TestTransferMissingAccount(t *testing.T) {
	f := newFixture(t)
	src := f.account(t, f.alice, f.mintX, 10)
	ctrl := f.controller(f.alice)
	err := ctrl.Transfer(context.Background(), f.db, src, weavetest.NewCondition().Address(), 5)
	assert.IsErr(t, errors.ErrNotFound, err)
}

func TestCreateAccount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	addr := weavetest.NewCondition().Address()

	// payer must sign
	_, err := f.controller(f.bob).CreateAccount(ctx, f.db, f.alice.Address(), addr, f.mintX, f.alice.Address())
	assert.IsErr(t, errors.ErrUnauthorized, err)

	// mint must exist
	_, err = f.controller(f.alice).CreateAccount(ctx, f.db, f.alice.Address(), addr, weavetest.NewCondition().Address(), f.alice.Address())
	assert.IsErr(t, errors.ErrNotFound, err)

	acc, err := f.controller(f.alice).CreateAccount(ctx, f.db, f.alice.Address(), addr, f.mintX, f.bob.Address())
	assert.Nil(t, err)
	assert.Equal(t, uint64(storageDeposit), acc.Deposit)
	wallet, err := f.cash.Balance(f.db, f.alice.Address())
	assert.Nil(t, err)
	assert.Equal(t, uint64(100-storageDeposit), wallet)

	// slot is taken
	_, err = f.controller(f.alice).CreateAccount(ctx, f.db, f.alice.Address(), addr, f.mintX, f.alice.Address())
	assert.IsErr(t, errors.ErrDuplicate, err)

	owned, err := AccountsByOwner(f.db, f.bob.Address())
	assert.Nil(t, err)
	assert.Equal(t, []vaultswap.Address{addr}, owned)
}

func TestSetOwnerAndClose(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	addr := f.account(t, f.alice, f.mintX, 10)

	assert.IsErr(t, errors.ErrUnauthorized, f.controller(f.bob).SetOwner(ctx, f.db, addr, f.bob.Address()))
	assert.Nil(t, f.controller(f.alice).SetOwner(ctx, f.db, addr, f.bob.Address()))

	// alice lost control
	assert.IsErr(t, errors.ErrUnauthorized, f.controller(f.alice).CloseAccount(ctx, f.db, addr, f.alice.Address()))

	// funds must be moved out first
	assert.IsErr(t, errors.ErrInvalidState, f.controller(f.bob).CloseAccount(ctx, f.db, addr, f.alice.Address()))

	sink := f.account(t, f.bob, f.mintX, 0)
	assert.Nil(t, f.controller(f.bob).Transfer(ctx, f.db, addr, sink, 10))
	assert.Nil(t, f.controller(f.bob).CloseAccount(ctx, f.db, addr, f.alice.Address()))

	_, err := f.controller().LoadAccount(f.db, addr)
	assert.IsErr(t, errors.ErrNotFound, err)

	// deposit went back to alice
	wallet, err := f.cash.Balance(f.db, f.alice.Address())
	assert.Nil(t, err)
	assert.Equal(t, uint64(100), wallet)
}

func TestMintTo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	addr := f.account(t, f.alice, f.mintX, 0)

	assert.IsErr(t, errors.ErrUnauthorized, f.controller(f.alice).MintTo(ctx, f.db, addr, 5))
	assert.Nil(t, f.controller(f.authority).MintTo(ctx, f.db, addr, 5))

	mint, err := f.controller().LoadMint(f.db, f.mintX)
	assert.Nil(t, err)
	assert.Equal(t, uint64(5), mint.Supply)
}

func TestHandlers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	meta := &vaultswap.Metadata{Schema: 1}
	mint := weavetest.NewCondition().Address()
	src := weavetest.NewCondition().Address()
	dst := weavetest.NewCondition().Address()

	rt := &router{handlers: make(map[string]vaultswap.Handler)}
	RegisterRoutes(rt, &weavetest.Auth{Signers: []vaultswap.Condition{f.alice, f.bob}}, f.cash)

	msgs := []vaultswap.Msg{
		&CreateMintMsg{Metadata: meta, Mint: mint, Authority: f.alice.Address(), Decimals: 6},
		&CreateAccountMsg{Metadata: meta, Account: src, Mint: mint, Owner: f.alice.Address(), Payer: f.alice.Address()},
		&CreateAccountMsg{Metadata: meta, Account: dst, Mint: mint, Owner: f.bob.Address(), Payer: f.bob.Address()},
		&MintToMsg{Metadata: meta, Account: src, Amount: 50},
		&TransferMsg{Metadata: meta, Source: src, Destination: dst, Amount: 50},
		&CloseAccountMsg{Metadata: meta, Account: src, Refund: f.alice.Address()},
	}
	for i, msg := range msgs {
		h := rt.handlers[msg.Path()]
		tx := &weavetest.Tx{Msg: msg}
		if _, err := h.Check(ctx, f.db, tx); err != nil {
			t.Fatalf("message %d check: %+v", i, err)
		}
		if _, err := h.Deliver(ctx, f.db, tx); err != nil {
			t.Fatalf("message %d deliver: %+v", i, err)
		}
	}

	got, err := f.controller().Balance(f.db, dst)
	assert.Nil(t, err)
	assert.Equal(t, uint64(50), got)

	// a mint address can be registered only once
	h := rt.handlers["token/create_mint"]
	_, err = h.Check(ctx, f.db, &weavetest.Tx{Msg: msgs[0]})
	assert.IsErr(t, errors.ErrDuplicate, err)
}

func TestHandlerCheckMatchesDeliver(t *testing.T) {
	f := newFixture(t)
	meta := &vaultswap.Metadata{Schema: 1}
	aliceX := f.account(t, f.alice, f.mintX, 50)
	bobX := f.account(t, f.bob, f.mintX, 0)
	bobY := f.account(t, f.bob, f.mintY, 0)
	poor := weavetest.NewCondition()

	cases := map[string]struct {
		msg     vaultswap.Msg
		signers []vaultswap.Condition
		wantErr *errors.Error
	}{
		"transfer signed by a stranger": {
			msg:     &TransferMsg{Metadata: meta, Source: aliceX, Destination: bobX, Amount: 10},
			signers: []vaultswap.Condition{f.bob},
			wantErr: errors.ErrUnauthorized,
		},
		"transfer above balance": {
			msg:     &TransferMsg{Metadata: meta, Source: aliceX, Destination: bobX, Amount: 51},
			signers: []vaultswap.Condition{f.alice},
			wantErr: errors.ErrInsufficientBalance,
		},
		"transfer across mints": {
			msg:     &TransferMsg{Metadata: meta, Source: aliceX, Destination: bobY, Amount: 10},
			signers: []vaultswap.Condition{f.alice},
			wantErr: errors.ErrInvalidInput,
		},
		"transfer to a missing account": {
			msg:     &TransferMsg{Metadata: meta, Source: aliceX, Destination: weavetest.NewCondition().Address(), Amount: 10},
			signers: []vaultswap.Condition{f.alice},
			wantErr: errors.ErrNotFound,
		},
		"mint without authority": {
			msg:     &MintToMsg{Metadata: meta, Account: bobX, Amount: 10},
			signers: []vaultswap.Condition{f.bob},
			wantErr: errors.ErrUnauthorized,
		},
		"close a funded account": {
			msg:     &CloseAccountMsg{Metadata: meta, Account: aliceX, Refund: f.alice.Address()},
			signers: []vaultswap.Condition{f.alice},
			wantErr: errors.ErrInvalidState,
		},
		"close another owner's account": {
			msg:     &CloseAccountMsg{Metadata: meta, Account: bobX, Refund: f.alice.Address()},
			signers: []vaultswap.Condition{f.alice},
			wantErr: errors.ErrUnauthorized,
		},
		"create account without deposit funds": {
			msg:     &CreateAccountMsg{Metadata: meta, Account: weavetest.NewCondition().Address(), Mint: f.mintX, Owner: poor.Address(), Payer: poor.Address()},
			signers: []vaultswap.Condition{poor},
			wantErr: errors.ErrInsufficientBalance,
		},
		"create account for an unknown mint": {
			msg:     &CreateAccountMsg{Metadata: meta, Account: weavetest.NewCondition().Address(), Mint: weavetest.NewCondition().Address(), Owner: f.alice.Address(), Payer: f.alice.Address()},
			signers: []vaultswap.Condition{f.alice},
			wantErr: errors.ErrNotFound,
		},
		"create account paid by a stranger": {
			msg:     &CreateAccountMsg{Metadata: meta, Account: weavetest.NewCondition().Address(), Mint: f.mintX, Owner: f.alice.Address(), Payer: f.bob.Address()},
			signers: []vaultswap.Condition{f.alice},
			wantErr: errors.ErrUnauthorized,
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			rt := &router{handlers: make(map[string]vaultswap.Handler)}
			RegisterRoutes(rt, &weavetest.Auth{Signers: tc.signers}, f.cash)
			h := rt.handlers[tc.msg.Path()]
			tx := &weavetest.Tx{Msg: tc.msg}

			cache := f.db.CacheWrap()
			_, err := h.Check(context.Background(), cache, tx)
			assert.IsErr(t, tc.wantErr, err)
			_, err = h.Deliver(context.Background(), cache, tx)
			assert.IsErr(t, tc.wantErr, err)
			cache.Discard()
		})
	}

	got, err := f.controller().Balance(f.db, aliceX)
	assert.Nil(t, err)
	assert.Equal(t, uint64(50), got)
}

func TestGenesis(t *testing.T) {
	owner := weavetest.NewCondition().Address()
	mint := weavetest.NewCondition().Address()
	acc := weavetest.NewCondition().Address()
	genesis := `{"token": {
		"mints": [{"address": "` + mint.String() + `", "authority": "` + owner.String() + `", "decimals": 2}],
		"accounts": [{"address": "` + acc.String() + `", "mint": "` + mint.String() + `", "owner": "` + owner.String() + `", "amount": 500}]
	}}`
	var opts vaultswap.Options
	if err := json.Unmarshal([]byte(genesis), &opts); err != nil {
		t.Fatalf("cannot parse genesis: %s", err)
	}

	db := store.MemStore()
	assert.Nil(t, Initializer{}.FromGenesis(opts, db))

	ctrl := NewController(&weavetest.Auth{}, cash.NewController())
	got, err := ctrl.Balance(db, acc)
	assert.Nil(t, err)
	assert.Equal(t, uint64(500), got)
	m, err := ctrl.LoadMint(db, mint)
	assert.Nil(t, err)
	assert.Equal(t, uint64(500), m.Supply)
}

// router collects registered handlers by message path.
type router struct {
	handlers map[string]vaultswap.Handler
}

func (r *router) Handle(m vaultswap.Msg, h vaultswap.Handler) {
	r.handlers[m.Path()] = h
}
