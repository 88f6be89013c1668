package app

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"

	"github.com/iov-one/vaultswap"
	"github.com/iov-one/vaultswap/crypto"
	"github.com/iov-one/vaultswap/errors"
	"github.com/iov-one/vaultswap/weavetest"
	"github.com/iov-one/vaultswap/x/cash"
	"github.com/iov-one/vaultswap/x/escrow"
	"github.com/iov-one/vaultswap/x/token"
)

const testChainID = "test-chain"

type ledger struct {
	t      *testing.T
	app    *Application
	nonces map[string]int64

	alice, bob   *crypto.PrivateKey
	mintX, mintY vaultswap.Address
	aliceX       vaultswap.Address
	aliceY       vaultswap.Address
	bobX, bobY   vaultswap.Address
}

func newLedger(t *testing.T) *ledger {
	l := &ledger{
		t:      t,
		nonces: make(map[string]int64),
		alice:  weavetest.NewKey(),
		bob:    weavetest.NewKey(),
		mintX:  weavetest.NewCondition().Address(),
		mintY:  weavetest.NewCondition().Address(),
		aliceX: weavetest.NewCondition().Address(),
		aliceY: weavetest.NewCondition().Address(),
		bobX:   weavetest.NewCondition().Address(),
		bobY:   weavetest.NewCondition().Address(),
	}
	alice, bob := l.alice.PublicKey().Address(), l.bob.PublicKey().Address()
	meta := &vaultswap.Metadata{Schema: 1}
	state := map[string]interface{}{
		"conf": map[string]interface{}{
			"cash":   cash.Configuration{Metadata: meta, StorageDeposit: 10},
			"escrow": escrow.Configuration{Metadata: meta, ProgramID: []byte("escrow-program")},
		},
		"cash": []cash.GenesisAccount{
			{Address: alice, Amount: 100},
			{Address: bob, Amount: 100},
		},
		"token": map[string]interface{}{
			"mints": []token.GenesisMint{
				{Address: l.mintX, Authority: alice},
				{Address: l.mintY, Authority: bob},
			},
			"accounts": []token.GenesisAccount{
				{Address: l.aliceX, Mint: l.mintX, Owner: alice, Amount: 500},
				{Address: l.aliceY, Mint: l.mintY, Owner: alice},
				{Address: l.bobX, Mint: l.mintX, Owner: bob},
				{Address: l.bobY, Mint: l.mintY, Owner: bob, Amount: 1000},
			},
		},
	}
	raw, err := json.Marshal(state)
	require.NoError(t, err)

	l.app, err = New("vaultswap", log.NewNopLogger(), false)
	require.NoError(t, err)
	l.app.InitChain(abci.RequestInitChain{ChainId: testChainID, AppStateBytes: raw})
	return l
}

// run processes msg signed by keys in a block of its own.
func (l *ledger) run(msg vaultswap.Msg, keys ...*crypto.PrivateKey) abci.ResponseDeliverTx {
	l.t.Helper()
	tx := NewTx(msg)
	for _, k := range keys {
		id := k.PublicKey().Address().String()
		require.NoError(l.t, tx.Sign(k, testChainID, l.nonces[id]))
		l.nonces[id]++
	}
	raw, err := tx.Marshal()
	require.NoError(l.t, err)
	return l.runRaw(raw)
}

func (l *ledger) runRaw(raw []byte) abci.ResponseDeliverTx {
	l.t.Helper()
	l.app.NextBlock(time.Now())
	check := l.app.CheckTx(raw)
	res := l.app.DeliverTx(raw)
	require.Equal(l.t, check.Code, res.Code, "check: %s, deliver: %s", check.Log, res.Log)
	l.app.Commit()
	return res
}

func (l *ledger) balance(addr vaultswap.Address) uint64 {
	l.t.Helper()
	var amount uint64
	err := l.app.View(func(db vaultswap.ReadOnlyKVStore) error {
		var err error
		amount, err = token.NewController(&weavetest.Auth{}, cash.NewController()).Balance(db, addr)
		return err
	})
	require.NoError(l.t, err)
	return amount
}

func (l *ledger) vault(id []byte) vaultswap.Address {
	v, _, err := escrow.VaultAddress([]byte("escrow-program"), id)
	require.NoError(l.t, err)
	return v
}

func tag(res abci.ResponseDeliverTx, key string) string {
	for _, t := range res.Tags {
		if string(t.Key) == key {
			return string(t.Value)
		}
	}
	return ""
}

func TestSwapThroughApplication(t *testing.T) {
	l := newLedger(t)
	id := []byte("order-42")
	meta := &vaultswap.Metadata{Schema: 1}

	res := l.run(&escrow.InitializeMsg{
		Metadata:            meta,
		EscrowID:            id,
		Initializer:         l.alice.PublicKey().Address(),
		DepositSource:       l.aliceX,
		ProceedsDestination: l.aliceY,
		DepositAmount:       500,
		ExpectedAmount:      1000,
	}, l.alice)
	require.Equal(t, errors.SuccessABCICode, int(res.Code), res.Log)
	assert.Equal(t, "active", tag(res, "escrow.state"))
	assert.Equal(t, "escrow/initialize", tag(res, "action"))
	assert.Equal(t, uint64(500), l.balance(l.vault(id)))

	exchange := &escrow.ExchangeMsg{
		Metadata:     meta,
		EscrowID:     id,
		Taker:        l.bob.PublicKey().Address(),
		TakerDeposit: l.bobY,
		TakerReceive: l.bobX,
		Vault:        l.aliceX,
	}
	res = l.run(exchange, l.bob)
	assert.Equal(t, escrow.ErrVaultMismatch.ABCICode(), res.Code, res.Log)
	assert.Equal(t, uint64(1000), l.balance(l.bobY))

	exchange.Vault = l.vault(id)
	res = l.run(exchange, l.bob)
	require.Equal(t, errors.SuccessABCICode, int(res.Code), res.Log)
	assert.Equal(t, "settled", tag(res, "escrow.state"))

	assert.Equal(t, uint64(0), l.balance(l.aliceX))
	assert.Equal(t, uint64(1000), l.balance(l.aliceY))
	assert.Equal(t, uint64(500), l.balance(l.bobX))
	assert.Equal(t, uint64(0), l.balance(l.bobY))

	res = l.run(exchange, l.bob)
	assert.Equal(t, escrow.ErrRecordNotFound.ABCICode(), res.Code, res.Log)
}

func TestUnsignedAndReplayedTx(t *testing.T) {
	l := newLedger(t)
	send := &token.TransferMsg{
		Metadata:    &vaultswap.Metadata{Schema: 1},
		Source:      l.aliceX,
		Destination: l.bobX,
		Amount:      10,
	}

	raw, err := NewTx(send).Marshal()
	require.NoError(t, err)
	res := l.runRaw(raw)
	assert.Equal(t, errors.ErrUnauthorized.ABCICode(), res.Code)

	// signed by somebody that is not the owner
	res = l.run(send, l.bob)
	assert.Equal(t, errors.ErrUnauthorized.ABCICode(), res.Code)
	assert.Equal(t, uint64(500), l.balance(l.aliceX))

	tx := NewTx(send)
	require.NoError(t, tx.Sign(l.alice, testChainID, 0))
	raw, err = tx.Marshal()
	require.NoError(t, err)
	res = l.runRaw(raw)
	require.Equal(t, errors.SuccessABCICode, int(res.Code), res.Log)
	assert.Equal(t, uint64(10), l.balance(l.bobX))

	res = l.runRaw(raw)
	assert.NotEqual(t, uint32(errors.SuccessABCICode), res.Code)
	assert.Equal(t, uint64(10), l.balance(l.bobX))
}

func TestInfoAndQuery(t *testing.T) {
	l := newLedger(t)
	assert.Equal(t, testChainID, l.app.ChainID())

	res := l.app.Query(abci.RequestQuery{Path: "/key", Data: []byte(chainIDKey)})
	assert.Equal(t, uint32(0), res.Code)
	assert.Equal(t, testChainID, string(res.Value))

	res = l.app.Query(abci.RequestQuery{Path: "/unknown"})
	assert.Equal(t, errors.ErrNotFound.ABCICode(), res.Code)

	first := l.app.Commit()
	before := l.app.Info(abci.RequestInfo{})
	second := l.app.Commit()
	after := l.app.Info(abci.RequestInfo{})
	assert.Equal(t, before.LastBlockHeight+1, after.LastBlockHeight)
	assert.Equal(t, second.Data, after.LastBlockAppHash)
	// nothing changed
	assert.Equal(t, first.Data, second.Data)

	err := l.app.InitGenesis(testChainID, vaultswap.Options{})
	assert.True(t, errors.ErrInvalidState.Is(err))
}

func TestTxRoundTrip(t *testing.T) {
	key := weavetest.NewKey()
	tx := NewTx(&cash.SendMsg{
		Metadata:    &vaultswap.Metadata{Schema: 1},
		Source:      key.PublicKey().Address(),
		Destination: weavetest.NewCondition().Address(),
		Amount:      5,
	})
	require.NoError(t, tx.Sign(key, testChainID, 3))

	raw, err := tx.Marshal()
	require.NoError(t, err)
	decoded, err := DecodeTx(raw)
	require.NoError(t, err)
	again, err := decoded.Marshal()
	require.NoError(t, err)
	assert.Equal(t, raw, again)
	require.Len(t, decoded.(*Tx).GetSignatures(), 1)

	// signatures are not part of the signed bytes
	signBytes, err := tx.GetSignBytes()
	require.NoError(t, err)
	unsigned, err := NewTx(tx.Msg).Marshal()
	require.NoError(t, err)
	assert.Equal(t, unsigned, signBytes)

	_, err = DecodeTx([]byte("garbage"))
	assert.Error(t, err)
}
