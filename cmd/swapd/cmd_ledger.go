package main

import (
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/iov-one/vaultswap"
	"github.com/iov-one/vaultswap/app"
	"github.com/iov-one/vaultswap/crypto"
	"github.com/iov-one/vaultswap/errors"
	"github.com/iov-one/vaultswap/x/cash"
	"github.com/iov-one/vaultswap/x/escrow"
	"github.com/iov-one/vaultswap/x/token"
	"github.com/tendermint/tendermint/libs/log"
)

func newLogger(output io.Writer, level string) (log.Logger, error) {
	opt, err := log.AllowLevel(level)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	logger := log.NewTMLogger(log.NewSyncWriter(output)).With("module", "swapd")
	return log.NewFilter(logger, opt), nil
}

func cmdVersion(input io.Reader, output io.Writer, args []string) error {
	fmt.Fprintln(output, vaultswap.Version())
	return nil
}

func cmdGenesis(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Load a genesis file into an in-memory ledger and print the resulting state
hash. Use it to validate a genesis file before distributing it.
`)
		fl.PrintDefaults()
	}
	var (
		pathFl  = fl.String("genesis", "genesis.json", "Path to the genesis file.")
		levelFl = fl.String("log-level", "error", "Log level (debug, info, error or none).")
	)
	fl.Parse(args)

	gen, err := app.LoadGenesis(*pathFl)
	if err != nil {
		return err
	}
	logger, err := newLogger(os.Stderr, *levelFl)
	if err != nil {
		return err
	}
	a, err := app.New("swapd", logger, false)
	if err != nil {
		return err
	}
	if err := a.InitGenesis(gen.ChainID, gen.AppState); err != nil {
		return err
	}
	res := a.Commit()
	fmt.Fprintf(output, "chain %s: %X\n", gen.ChainID, res.Data)
	return nil
}

func cmdVault(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print the vault address and bump of an escrow together with the escrow
authority address of the program.
`)
		fl.PrintDefaults()
	}
	var (
		programFl = fl.String("program", "", "Program id of the escrow extension.")
		escrowFl  = fl.String("escrow", "", "Hex encoded escrow id.")
	)
	fl.Parse(args)

	id, err := hex.DecodeString(*escrowFl)
	if err != nil {
		return errors.Wrap(errors.ErrInvalidInput, "escrow id must be hex encoded")
	}
	vault, bump, err := escrow.VaultAddress([]byte(*programFl), id)
	if err != nil {
		return err
	}
	authority, err := escrow.VaultAuthority([]byte(*programFl))
	if err != nil {
		return err
	}
	fmt.Fprintf(output, "vault\t%s\nbump\t%d\nauthority\t%s\n", vault, bump, authority.Address())
	return nil
}

func cmdDemo(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Run a two party swap on an in-memory ledger. Alice deposits asset X into an
escrow vault expecting asset Y in return, Bob takes the offer.
`)
		fl.PrintDefaults()
	}
	var (
		chainFl   = fl.String("chain-id", "swapd-demo", "Chain id of the in-memory ledger.")
		depositFl = fl.Uint64("deposit", 500, "Amount of asset X deposited by Alice.")
		expectFl  = fl.Uint64("expect", 1000, "Amount of asset Y expected by Alice.")
		levelFl   = fl.String("log-level", "info", "Log level (debug, info, error or none).")
	)
	fl.Parse(args)

	logger, err := newLogger(output, *levelFl)
	if err != nil {
		return err
	}
	d, err := newDemo(*chainFl, logger, *depositFl, *expectFl)
	if err != nil {
		return err
	}
	if err := d.swap(*depositFl, *expectFl); err != nil {
		return err
	}
	return d.report(output)
}

// demo is an in-memory ledger with two funded participants.
type demo struct {
	app     *app.Application
	chainID string
	nonces  map[string]int64

	alice, bob     *crypto.PrivateKey
	aliceX, aliceY vaultswap.Address
	bobX, bobY     vaultswap.Address
	program        []byte
}

func newDemo(chainID string, logger log.Logger, deposit, expect uint64) (*demo, error) {
	d := &demo{
		chainID: chainID,
		nonces:  make(map[string]int64),
		alice:   crypto.PrivKeyEd25519FromSeed(seed("alice")),
		bob:     crypto.PrivKeyEd25519FromSeed(seed("bob")),
		program: []byte("swapd-escrow"),
	}
	mintX := crypto.PrivKeyEd25519FromSeed(seed("mint-x")).PublicKey().Address()
	mintY := crypto.PrivKeyEd25519FromSeed(seed("mint-y")).PublicKey().Address()
	d.aliceX = crypto.PrivKeyEd25519FromSeed(seed("alice-x")).PublicKey().Address()
	d.aliceY = crypto.PrivKeyEd25519FromSeed(seed("alice-y")).PublicKey().Address()
	d.bobX = crypto.PrivKeyEd25519FromSeed(seed("bob-x")).PublicKey().Address()
	d.bobY = crypto.PrivKeyEd25519FromSeed(seed("bob-y")).PublicKey().Address()

	alice, bob := d.alice.PublicKey().Address(), d.bob.PublicKey().Address()
	meta := &vaultswap.Metadata{Schema: 1}
	state := map[string]interface{}{
		"conf": map[string]interface{}{
			"cash":   cash.Configuration{Metadata: meta, StorageDeposit: 1},
			"escrow": escrow.Configuration{Metadata: meta, ProgramID: d.program},
		},
		"cash": []cash.GenesisAccount{
			{Address: alice, Amount: 10},
			{Address: bob, Amount: 10},
		},
		"token": map[string]interface{}{
			"mints": []token.GenesisMint{
				{Address: mintX, Authority: alice},
				{Address: mintY, Authority: bob},
			},
			"accounts": []token.GenesisAccount{
				{Address: d.aliceX, Mint: mintX, Owner: alice, Amount: deposit},
				{Address: d.aliceY, Mint: mintY, Owner: alice},
				{Address: d.bobX, Mint: mintX, Owner: bob},
				{Address: d.bobY, Mint: mintY, Owner: bob, Amount: expect},
			},
		},
	}
	raw, err := json.Marshal(state)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	var opts vaultswap.Options
	if err := json.Unmarshal(raw, &opts); err != nil {
		return nil, errors.Wrap(errors.ErrInvalidInput, err.Error())
	}

	d.app, err = app.New("swapd", logger, false)
	if err != nil {
		return nil, err
	}
	if err := d.app.InitGenesis(chainID, opts); err != nil {
		return nil, err
	}
	return d, nil
}

func seed(name string) []byte {
	s := make([]byte, 32)
	copy(s, name)
	return s
}

func (d *demo) swap(deposit, expect uint64) error {
	meta := &vaultswap.Metadata{Schema: 1}
	id := []byte("swapd-demo-1")
	if err := d.submit(&escrow.InitializeMsg{
		Metadata:            meta,
		EscrowID:            id,
		Initializer:         d.alice.PublicKey().Address(),
		DepositSource:       d.aliceX,
		ProceedsDestination: d.aliceY,
		DepositAmount:       deposit,
		ExpectedAmount:      expect,
	}, d.alice); err != nil {
		return errors.Wrap(err, "initialize")
	}
	vault, _, err := escrow.VaultAddress(d.program, id)
	if err != nil {
		return err
	}
	err = d.submit(&escrow.ExchangeMsg{
		Metadata:     meta,
		EscrowID:     id,
		Taker:        d.bob.PublicKey().Address(),
		TakerDeposit: d.bobY,
		TakerReceive: d.bobX,
		Vault:        vault,
	}, d.bob)
	return errors.Wrap(err, "exchange")
}

// submit runs msg signed by key through a block of its own.
func (d *demo) submit(msg vaultswap.Msg, key *crypto.PrivateKey) error {
	tx := app.NewTx(msg)
	signer := key.PublicKey().Address().String()
	if err := tx.Sign(key, d.chainID, d.nonces[signer]); err != nil {
		return err
	}
	d.nonces[signer]++
	raw, err := tx.Marshal()
	if err != nil {
		return err
	}

	d.app.NextBlock(time.Now())
	if res := d.app.CheckTx(raw); res.IsErr() {
		return errors.ABCIError(res.Code, res.Log)
	}
	res := d.app.DeliverTx(raw)
	d.app.Commit()
	return errors.ABCIError(res.Code, res.Log)
}

func (d *demo) report(output io.Writer) error {
	ctrl := token.NewController(escrow.Authenticate{}, cash.NewController())
	return d.app.View(func(db vaultswap.ReadOnlyKVStore) error {
		for _, acc := range []struct {
			name string
			addr vaultswap.Address
		}{
			{"alice X", d.aliceX},
			{"alice Y", d.aliceY},
			{"bob X", d.bobX},
			{"bob Y", d.bobY},
		} {
			amount, err := ctrl.Balance(db, acc.addr)
			if err != nil {
				return errors.Wrap(err, acc.name)
			}
			fmt.Fprintf(output, "%s\t%d\n", acc.name, amount)
		}
		return nil
	})
}
