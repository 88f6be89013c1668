package app

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/iov-one/vaultswap"
	"github.com/iov-one/vaultswap/errors"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// Application is an ABCI application running every transaction through
// a single handler stack. Calls are serialized, a transaction always sees
// the complete effects of the ones delivered before it.
type Application struct {
	mu sync.Mutex

	name        string
	logger      log.Logger
	store       *CommitStore
	decoder     vaultswap.TxDecoder
	handler     vaultswap.Handler
	initializer vaultswap.Initializer
	debug       bool

	chainID   string
	height    int64
	blockTime time.Time
}

var _ abci.Application = (*Application)(nil)

// NewApplication returns an application over store. The chain id is
// loaded from the store if it was initialized before.
func NewApplication(name string, store vaultswap.CommitKVStore, decoder vaultswap.TxDecoder, handler vaultswap.Handler, initializer vaultswap.Initializer, debug bool) (*Application, error) {
	chainID, err := loadChainID(store.Adapter())
	if err != nil {
		return nil, err
	}
	return &Application{
		name:        name,
		logger:      log.NewNopLogger(),
		store:       NewCommitStore(store),
		decoder:     decoder,
		handler:     handler,
		initializer: initializer,
		debug:       debug,
		chainID:     chainID,
	}, nil
}

// WithLogger sets the logger passed to every handler.
func (a *Application) WithLogger(logger log.Logger) *Application {
	a.logger = logger
	return a
}

// ChainID returns the chain id set at genesis.
func (a *Application) ChainID() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.chainID
}

// blockContext returns the context every transaction of the current block
// runs with.
func (a *Application) blockContext() vaultswap.Context {
	ctx := vaultswap.WithLogger(context.Background(), a.logger)
	if a.chainID != "" {
		ctx = vaultswap.WithChainID(ctx, a.chainID)
	}
	ctx = vaultswap.WithHeight(ctx, a.height)
	if !a.blockTime.IsZero() {
		ctx = vaultswap.WithBlockTime(ctx, a.blockTime)
	}
	return ctx
}

// InitGenesis stores the chain id and runs all initializers on given
// application state. It can be done only once.
func (a *Application) InitGenesis(chainID string, state vaultswap.Options) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.chainID != "" {
		return errors.Wrapf(errors.ErrInvalidState, "state initialized for chain %s", a.chainID)
	}
	db := a.store.committed.CacheWrap()
	if err := saveChainID(db, chainID); err != nil {
		db.Discard()
		return err
	}
	if err := a.initializer.FromGenesis(state, db); err != nil {
		db.Discard()
		return errors.Wrap(err, "genesis")
	}
	if err := db.Write(); err != nil {
		return errors.Wrap(err, "write genesis")
	}
	a.store.reset()
	a.chainID = chainID
	a.logger.Info("genesis loaded", "chain_id", chainID)
	return nil
}

// View runs fn against the committed state.
func (a *Application) View(fn func(db vaultswap.ReadOnlyKVStore) error) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return fn(a.store.committed)
}

// NextBlock starts a new block at given time. Transactions delivered
// before the next Commit belong to it.
func (a *Application) NextBlock(t time.Time) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.height = a.store.CommitInfo().Version + 1
	a.blockTime = t
}

func (a *Application) loadTx(raw []byte) (tx vaultswap.Tx, err error) {
	defer errors.Recover(&err)
	return a.decoder(raw)
}

// CheckTx - ABCI - dispatches to the handler
func (a *Application) CheckTx(raw []byte) abci.ResponseCheckTx {
	a.mu.Lock()
	defer a.mu.Unlock()

	tx, err := a.loadTx(raw)
	if err != nil {
		return vaultswap.CheckTxError(err, a.debug)
	}
	ctx := vaultswap.WithLogInfo(a.blockContext(), "call", "check_tx", "path", vaultswap.GetPath(tx))
	res, err := a.handler.Check(ctx, a.store.CheckStore(), tx)
	return vaultswap.CheckOrError(res, err, a.debug)
}

// DeliverTx - ABCI - dispatches to the handler
func (a *Application) DeliverTx(raw []byte) abci.ResponseDeliverTx {
	a.mu.Lock()
	defer a.mu.Unlock()

	tx, err := a.loadTx(raw)
	if err != nil {
		return vaultswap.DeliverTxError(err, a.debug)
	}
	ctx := vaultswap.WithLogInfo(a.blockContext(), "call", "deliver_tx", "path", vaultswap.GetPath(tx))
	res, err := a.handler.Deliver(ctx, a.store.DeliverStore(), tx)
	return vaultswap.DeliverOrError(res, err, a.debug)
}

// Commit - ABCI - writes the delivered state and returns its hash.
// A failing commit cannot be recovered from, so it panics.
func (a *Application) Commit() abci.ResponseCommit {
	a.mu.Lock()
	defer a.mu.Unlock()

	id, err := a.store.Commit()
	if err != nil {
		panic(err)
	}
	a.logger.Debug("commit", "height", id.Version, "hash", fmt.Sprintf("%X", id.Hash))
	return abci.ResponseCommit{Data: id.Hash}
}

// Info - ABCI - returns the height and hash of the last commit.
func (a *Application) Info(abci.RequestInfo) abci.ResponseInfo {
	a.mu.Lock()
	defer a.mu.Unlock()

	last := a.store.CommitInfo()
	return abci.ResponseInfo{
		Data:             a.name,
		LastBlockHeight:  last.Version,
		LastBlockAppHash: last.Hash,
	}
}

// SetOption - ABCI
func (a *Application) SetOption(abci.RequestSetOption) abci.ResponseSetOption {
	return abci.ResponseSetOption{Log: "not implemented"}
}

// InitChain - ABCI - loads the application state from genesis.
func (a *Application) InitChain(req abci.RequestInitChain) abci.ResponseInitChain {
	var state vaultswap.Options
	if err := json.Unmarshal(req.AppStateBytes, &state); err != nil {
		panic(errors.Wrap(errors.ErrInvalidInput, err.Error()))
	}
	if err := a.InitGenesis(req.ChainId, state); err != nil {
		panic(err)
	}
	return abci.ResponseInitChain{}
}

// BeginBlock - ABCI - sets the height and time of the block.
func (a *Application) BeginBlock(req abci.RequestBeginBlock) abci.ResponseBeginBlock {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.height = req.Header.Height
	a.blockTime = req.Header.Time
	return abci.ResponseBeginBlock{}
}

// EndBlock - ABCI
func (a *Application) EndBlock(abci.RequestEndBlock) abci.ResponseEndBlock {
	return abci.ResponseEndBlock{}
}

// Query - ABCI - returns the committed value stored under the raw key
// given as data. Only the "/key" path is supported.
func (a *Application) Query(req abci.RequestQuery) abci.ResponseQuery {
	if req.Path != "/key" {
		return queryError(errors.Wrapf(errors.ErrNotFound, "query path %q", req.Path), a.debug)
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	value, err := a.store.committed.Get(req.Data)
	if err != nil {
		return queryError(err, a.debug)
	}
	return abci.ResponseQuery{
		Key:    req.Data,
		Value:  value,
		Height: a.store.CommitInfo().Version,
	}
}

func queryError(err error, debug bool) abci.ResponseQuery {
	code, msg := errors.ABCIInfo(err, debug)
	return abci.ResponseQuery{Code: code, Log: msg}
}
