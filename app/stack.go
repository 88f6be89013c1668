package app

import (
	"github.com/iov-one/vaultswap"
	"github.com/iov-one/vaultswap/store/iavl"
	"github.com/iov-one/vaultswap/x"
	"github.com/iov-one/vaultswap/x/cash"
	"github.com/iov-one/vaultswap/x/escrow"
	"github.com/iov-one/vaultswap/x/sigs"
	"github.com/iov-one/vaultswap/x/token"
	"github.com/iov-one/vaultswap/x/utils"
	"github.com/tendermint/tendermint/libs/log"
)

// Routes registers the handlers of all extensions.
func Routes(r vaultswap.Registry, auth x.Authenticator) {
	ctrl := cash.NewController()
	cash.RegisterRoutes(r, auth, ctrl)
	token.RegisterRoutes(r, auth, ctrl)
	escrow.RegisterRoutes(r, auth, ctrl)
}

// Stack wires the decorators in front of the router. Every transaction
// must be signed. A failing transaction leaves no trace other than the
// sequence bump of its signers.
func Stack() vaultswap.Handler {
	r := NewRouter()
	Routes(r, sigs.Authenticate{})
	return ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		sigs.NewDecorator(),
		utils.NewActionTagger(),
		utils.NewSavepoint().OnCheck().OnDeliver(),
	).WithHandler(r)
}

// Initializers loads the genesis of all extensions.
func Initializers() vaultswap.Initializer {
	return vaultswap.ChainInitializers(
		cash.Initializer{},
		token.Initializer{},
		escrow.Initializer{},
	)
}

// New returns an application over a fresh in-memory iavl tree.
func New(name string, logger log.Logger, debug bool) (*Application, error) {
	a, err := NewApplication(name, iavl.MemCommitStore(), DecodeTx, Stack(), Initializers(), debug)
	if err != nil {
		return nil, err
	}
	return a.WithLogger(logger), nil
}
