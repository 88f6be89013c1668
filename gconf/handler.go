package gconf

import (
	"github.com/iov-one/vaultswap"
	"github.com/iov-one/vaultswap/errors"
	"github.com/iov-one/vaultswap/x"
)

// OwnedConfig is a configuration that names who may change it.
type OwnedConfig interface {
	Configuration
	GetOwner() vaultswap.Address
}

// UpdateMsg carries a complete replacement of a configuration.
type UpdateMsg interface {
	vaultswap.Msg
	GetConfiguration() OwnedConfig
}

// UpdateConfigurationHandler replaces the configuration of a single
// package. The owner of the current configuration must sign the change,
// a configuration without an owner is fixed at genesis.
type UpdateConfigurationHandler struct {
	pkg    string
	config func() OwnedConfig
	auth   x.Authenticator
}

var _ vaultswap.Handler = UpdateConfigurationHandler{}

// NewUpdateConfigurationHandler returns a handler for the configuration
// of pkg. config must return an empty instance the current configuration
// can be loaded into.
func NewUpdateConfigurationHandler(pkg string, config func() OwnedConfig, auth x.Authenticator) UpdateConfigurationHandler {
	return UpdateConfigurationHandler{
		pkg:    pkg,
		config: config,
		auth:   auth,
	}
}

func (h UpdateConfigurationHandler) Check(ctx vaultswap.Context, db vaultswap.KVStore, tx vaultswap.Tx) (*vaultswap.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &vaultswap.CheckResult{}, nil
}

func (h UpdateConfigurationHandler) Deliver(ctx vaultswap.Context, db vaultswap.KVStore, tx vaultswap.Tx) (*vaultswap.DeliverResult, error) {
	next, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := Save(db, h.pkg, next); err != nil {
		return nil, errors.Wrap(err, "save configuration")
	}
	vaultswap.GetLogger(ctx).Info("configuration updated", "package", h.pkg)
	return &vaultswap.DeliverResult{}, nil
}

func (h UpdateConfigurationHandler) validate(ctx vaultswap.Context, db vaultswap.KVStore, tx vaultswap.Tx) (OwnedConfig, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, errors.Wrap(err, "cannot get transaction message")
	}
	update, ok := msg.(UpdateMsg)
	if !ok {
		return nil, errors.Wrapf(errors.ErrInvalidMsg, "%T is not a configuration update", msg)
	}
	if err := update.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid message")
	}

	current := h.config()
	if err := Load(db, h.pkg, current); err != nil {
		return nil, errors.Wrap(err, "load current configuration")
	}
	owner := current.GetOwner()
	if len(owner) == 0 {
		return nil, errors.Wrapf(errors.ErrUnauthorized, "%s configuration has no owner", h.pkg)
	}
	if !h.auth.HasAddress(ctx, owner) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "owner did not sign transaction")
	}
	return update.GetConfiguration(), nil
}
