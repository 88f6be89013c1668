package cash

import (
	"github.com/iov-one/vaultswap"
	"github.com/iov-one/vaultswap/errors"
	"github.com/iov-one/vaultswap/gconf"
)

const confPkg = "cash"

// Configuration of the cash extension.
type Configuration struct {
	Metadata *vaultswap.Metadata `json:"metadata"`
	// Owner may replace the configuration with UpdateConfigurationMsg.
	// Without an owner the configuration cannot change after genesis.
	Owner vaultswap.Address `json:"owner"`
	// StorageDeposit is charged for every storage slot allocated on the
	// ledger and refunded when the slot is released.
	StorageDeposit uint64 `json:"storage_deposit"`
}

var _ gconf.OwnedConfig = (*Configuration)(nil)

func (c *Configuration) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", c.Metadata.Validate())
	if len(c.Owner) != 0 {
		errs = errors.AppendField(errs, "Owner", c.Owner.Validate())
	}
	return errs
}

func (c *Configuration) GetOwner() vaultswap.Address {
	return c.Owner
}

func (c *Configuration) Marshal() ([]byte, error) {
	return vaultswap.MarshalBinary(c)
}

func (c *Configuration) Unmarshal(raw []byte) error {
	return vaultswap.UnmarshalBinary(raw, c)
}

// LoadConfiguration returns the configuration saved in the database.
func LoadConfiguration(db gconf.ReadStore) (*Configuration, error) {
	var conf Configuration
	if err := gconf.Load(db, confPkg, &conf); err != nil {
		return nil, errors.Wrap(err, "load configuration")
	}
	return &conf, nil
}
