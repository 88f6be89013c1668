package escrow

import (
	"github.com/iov-one/vaultswap"
	"github.com/iov-one/vaultswap/errors"
	"github.com/iov-one/vaultswap/gconf"
)

const confPkg = "escrow"

// Configuration of the escrow extension.
type Configuration struct {
	Metadata *vaultswap.Metadata `json:"metadata"`
	// ProgramID identifies this escrow program. Every vault address and
	// the escrow authority are derived from it, so changing it orphans
	// all active vaults.
	ProgramID []byte `json:"program_id"`
}

var _ gconf.Configuration = (*Configuration)(nil)

func (c *Configuration) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", c.Metadata.Validate())
	if len(c.ProgramID) == 0 {
		errs = errors.AppendField(errs, "ProgramID", errors.ErrEmpty)
	}
	return errs
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

// Initializer fulfils the Initializer interface to load data from
// the genesis file
type Initializer struct{}

var _ vaultswap.Initializer = Initializer{}

// FromGenesis saves the escrow configuration declared under
// conf.escrow.
func (Initializer) FromGenesis(opts vaultswap.Options, db vaultswap.KVStore) error {
	var conf Configuration
	return gconf.InitConfig(db, opts, confPkg, &conf)
}
