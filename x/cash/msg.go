package cash

import (
	"github.com/iov-one/vaultswap"
	"github.com/iov-one/vaultswap/errors"
	"github.com/iov-one/vaultswap/gconf"
)

func init() {
	vaultswap.RegisterMsg(&SendMsg{}, "cash/SendMsg")
	vaultswap.RegisterMsg(&UpdateConfigurationMsg{}, "cash/UpdateConfigurationMsg")
}

const maxMemoSize = 128

// SendMsg moves native coins between two wallets.
type SendMsg struct {
	Metadata    *vaultswap.Metadata `json:"metadata"`
	Source      vaultswap.Address   `json:"source"`
	Destination vaultswap.Address   `json:"destination"`
	Amount      uint64              `json:"amount"`
	Memo        string              `json:"memo,omitempty"`
}

var _ vaultswap.Msg = (*SendMsg)(nil)

func (SendMsg) Path() string {
	return "cash/send"
}

func (m *SendMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "Source", m.Source.Validate())
	errs = errors.AppendField(errs, "Destination", m.Destination.Validate())
	if m.Amount == 0 {
		errs = errors.AppendField(errs, "Amount", errors.ErrInvalidAmount)
	}
	if len(m.Memo) > maxMemoSize {
		errs = errors.AppendField(errs, "Memo", errors.ErrInvalidInput)
	}
	return errs
}

func (m *SendMsg) Marshal() ([]byte, error) {
	return vaultswap.MarshalBinary(m)
}

func (m *SendMsg) Unmarshal(raw []byte) error {
	return vaultswap.UnmarshalBinary(raw, m)
}

// UpdateConfigurationMsg replaces the cash configuration. Signed by the
// owner of the current configuration.
type UpdateConfigurationMsg struct {
	Metadata *vaultswap.Metadata `json:"metadata"`
	Patch    *Configuration      `json:"patch"`
}

var _ gconf.UpdateMsg = (*UpdateConfigurationMsg)(nil)

func (UpdateConfigurationMsg) Path() string {
	return "cash/update_configuration"
}

func (m *UpdateConfigurationMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	if m.Patch == nil {
		errs = errors.AppendField(errs, "Patch", errors.ErrEmpty)
	} else {
		errs = errors.AppendField(errs, "Patch", m.Patch.Validate())
	}
	return errs
}

func (m *UpdateConfigurationMsg) GetConfiguration() gconf.OwnedConfig {
	return m.Patch
}

func (m *UpdateConfigurationMsg) Marshal() ([]byte, error) {
	return vaultswap.MarshalBinary(m)
}

func (m *UpdateConfigurationMsg) Unmarshal(raw []byte) error {
	return vaultswap.UnmarshalBinary(raw, m)
}
