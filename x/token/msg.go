package token

import (
	"github.com/iov-one/vaultswap"
	"github.com/iov-one/vaultswap/errors"
)

func init() {
	vaultswap.RegisterMsg(&CreateMintMsg{}, "token/CreateMintMsg")
	vaultswap.RegisterMsg(&CreateAccountMsg{}, "token/CreateAccountMsg")
	vaultswap.RegisterMsg(&MintToMsg{}, "token/MintToMsg")
	vaultswap.RegisterMsg(&TransferMsg{}, "token/TransferMsg")
	vaultswap.RegisterMsg(&CloseAccountMsg{}, "token/CloseAccountMsg")
}

// CreateMintMsg registers a new asset under the Mint address.
type CreateMintMsg struct {
	Metadata  *vaultswap.Metadata `json:"metadata"`
	Mint      vaultswap.Address   `json:"mint"`
	Authority vaultswap.Address   `json:"authority"`
	Decimals  uint32              `json:"decimals"`
}

var _ vaultswap.Msg = (*CreateMintMsg)(nil)

func (CreateMintMsg) Path() string { return "token/create_mint" }

func (m *CreateMintMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "Mint", m.Mint.Validate())
	errs = errors.AppendField(errs, "Authority", m.Authority.Validate())
	if m.Decimals > maxDecimals {
		errs = errors.AppendField(errs, "Decimals", errors.ErrInvalidInput)
	}
	return errs
}

func (m *CreateMintMsg) Marshal() ([]byte, error)     { return vaultswap.MarshalBinary(m) }
func (m *CreateMintMsg) Unmarshal(raw []byte) error { return vaultswap.UnmarshalBinary(raw, m) }

// CreateAccountMsg allocates an empty account. Payer signs and pays the
// storage deposit.
type CreateAccountMsg struct {
	Metadata *vaultswap.Metadata `json:"metadata"`
	Account  vaultswap.Address   `json:"account"`
	Mint     vaultswap.Address   `json:"mint"`
	Owner    vaultswap.Address   `json:"owner"`
	Payer    vaultswap.Address   `json:"payer"`
}

var _ vaultswap.Msg = (*CreateAccountMsg)(nil)

func (CreateAccountMsg) Path() string { return "token/create_account" }

func (m *CreateAccountMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "Account", m.Account.Validate())
	errs = errors.AppendField(errs, "Mint", m.Mint.Validate())
	errs = errors.AppendField(errs, "Owner", m.Owner.Validate())
	errs = errors.AppendField(errs, "Payer", m.Payer.Validate())
	return errs
}

func (m *CreateAccountMsg) Marshal() ([]byte, error)     { return vaultswap.MarshalBinary(m) }
func (m *CreateAccountMsg) Unmarshal(raw []byte) error { return vaultswap.UnmarshalBinary(raw, m) }

// MintToMsg issues new tokens. Signed by the mint authority.
type MintToMsg struct {
	Metadata *vaultswap.Metadata `json:"metadata"`
	Account  vaultswap.Address   `json:"account"`
	Amount   uint64              `json:"amount"`
}

var _ vaultswap.Msg = (*MintToMsg)(nil)

func (MintToMsg) Path() string { return "token/mint_to" }

func (m *MintToMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "Account", m.Account.Validate())
	if m.Amount == 0 {
		errs = errors.AppendField(errs, "Amount", errors.ErrInvalidAmount)
	}
	return errs
}

func (m *MintToMsg) Marshal() ([]byte, error)     { return vaultswap.MarshalBinary(m) }
func (m *MintToMsg) Unmarshal(raw []byte) error { return vaultswap.UnmarshalBinary(raw, m) }

// TransferMsg moves tokens between two accounts of the same mint. Signed
// by the owner of the source account.
type TransferMsg struct {
	Metadata    *vaultswap.Metadata `json:"metadata"`
	Source      vaultswap.Address   `json:"source"`
	Destination vaultswap.Address   `json:"destination"`
	Amount      uint64              `json:"amount"`
}

var _ vaultswap.Msg = (*TransferMsg)(nil)

func (TransferMsg) Path() string { return "token/transfer" }

func (m *TransferMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "Source", m.Source.Validate())
	errs = errors.AppendField(errs, "Destination", m.Destination.Validate())
	if m.Amount == 0 {
		errs = errors.AppendField(errs, "Amount", errors.ErrInvalidAmount)
	}
	return errs
}

func (m *TransferMsg) Marshal() ([]byte, error)     { return vaultswap.MarshalBinary(m) }
func (m *TransferMsg) Unmarshal(raw []byte) error { return vaultswap.UnmarshalBinary(raw, m) }

// CloseAccountMsg removes an empty account. Signed by its owner.
type CloseAccountMsg struct {
	Metadata *vaultswap.Metadata `json:"metadata"`
	Account  vaultswap.Address   `json:"account"`
	// Refund receives the storage deposit.
	Refund vaultswap.Address `json:"refund"`
}

var _ vaultswap.Msg = (*CloseAccountMsg)(nil)

func (CloseAccountMsg) Path() string { return "token/close_account" }

func (m *CloseAccountMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "Account", m.Account.Validate())
	errs = errors.AppendField(errs, "Refund", m.Refund.Validate())
	return errs
}

func (m *CloseAccountMsg) Marshal() ([]byte, error)     { return vaultswap.MarshalBinary(m) }
func (m *CloseAccountMsg) Unmarshal(raw []byte) error { return vaultswap.UnmarshalBinary(raw, m) }
