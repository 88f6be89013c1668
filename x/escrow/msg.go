package escrow

import (
	"github.com/iov-one/vaultswap"
	"github.com/iov-one/vaultswap/errors"
)

func init() {
	vaultswap.RegisterMsg(&InitializeMsg{}, "escrow/InitializeMsg")
	vaultswap.RegisterMsg(&ExchangeMsg{}, "escrow/ExchangeMsg")
	vaultswap.RegisterMsg(&CancelMsg{}, "escrow/CancelMsg")
}

// InitializeMsg locks DepositAmount from DepositSource in a new vault
// until somebody pays ExpectedAmount into ProceedsDestination.
type InitializeMsg struct {
	Metadata *vaultswap.Metadata `json:"metadata"`
	// EscrowID is chosen by the client and must not be in use.
	EscrowID            []byte            `json:"escrow_id"`
	Initializer         vaultswap.Address `json:"initializer"`
	DepositSource       vaultswap.Address `json:"deposit_source"`
	ProceedsDestination vaultswap.Address `json:"proceeds_destination"`
	DepositAmount       uint64            `json:"deposit_amount"`
	ExpectedAmount      uint64            `json:"expected_amount"`
}

var _ vaultswap.Msg = (*InitializeMsg)(nil)

func (InitializeMsg) Path() string { return "escrow/initialize" }

func (m *InitializeMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "EscrowID", validateID(m.EscrowID))
	errs = errors.AppendField(errs, "Initializer", m.Initializer.Validate())
	errs = errors.AppendField(errs, "DepositSource", m.DepositSource.Validate())
	errs = errors.AppendField(errs, "ProceedsDestination", m.ProceedsDestination.Validate())
	if m.DepositAmount == 0 {
		errs = errors.AppendField(errs, "DepositAmount", errors.ErrInvalidAmount)
	}
	if m.ExpectedAmount == 0 {
		errs = errors.AppendField(errs, "ExpectedAmount", errors.ErrInvalidAmount)
	}
	return errs
}

func (m *InitializeMsg) Marshal() ([]byte, error)     { return vaultswap.MarshalBinary(m) }
func (m *InitializeMsg) Unmarshal(raw []byte) error { return vaultswap.UnmarshalBinary(raw, m) }

// ExchangeMsg settles an escrow. Taker pays the expected amount from
// TakerDeposit and receives the vault content into TakerReceive.
type ExchangeMsg struct {
	Metadata     *vaultswap.Metadata `json:"metadata"`
	EscrowID     []byte              `json:"escrow_id"`
	Taker        vaultswap.Address   `json:"taker"`
	TakerDeposit vaultswap.Address   `json:"taker_deposit"`
	TakerReceive vaultswap.Address   `json:"taker_receive"`
	// Vault must be the vault of the escrow.
	Vault vaultswap.Address `json:"vault"`
}

var _ vaultswap.Msg = (*ExchangeMsg)(nil)

func (ExchangeMsg) Path() string { return "escrow/exchange" }

func (m *ExchangeMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "EscrowID", validateID(m.EscrowID))
	errs = errors.AppendField(errs, "Taker", m.Taker.Validate())
	errs = errors.AppendField(errs, "TakerDeposit", m.TakerDeposit.Validate())
	errs = errors.AppendField(errs, "TakerReceive", m.TakerReceive.Validate())
	errs = errors.AppendField(errs, "Vault", m.Vault.Validate())
	return errs
}

func (m *ExchangeMsg) Marshal() ([]byte, error)     { return vaultswap.MarshalBinary(m) }
func (m *ExchangeMsg) Unmarshal(raw []byte) error { return vaultswap.UnmarshalBinary(raw, m) }

// CancelMsg returns the deposit of an escrow to its source. Only the
// initializer can cancel.
type CancelMsg struct {
	Metadata    *vaultswap.Metadata `json:"metadata"`
	EscrowID    []byte              `json:"escrow_id"`
	Initializer vaultswap.Address   `json:"initializer"`
	Vault       vaultswap.Address   `json:"vault"`
}

var _ vaultswap.Msg = (*CancelMsg)(nil)

func (CancelMsg) Path() string { return "escrow/cancel" }

func (m *CancelMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "EscrowID", validateID(m.EscrowID))
	errs = errors.AppendField(errs, "Initializer", m.Initializer.Validate())
	errs = errors.AppendField(errs, "Vault", m.Vault.Validate())
	return errs
}

func (m *CancelMsg) Marshal() ([]byte, error)     { return vaultswap.MarshalBinary(m) }
func (m *CancelMsg) Unmarshal(raw []byte) error { return vaultswap.UnmarshalBinary(raw, m) }
