package escrow

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/vaultswap"
	"github.com/iov-one/vaultswap/errors"
	"github.com/iov-one/vaultswap/orm"
)

const (
	minIDLength = 8
	maxIDLength = 32
)

// Escrow describes one active swap. All fields are set by Initialize and
// never change afterwards.
type Escrow struct {
	Metadata *vaultswap.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata"`
	// Initializer deposited the funds and is the only one allowed to
	// cancel.
	Initializer vaultswap.Address `protobuf:"bytes,2,opt,name=initializer,proto3" json:"initializer"`
	// DepositSource is the token account the deposit was taken from. A
	// cancelled deposit goes back there.
	DepositSource vaultswap.Address `protobuf:"bytes,3,opt,name=deposit_source,proto3" json:"deposit_source"`
	// ProceedsDestination receives the taker payment.
	ProceedsDestination vaultswap.Address `protobuf:"bytes,4,opt,name=proceeds_destination,proto3" json:"proceeds_destination"`
	DepositAmount       uint64            `protobuf:"varint,5,opt,name=deposit_amount,proto3" json:"deposit_amount"`
	ExpectedAmount      uint64            `protobuf:"varint,6,opt,name=expected_amount,proto3" json:"expected_amount"`
	// Vault is the token account holding the deposit.
	Vault     vaultswap.Address `protobuf:"bytes,7,opt,name=vault,proto3" json:"vault"`
	VaultBump uint32            `protobuf:"varint,8,opt,name=vault_bump,proto3" json:"vault_bump"`
	// StorageDeposit was charged from the initializer for this record.
	StorageDeposit uint64 `protobuf:"varint,9,opt,name=storage_deposit,proto3" json:"storage_deposit"`
}

var _ orm.Model = (*Escrow)(nil)

func (e *Escrow) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", e.Metadata.Validate())
	errs = errors.AppendField(errs, "Initializer", e.Initializer.Validate())
	errs = errors.AppendField(errs, "DepositSource", e.DepositSource.Validate())
	errs = errors.AppendField(errs, "ProceedsDestination", e.ProceedsDestination.Validate())
	errs = errors.AppendField(errs, "Vault", e.Vault.Validate())
	if e.DepositAmount == 0 {
		errs = errors.AppendField(errs, "DepositAmount", errors.ErrInvalidAmount)
	}
	if e.ExpectedAmount == 0 {
		errs = errors.AppendField(errs, "ExpectedAmount", errors.ErrInvalidAmount)
	}
	if e.VaultBump > 255 {
		errs = errors.AppendField(errs, "VaultBump", errors.ErrInvalidInput)
	}
	return errs
}

func (e *Escrow) Marshal() ([]byte, error) {
	return vaultswap.MarshalProto((*escrowRecord)(e))
}

func (e *Escrow) Unmarshal(raw []byte) error {
	return vaultswap.UnmarshalProto(raw, (*escrowRecord)(e))
}

// escrowRecord is the stored form of Escrow.
type escrowRecord Escrow

func (m *escrowRecord) Reset()         { *m = escrowRecord{} }
func (m *escrowRecord) String() string { return proto.CompactTextString(m) }
func (*escrowRecord) ProtoMessage()    {}

// NewBucket returns a bucket of active escrows keyed by escrow id and
// indexed by initializer.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket("escrow", &Escrow{},
		orm.WithIndex("initializer", initializerIndexer))
}

func initializerIndexer(m orm.Model) ([]byte, error) {
	e, ok := m.(*Escrow)
	if !ok {
		return nil, errors.WithType(errors.ErrInvalidModel, m)
	}
	return e.Initializer, nil
}

// ByInitializer returns the ids of all active escrows of given
// initializer.
func ByInitializer(db vaultswap.ReadOnlyKVStore, initializer vaultswap.Address) ([][]byte, error) {
	return NewBucket().ByIndex(db, "initializer", initializer)
}

func validateID(id []byte) error {
	if n := len(id); n < minIDLength || n > maxIDLength {
		return errors.Wrapf(errors.ErrInvalidInput, "escrow id must be %d to %d bytes, got %d", minIDLength, maxIDLength, n)
	}
	return nil
}
