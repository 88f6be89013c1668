package token

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/vaultswap"
	"github.com/iov-one/vaultswap/errors"
	"github.com/iov-one/vaultswap/orm"
)

const maxDecimals = 18

// Mint defines a fungible asset.
type Mint struct {
	Metadata *vaultswap.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata"`
	// Authority is allowed to issue new tokens of this mint.
	Authority vaultswap.Address `protobuf:"bytes,2,opt,name=authority,proto3" json:"authority"`
	Supply    uint64            `protobuf:"varint,3,opt,name=supply,proto3" json:"supply"`
	Decimals  uint32            `protobuf:"varint,4,opt,name=decimals,proto3" json:"decimals"`
}

var _ orm.Model = (*Mint)(nil)

func (m *Mint) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "Authority", m.Authority.Validate())
	if m.Decimals > maxDecimals {
		errs = errors.AppendField(errs, "Decimals", errors.ErrInvalidInput)
	}
	return errs
}

func (m *Mint) Marshal() ([]byte, error) {
	return vaultswap.MarshalProto((*mintRecord)(m))
}

func (m *Mint) Unmarshal(raw []byte) error {
	return vaultswap.UnmarshalProto(raw, (*mintRecord)(m))
}

// mintRecord is the stored form of Mint.
type mintRecord Mint

func (m *mintRecord) Reset()         { *m = mintRecord{} }
func (m *mintRecord) String() string { return proto.CompactTextString(m) }
func (*mintRecord) ProtoMessage()    {}

// NewMintBucket returns a bucket of mints keyed by mint address.
func NewMintBucket() orm.ModelBucket {
	return orm.NewModelBucket("token_mint", &Mint{})
}

// Account holds tokens of a single mint.
type Account struct {
	Metadata *vaultswap.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata"`
	Mint     vaultswap.Address   `protobuf:"bytes,2,opt,name=mint,proto3" json:"mint"`
	Owner    vaultswap.Address   `protobuf:"bytes,3,opt,name=owner,proto3" json:"owner"`
	Amount   uint64              `protobuf:"varint,4,opt,name=amount,proto3" json:"amount"`
	// Deposit is the storage deposit paid when the account was created.
	Deposit uint64 `protobuf:"varint,5,opt,name=deposit,proto3" json:"deposit"`
}

var _ orm.Model = (*Account)(nil)

func (a *Account) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", a.Metadata.Validate())
	errs = errors.AppendField(errs, "Mint", a.Mint.Validate())
	errs = errors.AppendField(errs, "Owner", a.Owner.Validate())
	return errs
}

func (a *Account) Marshal() ([]byte, error) {
	return vaultswap.MarshalProto((*accountRecord)(a))
}

func (a *Account) Unmarshal(raw []byte) error {
	return vaultswap.UnmarshalProto(raw, (*accountRecord)(a))
}

// accountRecord is the stored form of Account.
type accountRecord Account

func (m *accountRecord) Reset()         { *m = accountRecord{} }
func (m *accountRecord) String() string { return proto.CompactTextString(m) }
func (*accountRecord) ProtoMessage()    {}

// NewAccountBucket returns a bucket of accounts keyed by account address
// and indexed by owner.
func NewAccountBucket() orm.ModelBucket {
	return orm.NewModelBucket("token_account", &Account{},
		orm.WithIndex("owner", ownerIndexer))
}

func ownerIndexer(m orm.Model) ([]byte, error) {
	a, ok := m.(*Account)
	if !ok {
		return nil, errors.WithType(errors.ErrInvalidModel, m)
	}
	return a.Owner, nil
}
