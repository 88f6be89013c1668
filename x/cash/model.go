package cash

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/vaultswap"
	"github.com/iov-one/vaultswap/errors"
	"github.com/iov-one/vaultswap/orm"
)

// BucketName is where we store the balances
const BucketName = "cash"

// Wallet holds the native coins of a single address.
type Wallet struct {
	Metadata *vaultswap.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata"`
	Amount   uint64              `protobuf:"varint,2,opt,name=amount,proto3" json:"amount"`
}

var _ orm.Model = (*Wallet)(nil)

// Validate returns an error if the wallet is missing its metadata.
func (w *Wallet) Validate() error {
	return errors.AppendField(nil, "Metadata", w.Metadata.Validate())
}

func (w *Wallet) Marshal() ([]byte, error) {
	return vaultswap.MarshalProto((*walletRecord)(w))
}

func (w *Wallet) Unmarshal(raw []byte) error {
	return vaultswap.UnmarshalProto(raw, (*walletRecord)(w))
}

// walletRecord is the stored form of Wallet.
type walletRecord Wallet

func (m *walletRecord) Reset()         { *m = walletRecord{} }
func (m *walletRecord) String() string { return proto.CompactTextString(m) }
func (*walletRecord) ProtoMessage()    {}

// NewBucket returns a bucket of wallets keyed by address.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket(BucketName, &Wallet{})
}
