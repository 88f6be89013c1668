package sigs

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/vaultswap"
	"github.com/iov-one/vaultswap/crypto"
	"github.com/iov-one/vaultswap/errors"
	"github.com/iov-one/vaultswap/orm"
)

// BucketName is where we store the accounts
const BucketName = "sigs"

// maxSequenceValue is the greatest sequence a client can represent,
// Number.MAX_SAFE_INTEGER in javascript.
const maxSequenceValue = (1 << 53) - 1

// UserData is the signing state of a single public key.
type UserData struct {
	Metadata *vaultswap.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata"`
	Pubkey   *crypto.PublicKey   `protobuf:"bytes,2,opt,name=pubkey,proto3" json:"pubkey"`
	Sequence int64               `protobuf:"varint,3,opt,name=sequence,proto3" json:"sequence"`
}

var _ orm.Model = (*UserData)(nil)

// Validate returns an error if the user state is not consistent.
func (u *UserData) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", u.Metadata.Validate())
	if u.Sequence < 0 {
		errs = errors.AppendField(errs, "Sequence", ErrInvalidSequence)
	}
	if u.Pubkey == nil || len(u.Pubkey.Ed25519) == 0 {
		errs = errors.AppendField(errs, "Pubkey", errors.ErrEmpty)
	}
	return errs
}

func (u *UserData) Marshal() ([]byte, error) {
	return vaultswap.MarshalProto((*userRecord)(u))
}

func (u *UserData) Unmarshal(raw []byte) error {
	return vaultswap.UnmarshalProto(raw, (*userRecord)(u))
}

// userRecord is the stored form of UserData.
type userRecord UserData

func (m *userRecord) Reset()         { *m = userRecord{} }
func (m *userRecord) String() string { return proto.CompactTextString(m) }
func (*userRecord) ProtoMessage()    {}

// CheckAndIncrementSequence increments the sequence if it is equal to
// expected. Otherwise an error is returned.
func (u *UserData) CheckAndIncrementSequence(expected int64) error {
	if u.Sequence != expected {
		return errors.Wrapf(ErrInvalidSequence, "mismatch expected %d, got %d", expected, u.Sequence)
	}
	next := u.Sequence + 1
	if next <= 0 || next > maxSequenceValue {
		return errors.Wrap(errors.ErrOverflow, "sequence out of range")
	}
	u.Sequence = next
	return nil
}

// NewBucket returns a bucket of users keyed by the address of their
// public key.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket(BucketName, &UserData{})
}

// loadOrCreate returns the stored user for given key, or a fresh one
// with sequence zero.
func loadOrCreate(db vaultswap.ReadOnlyKVStore, b orm.ModelBucket, pubkey *crypto.PublicKey) (*UserData, error) {
	var user UserData
	switch err := b.One(db, pubkey.Address(), &user); {
	case err == nil:
		return &user, nil
	case errors.ErrNotFound.Is(err):
		return &UserData{
			Metadata: &vaultswap.Metadata{Schema: 1},
			Pubkey:   pubkey,
		}, nil
	default:
		return nil, err
	}
}
