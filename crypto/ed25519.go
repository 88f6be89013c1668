/*
Package crypto wraps ed25519 keys and signatures used to authorize
transactions. A public key is turned into a Condition, so that the
address of a signer can be matched against the owner of an account.
*/
package crypto

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/vaultswap"
	"golang.org/x/crypto/ed25519"
)

// ExtensionName is used for the conditions we get from signatures
const ExtensionName = "sigs"

// Signer is the functionality we use from a private key.
// No serializing to support hardware devices as well.
type Signer interface {
	Sign(message []byte) (*Signature, error)
	PublicKey() *PublicKey
}

// PublicKey is an ed25519 public key.
type PublicKey struct {
	Ed25519 []byte `protobuf:"bytes,1,opt,name=ed25519,proto3" json:"ed25519"`
}

// Signature is an ed25519 signature.
type Signature struct {
	Ed25519 []byte `protobuf:"bytes,1,opt,name=ed25519,proto3" json:"ed25519"`
}

// PrivateKey is an ed25519 private key. It is never persisted by the
// application.
type PrivateKey struct {
	Ed25519 []byte
}

// Verify verifies the signature was created with this message and public key
func (p *PublicKey) Verify(message []byte, sig *Signature) bool {
	if p == nil || len(p.Ed25519) != ed25519.PublicKeySize {
		return false
	}
	if sig == nil || len(sig.Ed25519) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(p.Ed25519), message, sig.Ed25519)
}

// Condition encodes the public key into a vaultswap condition.
// An empty key has no condition.
func (p *PublicKey) Condition() vaultswap.Condition {
	if p == nil || len(p.Ed25519) == 0 {
		return nil
	}
	return vaultswap.NewCondition(ExtensionName, "ed25519", p.Ed25519)
}

// Address is the address of the key condition.
func (p *PublicKey) Address() vaultswap.Address {
	c := p.Condition()
	if c == nil {
		return nil
	}
	return c.Address()
}

// Marshal serializes the key. Keys are stored as part of the signer
// state, so they use the protobuf form of the models.
func (p *PublicKey) Marshal() ([]byte, error) {
	return vaultswap.MarshalProto((*publicKeyRecord)(p))
}

// Unmarshal loads the key from its binary form.
func (p *PublicKey) Unmarshal(raw []byte) error {
	return vaultswap.UnmarshalProto(raw, (*publicKeyRecord)(p))
}

// Marshal serializes the signature.
func (s *Signature) Marshal() ([]byte, error) {
	return vaultswap.MarshalProto((*signatureRecord)(s))
}

// Unmarshal loads the signature from its binary form.
func (s *Signature) Unmarshal(raw []byte) error {
	return vaultswap.UnmarshalProto(raw, (*signatureRecord)(s))
}

type publicKeyRecord PublicKey

func (p *publicKeyRecord) Reset()         { *p = publicKeyRecord{} }
func (p *publicKeyRecord) String() string { return proto.CompactTextString(p) }
func (*publicKeyRecord) ProtoMessage()    {}

type signatureRecord Signature

func (s *signatureRecord) Reset()         { *s = signatureRecord{} }
func (s *signatureRecord) String() string { return proto.CompactTextString(s) }
func (*signatureRecord) ProtoMessage()    {}

var _ Signer = (*PrivateKey)(nil)

// Sign returns a matching signature for this private key
func (p *PrivateKey) Sign(message []byte) (*Signature, error) {
	bz := ed25519.Sign(ed25519.PrivateKey(p.Ed25519), message)
	return &Signature{Ed25519: bz}, nil
}

// PublicKey returns the corresponding PublicKey
func (p *PrivateKey) PublicKey() *PublicKey {
	pub := ed25519.PrivateKey(p.Ed25519).Public().(ed25519.PublicKey)
	return &PublicKey{Ed25519: pub}
}

// GetEd25519 returns the raw key.
func (p *PrivateKey) GetEd25519() []byte {
	if p == nil {
		return nil
	}
	return p.Ed25519
}

// GenPrivKeyEd25519 returns a random new private key
func GenPrivKeyEd25519() *PrivateKey {
	_, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		panic(err)
	}
	return &PrivateKey{Ed25519: priv}
}

// PrivKeyEd25519FromSeed will deterministically generate a private key from
// a given seed. Use if you have a strong source of external randomness,
// or for deterministic keys in test cases.
//
// Panics if the seed is not 32 bytes long.
func PrivKeyEd25519FromSeed(seed []byte) *PrivateKey {
	return &PrivateKey{Ed25519: ed25519.NewKeyFromSeed(seed)}
}
