package app

import (
	"github.com/iov-one/vaultswap"
	"github.com/iov-one/vaultswap/crypto"
	"github.com/iov-one/vaultswap/errors"
	"github.com/iov-one/vaultswap/x/sigs"
)

// Tx is the transaction format of the application. It carries exactly one
// message and the signatures of everybody the message needs.
type Tx struct {
	Msg        vaultswap.Msg        `json:"msg"`
	Signatures []*sigs.StdSignature `json:"signatures"`
}

var _ vaultswap.Tx = (*Tx)(nil)
var _ sigs.SignedTx = (*Tx)(nil)

// NewTx returns an unsigned transaction carrying msg.
func NewTx(msg vaultswap.Msg) *Tx {
	return &Tx{Msg: msg}
}

// GetMsg returns the single message of the transaction.
func (tx *Tx) GetMsg() (vaultswap.Msg, error) {
	if tx.Msg == nil {
		return nil, errors.Wrap(errors.ErrInvalidMsg, "message is missing")
	}
	return tx.Msg, nil
}

// GetSignatures returns the signatures on the transaction.
func (tx *Tx) GetSignatures() []*sigs.StdSignature {
	return tx.Signatures
}

// GetSignBytes returns the serialized transaction without signatures.
func (tx *Tx) GetSignBytes() ([]byte, error) {
	unsigned := Tx{Msg: tx.Msg}
	return unsigned.Marshal()
}

// Sign appends a signature of signer with given sequence.
func (tx *Tx) Sign(signer crypto.Signer, chainID string, seq int64) error {
	sig, err := sigs.SignTx(signer, tx, chainID, seq)
	if err != nil {
		return errors.Wrap(err, "sign")
	}
	tx.Signatures = append(tx.Signatures, sig)
	return nil
}

func (tx *Tx) Marshal() ([]byte, error) {
	return vaultswap.MarshalBinary(tx)
}

func (tx *Tx) Unmarshal(raw []byte) error {
	return vaultswap.UnmarshalBinary(raw, tx)
}

// DecodeTx implements vaultswap.TxDecoder for Tx.
func DecodeTx(raw []byte) (vaultswap.Tx, error) {
	var tx Tx
	if err := tx.Unmarshal(raw); err != nil {
		return nil, errors.Wrap(err, "decode tx")
	}
	return &tx, nil
}
