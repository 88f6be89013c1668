package vaultswap

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/vaultswap/errors"
	amino "github.com/tendermint/go-amino"
)

// Codec serializes every message and transaction in the application.
// Extensions register their messages as concrete implementations of Msg
// so that a transaction can carry any of them.
//
// Persisted models are stored in protobuf form, see MarshalProto.
var Codec = amino.NewCodec()

func init() {
	Codec.RegisterInterface((*Msg)(nil), nil)
}

// RegisterMsg makes a message type available to transactions under the
// given amino name. Call it from an init function only.
func RegisterMsg(msg Msg, name string) {
	Codec.RegisterConcrete(msg, name, nil)
}

// MarshalBinary serializes given object using the shared codec.
func MarshalBinary(obj interface{}) ([]byte, error) {
	bz, err := Codec.MarshalBinaryBare(obj)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "marshal %T: %s", obj, err)
	}
	return bz, nil
}

// UnmarshalBinary deserializes raw into the object pointed to by ptr.
func UnmarshalBinary(raw []byte, ptr interface{}) error {
	if err := Codec.UnmarshalBinaryBare(raw, ptr); err != nil {
		return errors.Wrapf(errors.ErrInvalidInput, "unmarshal %T: %s", ptr, err)
	}
	return nil
}

// MarshalProto serializes a model with the protobuf codec. Every field
// of m must carry a protobuf struct tag.
//
// A model type cannot be passed directly when it implements Marshal
// itself. Convert it to a local type with the same fields instead.
func MarshalProto(m proto.Message) ([]byte, error) {
	bz, err := proto.Marshal(m)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidModel, "marshal %T: %s", m, err)
	}
	return bz, nil
}

// UnmarshalProto loads raw into m, resetting it first.
func UnmarshalProto(raw []byte, m proto.Message) error {
	if err := proto.Unmarshal(raw, m); err != nil {
		return errors.Wrapf(errors.ErrInvalidModel, "unmarshal %T: %s", m, err)
	}
	return nil
}

// MustMarshal will succeed or panic
func MustMarshal(obj Marshaller) []byte {
	bz, err := obj.Marshal()
	if err != nil {
		panic(err)
	}
	return bz
}
