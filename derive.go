package vaultswap

import (
	"crypto/sha256"

	"filippo.io/edwards25519"
	"github.com/iov-one/vaultswap/errors"
)

const (
	// MaxSeeds is the maximum number of seeds accepted by a derivation.
	MaxSeeds = 16
	// MaxSeedLength is the maximum length in bytes of a single seed.
	MaxSeedLength = 32

	derivedExt  = "derived"
	derivedType = "pda"
)

// derivationMarker is appended to every derivation preimage so that a
// derived digest can never equal a digest computed for another purpose.
var derivationMarker = []byte("ProgramDerivedAddress")

// onCurve reports whether given 32 bytes decode to a point of the
// ed25519 curve. Such a value could be somebody's public key, so it is
// never used as a derived authority.
var onCurve = func(digest []byte) bool {
	_, err := new(edwards25519.Point).SetBytes(digest)
	return err == nil
}

// DeriveAddress computes a deterministic authority for the program
// identified by programID. Bumps are tried from 255 down to 0 and the
// first one producing a digest off the ed25519 curve wins, so no private
// key exists for the result.
//
// The same seeds and program always produce the same condition and bump.
// When no bump is usable ErrDerivationExhausted is returned.
func DeriveAddress(programID []byte, seeds ...[]byte) (Condition, uint8, error) {
	if err := validateDerivation(programID, seeds); err != nil {
		return nil, 0, err
	}
	for bump := 255; bump >= 0; bump-- {
		digest := derivationDigest(programID, uint8(bump), seeds)
		if onCurve(digest) {
			continue
		}
		return NewCondition(derivedExt, derivedType, digest), uint8(bump), nil
	}
	return nil, 0, errors.Wrapf(errors.ErrDerivationExhausted, "program %X", programID)
}

// CreateDerivedAddress recomputes a derived authority for a known bump.
// It fails if the bump does not produce a digest off the curve.
func CreateDerivedAddress(programID []byte, bump uint8, seeds ...[]byte) (Condition, error) {
	if err := validateDerivation(programID, seeds); err != nil {
		return nil, err
	}
	digest := derivationDigest(programID, bump, seeds)
	if onCurve(digest) {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "bump %d derives a curve point", bump)
	}
	return NewCondition(derivedExt, derivedType, digest), nil
}

// IsDerived returns true if the condition was produced by a derivation
// rather than by a signature scheme.
func IsDerived(c Condition) bool {
	ext, typ, _, err := c.Parse()
	return err == nil && ext == derivedExt && typ == derivedType
}

func validateDerivation(programID []byte, seeds [][]byte) error {
	if len(programID) == 0 {
		return errors.Wrap(errors.ErrEmpty, "program id")
	}
	if len(seeds) > MaxSeeds {
		return errors.Wrapf(errors.ErrInvalidInput, "max %d seeds", MaxSeeds)
	}
	for i, s := range seeds {
		if len(s) > MaxSeedLength {
			return errors.Wrapf(errors.ErrInvalidInput, "seed %d longer than %d bytes", i, MaxSeedLength)
		}
	}
	return nil
}

func derivationDigest(programID []byte, bump uint8, seeds [][]byte) []byte {
	h := sha256.New()
	for _, s := range seeds {
		h.Write(s)
	}
	h.Write([]byte{bump})
	h.Write(programID)
	h.Write(derivationMarker)
	return h.Sum(nil)
}
