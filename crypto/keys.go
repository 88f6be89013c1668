package crypto

import (
	"encoding/hex"
	"io/ioutil"
	"os"

	"github.com/iov-one/vaultswap/errors"
	"golang.org/x/crypto/ed25519"
)

// KeyPerm is the file permissions for saved private keys
const KeyPerm = 0600

// DecodePrivateKey reads a hex string created by EncodePrivateKey
// and returns the original PrivateKey
func DecodePrivateKey(hexKey string) (*PrivateKey, error) {
	data, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidInput, "private key must be hex encoded")
	}
	if len(data) != ed25519.PrivateKeySize {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "private key length %d", len(data))
	}
	return &PrivateKey{Ed25519: data}, nil
}

// EncodePrivateKey returns the private key as a hex string that can be
// saved and later loaded
func EncodePrivateKey(key *PrivateKey) string {
	return hex.EncodeToString(key.GetEd25519())
}

// LoadPrivateKey will load a private key from a file,
// which was previously written by SavePrivateKey
func LoadPrivateKey(filename string) (*PrivateKey, error) {
	raw, err := ioutil.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrap(err, "read private key")
	}
	return DecodePrivateKey(string(raw))
}

// SavePrivateKey will encode the private key in hex and write it to the
// named file. It refuses to overwrite an existing file unless forced.
func SavePrivateKey(key *PrivateKey, filename string, force bool) error {
	if !force {
		if _, err := os.Stat(filename); err == nil {
			return errors.Wrapf(errors.ErrDuplicate, "refusing to overwrite %s", filename)
		}
	}
	if err := ioutil.WriteFile(filename, []byte(EncodePrivateKey(key)), KeyPerm); err != nil {
		return errors.Wrap(err, "write private key")
	}
	return nil
}
