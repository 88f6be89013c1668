package vaultswap

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/vaultswap/errors"
	"github.com/iov-one/vaultswap/weavetest/assert"
)

func TestReadOptions(t *testing.T) {
	var o Options
	assert.Nil(t, json.Unmarshal([]byte(`{"cash": {"amount": 7}, "bad": "text"}`), &o))

	var got struct {
		Amount int `json:"amount"`
	}
	assert.Nil(t, o.ReadOptions("cash", &got))
	assert.Equal(t, 7, got.Amount)

	// missing key is not an error
	got.Amount = 3
	assert.Nil(t, o.ReadOptions("missing", &got))
	assert.Equal(t, 3, got.Amount)

	if err := o.ReadOptions("bad", &got); err == nil {
		t.Fatal("want an error for a malformed value")
	}
}

type initializerFunc func(Options, KVStore) error

func (fn initializerFunc) FromGenesis(o Options, db KVStore) error { return fn(o, db) }

func TestChainInitializers(t *testing.T) {
	var calls []string
	record := func(name string, err error) Initializer {
		return initializerFunc(func(Options, KVStore) error {
			calls = append(calls, name)
			return err
		})
	}

	err := ChainInitializers(record("a", nil), record("b", nil)).FromGenesis(nil, nil)
	assert.Nil(t, err)
	assert.Equal(t, []string{"a", "b"}, calls)

	calls = nil
	err = ChainInitializers(record("a", errors.ErrInvalidInput), record("b", nil)).FromGenesis(nil, nil)
	assert.IsErr(t, errors.ErrInvalidInput, err)
	assert.Equal(t, []string{"a"}, calls)
}
