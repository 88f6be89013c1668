package utils

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/iov-one/vaultswap"
	"github.com/iov-one/vaultswap/errors"
	"github.com/iov-one/vaultswap/store"
	"github.com/iov-one/vaultswap/weavetest"
	"github.com/iov-one/vaultswap/weavetest/assert"
	"github.com/tendermint/tendermint/libs/log"
)

func TestSavepoint(t *testing.T) {
	key, value := []byte("key"), []byte("value")
	write := func(db vaultswap.KVStore) {
		if err := db.Set(key, value); err != nil {
			t.Fatalf("cannot write: %s", err)
		}
	}

	cases := map[string]struct {
		decorator  vaultswap.Decorator
		handlerErr error
		wantValue  []byte
	}{
		"success is written": {
			decorator: NewSavepoint().OnDeliver(),
			wantValue: value,
		},
		"failure is rolled back": {
			decorator:  NewSavepoint().OnDeliver(),
			handlerErr: errors.ErrInsufficientBalance,
			wantValue:  nil,
		},
		"disabled savepoint keeps partial writes": {
			decorator:  NewSavepoint().OnCheck(),
			handlerErr: errors.ErrInsufficientBalance,
			wantValue:  value,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			h := &weavetest.Handler{OnDeliver: write, DeliverErr: tc.handlerErr}
			_, err := tc.decorator.Deliver(context.Background(), db, &weavetest.Tx{}, h)
			assert.IsErr(t, tc.handlerErr, err)

			got, err := db.Get(key)
			assert.Nil(t, err)
			assert.Equal(t, tc.wantValue, got)
		})
	}
}

func TestRecovery(t *testing.T) {
	h := weavetest.Decorate(&panicHandler{}, NewRecovery())
	_, err := h.Deliver(context.Background(), store.MemStore(), &weavetest.Tx{})
	assert.IsErr(t, errors.ErrPanic, err)
	_, err = h.Check(context.Background(), store.MemStore(), &weavetest.Tx{})
	assert.IsErr(t, errors.ErrPanic, err)
}

type panicHandler struct{}

func (panicHandler) Check(vaultswap.Context, vaultswap.KVStore, vaultswap.Tx) (*vaultswap.CheckResult, error) {
	panic("check")
}

func (panicHandler) Deliver(vaultswap.Context, vaultswap.KVStore, vaultswap.Tx) (*vaultswap.DeliverResult, error) {
	panic("deliver")
}

func TestActionTagger(t *testing.T) {
	tx := &weavetest.Tx{Msg: &weavetest.Msg{RoutePath: "escrow/exchange"}}
	h := weavetest.Decorate(&weavetest.Handler{}, NewActionTagger())

	res, err := h.Deliver(context.Background(), store.MemStore(), tx)
	assert.Nil(t, err)
	assert.Equal(t, 1, len(res.Tags))
	assert.Equal(t, []byte(ActionKey), res.Tags[0].Key)
	assert.Equal(t, []byte("escrow/exchange"), res.Tags[0].Value)

	failing := weavetest.Decorate(&weavetest.Handler{DeliverErr: errors.ErrUnauthorized}, NewActionTagger())
	_, err = failing.Deliver(context.Background(), store.MemStore(), tx)
	assert.IsErr(t, errors.ErrUnauthorized, err)
}

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	ctx := vaultswap.WithLogger(context.Background(), log.NewTMLogger(&buf))
	tx := &weavetest.Tx{Msg: &weavetest.Msg{RoutePath: "escrow/cancel"}}

	h := weavetest.Decorate(&weavetest.Handler{DeliverErr: errors.ErrUnauthorized}, NewLogging())
	_, err := h.Deliver(ctx, store.MemStore(), tx)
	assert.IsErr(t, errors.ErrUnauthorized, err)

	out := buf.String()
	if !strings.Contains(out, "path=escrow/cancel") {
		t.Fatalf("path not logged: %s", out)
	}
	if !strings.Contains(out, "unauthorized") {
		t.Fatalf("error not logged: %s", out)
	}
}
