package weavetest

import (
	"context"
	"testing"

	"github.com/iov-one/vaultswap"
	"github.com/iov-one/vaultswap/errors"
	"github.com/iov-one/vaultswap/store"
	"github.com/iov-one/vaultswap/weavetest/assert"
)

func TestDecoratedHandler(t *testing.T) {
	db := store.MemStore()
	h := &Handler{}
	d := &Decorator{}
	dh := Decorate(h, d)

	_, err := dh.Check(context.Background(), db, &Tx{})
	assert.Nil(t, err)
	_, err = dh.Deliver(context.Background(), db, &Tx{})
	assert.Nil(t, err)
	assert.Equal(t, 2, d.CallCount())
	assert.Equal(t, 2, h.CallCount())

	d.DeliverErr = errors.ErrUnauthorized
	_, err = dh.Deliver(context.Background(), db, &Tx{})
	assert.IsErr(t, errors.ErrUnauthorized, err)
	assert.Equal(t, 2, d.DeliverCallCount())
	assert.Equal(t, 1, h.DeliverCallCount())
}

func TestAuth(t *testing.T) {
	a := NewCondition()
	b := NewCondition()

	auth := &Auth{Signer: a, Signers: []vaultswap.Condition{b}}
	if !auth.HasAddress(context.Background(), a.Address()) {
		t.Fatal("signer must be authenticated")
	}
	if !auth.HasAddress(context.Background(), b.Address()) {
		t.Fatal("signers must be authenticated")
	}
	if auth.HasAddress(context.Background(), NewCondition().Address()) {
		t.Fatal("unknown condition authenticated")
	}

	ctxAuth := &CtxAuth{Key: "auth"}
	ctx := ctxAuth.SetConditions(context.Background(), a)
	assert.Equal(t, 1, len(ctxAuth.GetConditions(ctx)))
	if ctxAuth.HasAddress(ctx, b.Address()) {
		t.Fatal("condition not set in context")
	}
}
