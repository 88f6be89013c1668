package app

import (
	"context"
	"testing"

	"github.com/iov-one/vaultswap/errors"
	"github.com/iov-one/vaultswap/store"
	"github.com/iov-one/vaultswap/weavetest"
	"github.com/iov-one/vaultswap/weavetest/assert"
)

func TestRouter(t *testing.T) {
	var (
		ctx = context.Background()
		db  = store.MemStore()
		r   = NewRouter()
		h   = &weavetest.Handler{}
	)

	r.Handle(&weavetest.Msg{RoutePath: "test/good"}, h)

	assert.Panics(t, func() {
		r.Handle(&weavetest.Msg{RoutePath: "test/good"}, &weavetest.Handler{})
	})
	assert.Panics(t, func() {
		r.Handle(&weavetest.Msg{RoutePath: "test/no spaces"}, &weavetest.Handler{})
	})

	good := &weavetest.Tx{Msg: &weavetest.Msg{RoutePath: "test/good"}}
	_, err := r.Check(ctx, db, good)
	assert.Nil(t, err)
	_, err = r.Deliver(ctx, db, good)
	assert.Nil(t, err)
	assert.Equal(t, 2, h.CallCount())

	unknown := &weavetest.Tx{Msg: &weavetest.Msg{RoutePath: "test/unknown"}}
	_, err = r.Deliver(ctx, db, unknown)
	assert.IsErr(t, errors.ErrNotFound, err)

	_, err = r.Check(ctx, db, &weavetest.Tx{})
	assert.IsErr(t, errors.ErrInvalidMsg, err)
}
