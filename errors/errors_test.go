package errors

import (
	stdlib "errors"
	"fmt"
	"testing"

	"github.com/pkg/errors"
)

func TestCause(t *testing.T) {
	std := stdlib.New("this is a stdlib error")

	cases := map[string]struct {
		err  error
		root error
	}{
		"Errors are self-causing": {
			err:  ErrNotFound,
			root: ErrNotFound,
		},
		"Wrap reveals root cause": {
			err:  Wrap(ErrNotFound, "foo"),
			root: ErrNotFound,
		},
		"Cause works for stderr as root": {
			err:  Wrap(std, "Some helpful text"),
			root: std,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if got := errors.Cause(tc.err); got != tc.root {
				t.Fatal("unexpected result")
			}
		})
	}
}

func TestErrorIs(t *testing.T) {
	cases := map[string]struct {
		a      *Error
		b      error
		wantIs bool
	}{
		"instance of the same error": {
			a:      ErrNotFound,
			b:      ErrNotFound,
			wantIs: true,
		},
		"two different coded errors": {
			a:      ErrNotFound,
			b:      ErrInvalidModel,
			wantIs: false,
		},
		"successful comparison to a wrapped error": {
			a:      ErrNotFound,
			b:      Wrap(ErrNotFound, "gone"),
			wantIs: true,
		},
		"comparison through pkg errors wrapping": {
			a:      ErrInsufficientBalance,
			b:      errors.Wrap(ErrInsufficientBalance, "short"),
			wantIs: true,
		},
		"unsuccessful comparison to a wrapped error": {
			a:      ErrNotFound,
			b:      Wrap(ErrOverflow, "too big"),
			wantIs: false,
		},
		"not equal to stdlib error": {
			a:      ErrNotFound,
			b:      fmt.Errorf("stdlib error"),
			wantIs: false,
		},
		"nil is nil": {
			a:      nil,
			b:      nil,
			wantIs: true,
		},
		"nil is any error nil": {
			a:      nil,
			b:      (*customError)(nil),
			wantIs: true,
		},
		"nil is not not-nil": {
			a:      nil,
			b:      ErrNotFound,
			wantIs: false,
		},
		"not-nil is not nil": {
			a:      ErrNotFound,
			b:      nil,
			wantIs: false,
		},
		"multi error with the same error": {
			a:      ErrNotFound,
			b:      Append(ErrInvalidState, ErrNotFound),
			wantIs: true,
		},
		"multi error with wrapped error": {
			a:      ErrNotFound,
			b:      Append(ErrInvalidState, Wrap(ErrNotFound, "test")),
			wantIs: true,
		},
		"multi error with different errors": {
			a:      ErrNotFound,
			b:      Append(ErrInvalidState, ErrOverflow),
			wantIs: false,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if got := tc.a.Is(tc.b); got != tc.wantIs {
				t.Fatalf("unexpected result - got:%v want: %v", got, tc.wantIs)
			}
		})
	}
}

type customError struct {
}

func (customError) Error() string {
	return "custom error"
}

func TestWrapEmpty(t *testing.T) {
	if err := Wrap(nil, "wrapping <nil>"); err != nil {
		t.Fatal(err)
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("panic expected")
		}
	}()
	Register(ErrNotFound.code, "second not found")
}

func TestRecover(t *testing.T) {
	run := func() (err error) {
		defer Recover(&err)
		panic("boom")
	}
	err := run()
	if !ErrPanic.Is(err) {
		t.Fatalf("want panic error, got %+v", err)
	}
}

func TestAppend(t *testing.T) {
	if err := Append(nil, nil); err != nil {
		t.Fatalf("want nil, got %v", err)
	}
	if err := Append(nil, ErrEmpty); err != ErrEmpty {
		t.Fatalf("single error must be returned as is, got %v", err)
	}

	err := Append(ErrEmpty, Append(ErrInvalidInput, ErrOverflow))
	errs := err.(unpacker).Unpack()
	if len(errs) != 3 {
		t.Fatalf("want flattened collection of 3, got %d", len(errs))
	}
	if code, _ := ABCIInfo(err, false); code != ErrEmpty.code {
		t.Fatalf("want code of the first error, got %d", code)
	}

	err = AppendField(nil, "Owner", nil)
	if err != nil {
		t.Fatalf("want nil, got %v", err)
	}
	err = AppendField(err, "Owner", ErrEmpty)
	if !ErrEmpty.Is(err) {
		t.Fatalf("want empty error, got %v", err)
	}
}

func TestLedgerCodes(t *testing.T) {
	// clients match on these codes, they must never change
	cases := map[uint32]*Error{
		2:  ErrUnauthorized,
		3:  ErrNotFound,
		10: ErrInvalidState,
		12: ErrInsufficientBalance,
		13: ErrInvalidAmount,
		16: ErrOverflow,
		17: ErrDatabase,
		18: ErrDerivationExhausted,
	}
	for want, err := range cases {
		code, log := ABCIInfo(Wrap(err, "escrow"), false)
		if code != want {
			t.Errorf("%q: want code %d, got %d", err.desc, want, code)
		}
		if log != "escrow: "+err.desc {
			t.Errorf("%q: unexpected log %q", err.desc, log)
		}
	}
}
