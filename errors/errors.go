/*
Package errors defines the failure kinds of the swap ledger.

A transaction either moves wallets, token accounts and escrow records
to their new state or leaves them untouched. When it is rejected, the
returned error wraps one of the root errors declared here or by an
extension through Register. The root error carries the ABCI code, so a
client can tell a missing signature from a short balance or an already
settled escrow without parsing the log.

Wrap adds context on the way up and keeps the root error reachable
through Is. Append and AppendField collect every problem of a message or
model, so Validate reports all broken fields at once.
*/
package errors

import (
	"fmt"
	"reflect"

	"github.com/pkg/errors"
)

var (
	// ErrUnauthorized is returned when the signer of a transaction does
	// not own the wallet, account or escrow it tries to move.
	ErrUnauthorized = Register(2, "unauthorized")

	// ErrNotFound is returned when a wallet, account, mint or escrow
	// record referenced by a transaction does not exist.
	ErrNotFound = Register(3, "not found")

	// ErrInvalidMsg is returned for a transaction that carries no message
	// or one no handler accepts.
	ErrInvalidMsg = Register(4, "invalid message")

	// ErrInvalidModel is returned when a stored record is malformed and
	// cannot be persisted or decoded.
	ErrInvalidModel = Register(5, "invalid model")

	// ErrDuplicate is returned when an address or index entry is already
	// taken.
	ErrDuplicate = Register(6, "duplicate")

	// ErrHuman marks a code path that correct wiring never reaches.
	ErrHuman = Register(7, "coding error")

	// ErrEmpty is returned when a required field is missing.
	ErrEmpty = Register(9, "value is empty")

	// ErrInvalidState is returned when a record is not in a state that
	// allows the operation, for example closing an account that still
	// holds tokens.
	ErrInvalidState = Register(10, "invalid state")

	// ErrInvalidType is returned when a message or model is not of the
	// expected type.
	ErrInvalidType = Register(11, "invalid type")

	// ErrInsufficientBalance is returned when a wallet or token account
	// does not hold enough to cover a transfer or a storage deposit.
	ErrInsufficientBalance = Register(12, "insufficient balance")

	// ErrInvalidAmount is returned for a zero or otherwise unusable
	// amount.
	ErrInvalidAmount = Register(13, "invalid amount")

	// ErrInvalidInput is returned for malformed addresses, ids and other
	// input that fails a format check.
	ErrInvalidInput = Register(14, "invalid input")

	// ErrOverflow is returned when crediting an amount would exceed the
	// range of a balance or a mint supply.
	ErrOverflow = Register(16, "an operation cannot be completed due to value overflow")

	// ErrDatabase is returned when the underlying store fails.
	ErrDatabase = Register(17, "database")

	// ErrDerivationExhausted is returned when no bump produces a usable
	// derived authority for the given seeds.
	ErrDerivationExhausted = Register(18, "derivation exhausted")

	// ErrPanic is only set when we recover from a panic, so we know to
	// redact potentially sensitive system info
	ErrPanic = Register(111222, "panic")
)

// Register declares a root error under code. Reusing a code panics, so
// call it only from package initialization.
func Register(code uint32, description string) *Error {
	if e, ok := usedCodes[code]; ok {
		panic(fmt.Sprintf("error with code %d is already registered: %q", code, e.desc))
	}
	err := &Error{
		code: code,
		desc: description,
	}
	usedCodes[err.code] = err
	return err
}

// usedCodes holds every registered root error by code.
var usedCodes = map[uint32]*Error{
	1: {code: 1, desc: internalABCILog}, // Error code 1 is restricted for non-registered errors and must not be used.
}

// Error represents a root error.
//
// Every rejected transaction is categorized by the root error it wraps.
// The escrow extension declares its own, like ErrAlreadyInitialized,
// through Register so that codes stay unique.
type Error struct {
	code uint32
	desc string
}

func (e Error) Error() string {
	return e.desc
}

func (e Error) ABCICode() uint32 {
	return e.code
}

// New returns an error with e as its root cause. It is the same as
// Wrap(e, description).
func (e *Error) New(description string) error {
	return Wrap(e, description)
}

// Newf is New with a formatted description.
func (e *Error) Newf(description string, args ...interface{}) error {
	return e.New(fmt.Sprintf(description, args...))
}

// Is reports whether err has e as its root. Wrapped errors are unwrapped
// through Cause and a group matches when any of its members does.
func (e *Error) Is(err error) bool {
	if e == nil {
		return errIsNil(err)
	}

	for {
		if err == e {
			return true
		}

		if u, ok := err.(unpacker); ok {
			for _, er := range u.Unpack() {
				if e.Is(er) {
					return true
				}
			}
		}

		if c, ok := err.(causer); ok {
			err = c.Cause()
		} else {
			return false
		}
	}
}

// Wrap adds description to err. An error without an ABCI code is reported
// to clients as internal. Wrapping nil returns nil.
func Wrap(err error, description string) error {
	if err == nil {
		return nil
	}

	// Attach a stack trace once, at the innermost wrap.
	if stackTrace(err) == nil {
		err = errors.WithStack(err)
	}

	return &wrappedError{
		parent: err,
		msg:    description,
	}
}

// Wrapf is Wrap with a formatted description.
func Wrapf(err error, format string, args ...interface{}) error {
	desc := fmt.Sprintf(format, args...)
	return Wrap(err, desc)
}

type wrappedError struct {
	// This error layer description.
	msg string
	// The underlying error that triggered this one.
	parent error
}

func (e *wrappedError) Error() string {
	return fmt.Sprintf("%s: %s", e.msg, e.parent.Error())
}

func (e *wrappedError) Cause() error {
	return e.parent
}

// Recover turns a panic into an ErrPanic assigned to err. It must be
// deferred.
func Recover(err *error) {
	if r := recover(); r != nil {
		*err = Wrapf(ErrPanic, "%v", r)
	}
}

// WithType wraps err with the type name of obj.
func WithType(err error, obj interface{}) error {
	return Wrap(err, fmt.Sprintf("%T", obj))
}

// causer is implemented by wrapped errors.
type causer interface {
	Cause() error
}

type unpacker interface {
	Unpack() []error
}

// stackTrace returns the trace attached anywhere in the chain of err, or
// nil.
func stackTrace(err error) errors.StackTrace {
	type stackTracer interface {
		StackTrace() errors.StackTrace
	}

	for {
		if st, ok := err.(stackTracer); ok {
			return st.StackTrace()
		}

		if c, ok := err.(causer); ok {
			err = c.Cause()
		} else {
			return nil
		}
	}
}

// errIsNil also treats a typed nil pointer as nil, as returned by table
// tests declaring an *Error field.
func errIsNil(err error) bool {
	if err == nil {
		return true
	}
	if val := reflect.ValueOf(err); val.Kind() == reflect.Ptr {
		return val.IsNil()
	}
	return false
}
