package errors

import (
	"fmt"
	"strings"
)

// Append clubs together all provided errors. Nil values are ignored.
//
// If no non-nil error is given, nil is returned. A single error is
// returned unchanged. Otherwise a collection is returned whose ABCI code
// and cause are those of the first error, consistent with a fail-fast
// approach.
func Append(errs ...error) error {
	var res multiErr
	for _, e := range errs {
		if errIsNil(e) {
			continue
		}
		if m, ok := e.(multiErr); ok {
			res = append(res, m...)
			continue
		}
		res = append(res, e)
	}
	switch len(res) {
	case 0:
		return nil
	case 1:
		return res[0]
	default:
		return res
	}
}

// AppendField is Append with the error of a single field labeled by the
// field name.
func AppendField(errs error, field string, err error) error {
	if errIsNil(err) {
		return errs
	}
	return Append(errs, Wrap(err, field))
}

type multiErr []error

var _ unpacker = multiErr(nil)
var _ coder = multiErr(nil)
var _ causer = multiErr(nil)

func (errs multiErr) Error() string {
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = fmt.Sprintf("* %s", e)
	}
	return fmt.Sprintf("%d errors occurred:\n\t%s", len(errs), strings.Join(msgs, "\n\t"))
}

// Unpack returns all grouped errors.
func (errs multiErr) Unpack() []error {
	return errs
}

// ABCICode returns the code of the first error.
func (errs multiErr) ABCICode() uint32 {
	return abciCode(errs[0])
}

// Cause returns the first error.
func (errs multiErr) Cause() error {
	return errs[0]
}
