package zkscffi

import (
	"github.com/wippyai/zksc-ffi/errors"
)

// catch runs fn and converts a contract violation into a returned error.
func catch(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.FromPanic(errors.PhaseWrite, r)
		}
	}()
	fn()
	return nil
}
