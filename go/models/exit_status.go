package models

import (
	"fmt"

	"github.com/pkg/errors"
)

// ExitStatus is returned by an Emulator when the emulated program halts.
type ExitStatus int

func (e ExitStatus) Error() string {
	return fmt.Sprintf("exit %d", e)
}

// IsExit reports whether err (or its cause) is an ExitStatus.
func IsExit(err error) (ExitStatus, bool) {
	status, ok := errors.Cause(err).(ExitStatus)
	return status, ok
}
