package launch

import (
	"fmt"
	"strconv"
	"syscall"
)

// Status is how a child process finished.
type Status struct {
	// Code is the exit value. It is meaningful only when Signaled is false.
	Code int
	// Signal is the terminating signal when Signaled is true.
	Signal   syscall.Signal
	Signaled bool
}

// Exited returns the Status of a normal exit with code.
func Exited(code int) Status {
	return Status{Code: code}
}

// Killed returns the Status of a child terminated by sig.
func Killed(sig syscall.Signal) Status {
	return Status{Signal: sig, Signaled: true}
}

// String renders the status the way the status built-in reports it.
func (s Status) String() string {
	if s.Signaled {
		return fmt.Sprintf("terminated by signal %d", int(s.Signal))
	}
	return fmt.Sprintf("exit value %d", s.Code)
}

// Success reports a zero exit.
func (s Status) Success() bool {
	return !s.Signaled && s.Code == 0
}

// SignalName returns the short name of sig ("INT", "TERM"), or its number
// when the table has no entry.
func SignalName(sig syscall.Signal) string {
	if name, ok := signalNames()[sig]; ok {
		return name
	}
	return strconv.Itoa(int(sig))
}
