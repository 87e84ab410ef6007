package liveness

import (
	"errors"

	"golang.org/x/sys/unix"
)

// Oracle answers whether a PID is currently alive.
type Oracle interface {
	IsAlive(pid uint32) bool
}

// unixOracle sends signal 0 to a PID, which the kernel validates without
// delivering any signal: ESRCH means the process is gone, EPERM means it
// exists but is owned by someone else (still alive), and nil means alive
// and signalable.
type unixOracle struct{}

// New returns the POSIX kill(pid, 0) liveness oracle.
func New() Oracle { return unixOracle{} }

func (unixOracle) IsAlive(pid uint32) bool {
	if pid == 0 {
		return false
	}
	err := unix.Kill(int(pid), 0)
	if err == nil {
		return true
	}
	return errors.Is(err, unix.EPERM)
}
