/*
Package liveness answers one question for the Slot Collector: is the PID
that owns a transaction log entry still alive? It is the Go-native
equivalent of the spec's "OS-specific process liveness oracle" — on POSIX
systems, sending signal 0 to a PID reports whether the process exists
without affecting it.

This is the one non-test package that reaches past the standard library
into OS-level primitives (golang.org/x/sys/unix), because os.FindProcess
cannot distinguish "not running" from "running, no permission" the way
kill(pid, 0) can.
*/
package liveness
