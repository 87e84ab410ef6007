// Package integration holds the one build-tagged test (tag "integration")
// that proves pkg/shmarena's offset-pointer design is genuinely
// multi-process-shared-memory-safe, not merely "two views of the same Go
// slice": it mmaps a real tmpfile twice via independent unix.Mmap calls
// (simulating two separate process address spaces) and checks that an
// atomic store through one mapping is observed through the other.
//
// Every other test in this module runs an in-process arena backed by a
// plain make([]byte, n), which is sufficient to exercise the EDC/EDCC/TLS
// state machines but does not, by itself, prove the arena's offset
// addressing survives a real OS shared-memory mapping. This package
// closes that gap; it is excluded from the default `go test ./...` run
// because it requires a POSIX mmap-capable filesystem (os.CreateTemp's
// default directory) and is unnecessary on every CI run that already
// exercises the arena logic in-process.
package integration
