/*
Package shmarena implements the fixed, ABI-stable shared-memory arena layout
(component C6): offset-based addressing for the control and data regions a
publisher constructs and subscribers attach to, plus the ElementFqId
identifier format and the shared-memory object naming scheme from spec §6.

# Why offsets, not pointers

Two processes map the same shared-memory object at independent virtual
addresses. A Go pointer embedded in that memory would be meaningless to the
other process; an integer byte offset from the region's own base is not.
Arena is the thin layer that turns "offset N in this region" into a typed Go
value — in-process, via unsafe.Pointer arithmetic over the mapped []byte,
exactly the way offset-based shared-memory ABIs are implemented outside of
Go's normal pointer-safety guarantees. This is the one package in the module
that uses unsafe for layout; the only other uses of unsafe are the typed
façades (pkg/skeleton, pkg/proxy) viewing a payload cell as their sample
type.

Arena does not itself create or map shared memory (the OS primitive is out
of scope per spec §1) — it is handed an already-backing []byte (in
production, a byte slice aliasing an mmap'd region; in tests, a plain
make([]byte, n)) and only knows how to lay out and address typed records
inside it.

# Object naming

	Data:         lola-data-<service_id:016x>-<instance_id:05d>
	QM control:   lola-ctl-<service_id:016x>-<instance_id:05d>
	ASIL control: lola-ctl-<service_id:016x>-<instance_id:05d>-b
*/
package shmarena
