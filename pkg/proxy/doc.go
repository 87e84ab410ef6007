/*
Package proxy implements the subscriber-side typed façade of component
C8: Event[T] wraps a binding.ProxyEventBinding behind Subscribe and
GetNewSamples, and Field[T] adds the "has it ever been Updated" validity
check SPEC_FULL.md §3 supplements from the original's proxy_field.

GetNewSamples is the pull-style API spec §4.8 describes: it drives
ReferenceNextEvent in a loop, invoking the caller's callback with a
borrowed (not owned) view of each sample and Dereferencing immediately
after the callback returns, so a caller that wants to retain a sample must
copy it out inside the callback.
*/
package proxy
