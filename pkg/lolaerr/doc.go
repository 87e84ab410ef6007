/*
Package lolaerr defines the error kinds surfaced across the LoLa binding
façades (spec §6's error table). Every façade failure carries one Kind
(KindBindingFailure covers several lower-layer causes) so callers can
branch with errors.Is instead of matching on error strings, the way the teacher's pkg/api and pkg/manager wrap
sentinel errors with fmt.Errorf("...: %w", ...) for context while keeping
errors.Is/errors.As working through the chain.
*/
package lolaerr
