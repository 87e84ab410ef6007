package lolaerr

import "fmt"

// Kind is one of the binding-level failure categories from spec §6.
type Kind int

const (
	// KindNotOffered: Send/Allocate/Subscribe attempted before Offer.
	KindNotOffered Kind = iota
	// KindBindingFailure: a lower-layer failure the façade cannot recover
	// from in place (QM misbehavior, TLS exhaustion, ABI mismatch, ...).
	KindBindingFailure
	// KindSampleAllocationFailure: AllocateNextSlot found no free slot.
	KindSampleAllocationFailure
	// KindFieldValueIsNotValid: GetValue on a Field never Updated.
	KindFieldValueIsNotValid
	// KindInvalidBindingInformation: the service instance deployment
	// descriptor is malformed or incomplete.
	KindInvalidBindingInformation
	// KindInstanceIDCouldNotBeResolved: a wildcard/"any instance" lookup
	// found no matching offered instance.
	KindInstanceIDCouldNotBeResolved
	// KindFindServiceHandlerFailure: a registered FindService callback
	// itself returned an error.
	KindFindServiceHandlerFailure
	// KindInvalidHandle: a handle (SampleAllocateePtr, subscription
	// token, ...) was used after being dropped or from the wrong owner.
	KindInvalidHandle
)

func (k Kind) String() string {
	switch k {
	case KindNotOffered:
		return "kNotOffered"
	case KindBindingFailure:
		return "kBindingFailure"
	case KindSampleAllocationFailure:
		return "kSampleAllocationFailure"
	case KindFieldValueIsNotValid:
		return "kFieldValueIsNotValid"
	case KindInvalidBindingInformation:
		return "kInvalidBindingInformation"
	case KindInstanceIDCouldNotBeResolved:
		return "kInstanceIDCouldNotBeResolved"
	case KindFindServiceHandlerFailure:
		return "kFindServiceHandlerFailure"
	case KindInvalidHandle:
		return "kInvalidHandle"
	default:
		return "kUnknown"
	}
}

// Error wraps a Kind with context and an optional underlying cause,
// supporting errors.Is(err, SomeKind) via Is and errors.As via Unwrap.
type Error struct {
	Kind    Kind
	Op      string // the operation that failed, e.g. "Send", "Subscribe"
	Event   string // the event/field name involved, if any
	Cause   error
	Message string
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("lola: %s %s: %s: %v", e.Op, e.Event, e.Kind, e.Cause)
	}
	if e.Message != "" {
		return fmt.Sprintf("lola: %s %s: %s: %s", e.Op, e.Event, e.Kind, e.Message)
	}
	return fmt.Sprintf("lola: %s %s: %s", e.Op, e.Event, e.Kind)
}

func (e *Error) Unwrap() error { return e.Cause }

// Is allows errors.Is(err, lolaerr.New(KindX, "", "", nil)) style matching
// by Kind alone, and also lets errors.Is(err, SomeSentinelKind)-shaped
// comparisons work against a bare *Error carrying no Cause.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// New builds an Error. cause may be nil.
func New(kind Kind, op, event string, cause error) *Error {
	return &Error{Kind: kind, Op: op, Event: event, Cause: cause}
}

// Newf builds an Error with a formatted message instead of a wrapped cause.
func Newf(kind Kind, op, event, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Event: event, Message: fmt.Sprintf(format, args...)}
}
