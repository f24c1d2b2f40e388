package popup

import "sheetclick/internal/domain/entity"

type NativeResult int

const (
	NativeNone NativeResult = iota
	NativeAccepted
	NativeFailed
)

func (r NativeResult) String() string {
	switch r {
	case NativeAccepted:
		return "accepted"
	case NativeFailed:
		return "failed"
	default:
		return "none"
	}
}

type DOMResult int

const (
	DOMNone DOMResult = iota
	DOMConfirmed
	DOMCanceled
	DOMNoSurface
	DOMErrored
)

func (r DOMResult) String() string {
	switch r {
	case DOMConfirmed:
		return "confirmed"
	case DOMCanceled:
		return "canceled"
	case DOMNoSurface:
		return "no-surface"
	case DOMErrored:
		return "errored"
	default:
		return "none"
	}
}

// Classify maps the two path results to exactly one outcome. A native
// acceptance wins over anything the DOM path reports.
func Classify(native NativeResult, dom DOMResult) entity.DialogOutcome {
	if native == NativeAccepted {
		return entity.OutcomeNativeAccepted
	}

	switch dom {
	case DOMConfirmed:
		return entity.OutcomeDOMConfirmed
	case DOMCanceled:
		return entity.OutcomeDOMCanceled
	case DOMNoSurface:
		return entity.OutcomeDOMNoSurface
	case DOMErrored:
		return entity.OutcomeDOMError
	default:
		return entity.OutcomeTimedOut
	}
}
