package entity

type DialogOutcome string

// Outcomes are listed in precedence order: when both paths report,
// the earlier one wins.
const (
	OutcomeNativeAccepted DialogOutcome = "native-accepted"
	OutcomeDOMConfirmed   DialogOutcome = "dom-confirmed"
	OutcomeDOMCanceled    DialogOutcome = "dom-canceled"
	OutcomeDOMNoSurface   DialogOutcome = "dom-no-surface"
	OutcomeDOMError       DialogOutcome = "dom-error"
	OutcomeTimedOut       DialogOutcome = "timed-out"
)

var AllOutcomes = []DialogOutcome{
	OutcomeNativeAccepted,
	OutcomeDOMConfirmed,
	OutcomeDOMCanceled,
	OutcomeDOMNoSurface,
	OutcomeDOMError,
	OutcomeTimedOut,
}

func (o DialogOutcome) String() string {
	return string(o)
}

// Precedence returns the rank of the outcome, 0 being the strongest.
// Unknown values rank after every known outcome.
func (o DialogOutcome) Precedence() int {
	for i, known := range AllOutcomes {
		if known == o {
			return i
		}
	}
	return len(AllOutcomes)
}

func (o DialogOutcome) Valid() bool {
	return o.Precedence() < len(AllOutcomes)
}
