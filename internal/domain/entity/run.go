package entity

import "time"

type RunReport struct {
	RunID      string
	Label      string
	ScopeKind  ScopeKind
	ScopeName  string
	Outcome    DialogOutcome
	Screenshot string
	StartedAt  time.Time
	Duration   time.Duration
}
