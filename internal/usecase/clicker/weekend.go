package clicker

import "time"

var kst = time.FixedZone("KST", 9*60*60)

// IsWeekendKST reports whether t falls on a Saturday or Sunday in Korea.
func IsWeekendKST(t time.Time) bool {
	switch t.In(kst).Weekday() {
	case time.Saturday, time.Sunday:
		return true
	default:
		return false
	}
}
