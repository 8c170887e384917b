package domain

import "time"

type Urgency string

const (
	UrgencyNormal   Urgency = "normal"
	UrgencyUrgent   Urgency = "urgent"
	UrgencyCritical Urgency = "critical"
)

const (
	urgentAfterMinutes   = 10
	criticalAfterMinutes = 15
)

// WaitMinutes is the whole number of minutes the order has been waiting
// since creation. Non-decreasing while the order stays active.
func WaitMinutes(o Order, now time.Time) int {
	return int(now.Sub(o.CreatedAt) / time.Minute)
}

// ClassifyUrgency buckets a wait time for kitchen display prioritisation.
func ClassifyUrgency(waitMinutes int) Urgency {
	switch {
	case waitMinutes >= criticalAfterMinutes:
		return UrgencyCritical
	case waitMinutes >= urgentAfterMinutes:
		return UrgencyUrgent
	default:
		return UrgencyNormal
	}
}

// DisplayRank orders urgencies for display: critical first, normal last.
func (u Urgency) DisplayRank() int {
	switch u {
	case UrgencyCritical:
		return 0
	case UrgencyUrgent:
		return 1
	default:
		return 2
	}
}
