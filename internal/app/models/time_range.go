package models

import "time"

// TimeRange is a half open interval [Start, End).
type TimeRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (r TimeRange) Overlaps(other TimeRange) bool {
	return r.Start.Before(other.End) && other.Start.Before(r.End)
}

func (t Turno) Range() TimeRange {
	return TimeRange{Start: t.Start, End: t.End}
}
