package availability

import "time"

// clock holds a local wall time (hour and minute).
type clock struct {
	H int
	M int
}

func (c clock) minutes() int {
	return c.H*60 + c.M
}

// dayWindow is a wall-clock window of one day, start inclusive, end exclusive.
type dayWindow struct {
	Start clock
	End   clock
}

// weeklyPlan lists the opening windows of each weekday.
type weeklyPlan map[time.Weekday][]dayWindow

func (wp weeklyPlan) forWeekday(wd time.Weekday) []dayWindow {
	return wp[wd]
}
