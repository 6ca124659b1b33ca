package availability

import (
	"fmt"
	"odonto-service/internal/app/models"
	"sort"
	"strconv"
	"strings"
	"time"
)

var weekOrder = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday, time.Sunday,
}

// parseWorkingHours reads a plan such as
// "mon-fri 09:00-13:00,15:00-20:00; sat 09:00-13:00". Day ranges may wrap
// around the week ("sat-mon") and Spanish day names are accepted.
func parseWorkingHours(spec string) (weeklyPlan, error) {
	plan := make(weeklyPlan)
	for _, entry := range strings.Split(spec, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		fields := strings.Fields(entry)
		if len(fields) != 2 {
			return nil, fmt.Errorf("working hours entry %q must be '<days> <windows>'", entry)
		}

		days, err := parseDays(fields[0])
		if err != nil {
			return nil, err
		}
		windows, err := parseWindows(fields[1])
		if err != nil {
			return nil, err
		}
		for _, day := range days {
			plan[day] = append(plan[day], windows...)
		}
	}

	for day, windows := range plan {
		sort.Slice(windows, func(i, j int) bool { return windows[i].Start.minutes() < windows[j].Start.minutes() })
		plan[day] = windows
	}
	return plan, nil
}

func parseDays(token string) ([]time.Weekday, error) {
	var days []time.Weekday
	for _, part := range strings.Split(token, ",") {
		bounds := strings.SplitN(part, "-", 2)
		first, ok := mapDayToken(bounds[0])
		if !ok {
			return nil, fmt.Errorf("unknown day %q", bounds[0])
		}
		if len(bounds) == 1 {
			days = append(days, first)
			continue
		}

		last, ok := mapDayToken(bounds[1])
		if !ok {
			return nil, fmt.Errorf("unknown day %q", bounds[1])
		}
		days = append(days, dayRange(first, last)...)
	}
	return days, nil
}

func dayRange(first, last time.Weekday) []time.Weekday {
	start := indexOf(first)
	var out []time.Weekday
	for i := 0; i < len(weekOrder); i++ {
		day := weekOrder[(start+i)%len(weekOrder)]
		out = append(out, day)
		if day == last {
			break
		}
	}
	return out
}

func indexOf(day time.Weekday) int {
	for i, d := range weekOrder {
		if d == day {
			return i
		}
	}
	return 0
}

func parseWindows(token string) ([]dayWindow, error) {
	var windows []dayWindow
	for _, part := range strings.Split(token, ",") {
		bounds := strings.SplitN(part, "-", 2)
		if len(bounds) != 2 {
			return nil, fmt.Errorf("window %q must be 'HH:MM-HH:MM'", part)
		}
		start, ok1 := parseClockFlex(bounds[0])
		end, ok2 := parseClockFlex(bounds[1])
		if !ok1 || !ok2 || !validWindow(start, end) {
			return nil, fmt.Errorf("invalid window %q", part)
		}
		windows = append(windows, dayWindow{Start: start, End: end})
	}
	return windows, nil
}

func parseClockFlex(s string) (clock, bool) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ".", ":")
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return clock{}, false
	}
	h, err1 := strconv.Atoi(parts[0])
	m, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || h < 0 || h > 24 || m < 0 || m > 59 || (h == 24 && m != 0) {
		return clock{}, false
	}
	return clock{H: h, M: m}, true
}

func validWindow(a, b clock) bool {
	return a.minutes() < b.minutes()
}

func mapDayToken(s string) (time.Weekday, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mon", "monday", "lun", "lunes":
		return time.Monday, true
	case "tue", "tues", "tuesday", "mar", "martes":
		return time.Tuesday, true
	case "wed", "wednesday", "mie", "mié", "miercoles", "miércoles":
		return time.Wednesday, true
	case "thu", "thur", "thurs", "thursday", "jue", "jueves":
		return time.Thursday, true
	case "fri", "friday", "vie", "viernes":
		return time.Friday, true
	case "sat", "saturday", "sab", "sáb", "sabado", "sábado":
		return time.Saturday, true
	case "sun", "sunday", "dom", "domingo":
		return time.Sunday, true
	}
	return time.Sunday, false
}

// atClock returns the time on day at hour:minute in loc.
func atClock(day time.Time, c clock, loc *time.Location) time.Time {
	d := day.In(loc)
	y, mo, dd := d.Date()
	return time.Date(y, mo, dd, c.H, c.M, 0, 0, loc)
}

func dayWorkIntervals(day time.Time, loc *time.Location, windows []dayWindow) []models.TimeRange {
	out := make([]models.TimeRange, 0, len(windows))
	for _, w := range windows {
		start := atClock(day, w.Start, loc)
		end := atClock(day, w.End, loc)
		if end.After(start) {
			out = append(out, models.TimeRange{Start: start, End: end})
		}
	}
	return out
}

// generateSlotsBetween cuts [start, end) into back to back slots of
// slotMinutes. A trailing remainder shorter than a slot is dropped.
func generateSlotsBetween(start, end time.Time, slotMinutes int) []models.TimeRange {
	if slotMinutes <= 0 {
		return nil
	}
	length := time.Duration(slotMinutes) * time.Minute
	var out []models.TimeRange
	for t := start; !t.Add(length).After(end); t = t.Add(length) {
		out = append(out, models.TimeRange{Start: t, End: t.Add(length)})
	}
	return out
}

func overlapsAny(slot models.TimeRange, busy []models.TimeRange) bool {
	for _, b := range busy {
		if slot.Overlaps(b) {
			return true
		}
	}
	return false
}
