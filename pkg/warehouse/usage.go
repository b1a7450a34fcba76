package warehouse

import (
	"slices"
	"time"
)

// WeekLabelFormat is the layout of week labels in usage charts.
const WeekLabelFormat = "02/01/2006"

// WeeklyCount is the number of times an event fired in one week.
type WeeklyCount struct {
	Week  time.Time
	Event string
	Total int64
}

// Usage is weekly usage pivoted by event. Every series has one entry per
// week in Weeks.
type Usage struct {
	Weeks  []time.Time
	Series map[string][]int64
}

// PivotUsage turns weekly counts into one series per event. Weeks without a
// count for an event are zero. Counts for events not listed are ignored.
func PivotUsage(counts []WeeklyCount, events []string) *Usage {
	var weeks []time.Time
	for _, c := range counts {
		if !slices.ContainsFunc(weeks, c.Week.Equal) {
			weeks = append(weeks, c.Week)
		}
	}
	slices.SortFunc(weeks, func(a, b time.Time) int { return a.Compare(b) })

	u := &Usage{Weeks: weeks, Series: make(map[string][]int64, len(events))}
	for _, e := range events {
		u.Series[e] = make([]int64, len(weeks))
	}
	for _, c := range counts {
		series, ok := u.Series[c.Event]
		if !ok {
			continue
		}
		i := slices.IndexFunc(weeks, c.Week.Equal)
		series[i] += c.Total
	}
	return u
}

// Labels returns the week labels in chart format.
func (u *Usage) Labels() []string {
	labels := make([]string, len(u.Weeks))
	for i, w := range u.Weeks {
		labels[i] = w.Format(WeekLabelFormat)
	}
	return labels
}

// For returns the series of one event, or nil when usage was not fetched.
func (u *Usage) For(event string) []int64 {
	if u == nil {
		return nil
	}
	return u.Series[event]
}
