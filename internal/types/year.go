package types

import "time"

// Year is a calendar year. It selects the window for yearly ledger
// aggregates, most importantly the annual savings figure goals are
// funded from.
type Year int

// YearOf returns the Year a time occurs in, in that time's location.
func YearOf(t time.Time) Year {
	return Year(t.Year())
}

// First returns the first instant of the year in UTC.
func (y Year) First() time.Time {
	return time.Date(int(y), time.January, 1, 0, 0, 0, 0, time.UTC)
}

// Next returns the year after y.
func (y Year) Next() Year {
	return y + 1
}

// Contains reports whether the time instant is in the year.
func (y Year) Contains(t time.Time) bool {
	return t.Year() == int(y)
}
