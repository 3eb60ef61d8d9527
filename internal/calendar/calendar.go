// Package calendar provides the date arithmetic behind the monthly balance
// triggers: working-day scans, salary-date computation and end-of-month
// detection. Working days are Monday through Friday, holidays are ignored.
package calendar

import "time"

// IsWorkingDay reports whether t falls on Monday through Friday.
func IsWorkingDay(t time.Time) bool {
	wd := t.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

// NthLastWorkingDay scans backward from the last calendar day of the month,
// counting working days, and returns the date at which the count reaches n.
// The second return value is false when the month has fewer than n working
// days.
func NthLastWorkingDay(year int, month time.Month, n int) (time.Time, bool) {
	if n < 1 {
		return time.Time{}, false
	}
	day := EndOfMonth(time.Date(year, month, 1, 0, 0, 0, 0, time.UTC))
	count := 0
	for day.Month() == month {
		if IsWorkingDay(day) {
			count++
			if count == n {
				return day, true
			}
		}
		day = day.AddDate(0, 0, -1)
	}
	return time.Time{}, false
}

// SalaryDate is the 3rd-last working day of the month.
func SalaryDate(year int, month time.Month) (time.Time, bool) {
	return NthLastWorkingDay(year, month, 3)
}

// EndOfMonth returns the last calendar day of t's month, computed by stepping
// to day 1 of the next month and subtracting one day. Handles the
// December-to-January rollover.
func EndOfMonth(t time.Time) time.Time {
	firstOfNext := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
	return firstOfNext.AddDate(0, 0, -1)
}

// MonthKey renders t as the YYYY-MM idempotency key used by the monthly
// trigger guards.
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}

// SameDay reports whether a and b fall on the same calendar date.
func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// OnOrAfterDay reports whether a's calendar date is on or after b's. Each
// date is read in its own location, so a local wall-clock time compares
// correctly against a UTC-midnight date.
func OnOrAfterDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	if ay != by {
		return ay > by
	}
	if am != bm {
		return am > bm
	}
	return ad >= bd
}
