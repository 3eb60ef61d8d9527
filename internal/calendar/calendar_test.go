package calendar

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestIsWorkingDay(t *testing.T) {
	tests := []struct {
		day  time.Time
		want bool
	}{
		{date(2025, time.August, 25), true},  // Monday
		{date(2025, time.August, 29), true},  // Friday
		{date(2025, time.August, 30), false}, // Saturday
		{date(2025, time.August, 31), false}, // Sunday
	}
	for _, tt := range tests {
		if got := IsWorkingDay(tt.day); got != tt.want {
			t.Errorf("IsWorkingDay(%s) = %v, want %v", tt.day.Format("2006-01-02"), got, tt.want)
		}
	}
}

func TestSalaryDate(t *testing.T) {
	tests := []struct {
		name  string
		year  int
		month time.Month
		want  time.Time
	}{
		// August 2025 ends on a Sunday; the last three working days are
		// Fri 29, Thu 28, Wed 27.
		{"month ending on Sunday", 2025, time.August, date(2025, time.August, 27)},
		// September 2025 ends on a Tuesday, a plain working-day run.
		{"month ending on working day", 2025, time.September, date(2025, time.September, 26)},
		// January 2026 ends on a Saturday.
		{"month ending on Saturday", 2026, time.January, date(2026, time.January, 28)},
		{"May 2026", 2026, time.May, date(2026, time.May, 27)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := SalaryDate(tt.year, tt.month)
			if !ok {
				t.Fatalf("SalaryDate(%d, %s) reported no date", tt.year, tt.month)
			}
			if !got.Equal(tt.want) {
				t.Fatalf("SalaryDate(%d, %s) = %s, want %s",
					tt.year, tt.month, got.Format("2006-01-02"), tt.want.Format("2006-01-02"))
			}
		})
	}
}

func TestNthLastWorkingDayBounds(t *testing.T) {
	if _, ok := NthLastWorkingDay(2026, time.February, 0); ok {
		t.Fatal("n=0 should report no date")
	}
	// February 2026 has 20 working days.
	if _, ok := NthLastWorkingDay(2026, time.February, 25); ok {
		t.Fatal("n larger than month's working days should report no date")
	}
	got, ok := NthLastWorkingDay(2026, time.February, 1)
	if !ok || !got.Equal(date(2026, time.February, 27)) {
		t.Fatalf("last working day of Feb 2026 = %s, ok=%v, want 2026-02-27", got.Format("2006-01-02"), ok)
	}
}

func TestEndOfMonth(t *testing.T) {
	tests := []struct {
		in   time.Time
		want time.Time
	}{
		{date(2025, time.August, 1), date(2025, time.August, 31)},
		{date(2025, time.August, 31), date(2025, time.August, 31)},
		// December rolls over the year boundary.
		{date(2025, time.December, 15), date(2025, time.December, 31)},
		{date(2026, time.February, 10), date(2026, time.February, 28)},
		{date(2028, time.February, 1), date(2028, time.February, 29)}, // leap year
	}
	for _, tt := range tests {
		if got := EndOfMonth(tt.in); !got.Equal(tt.want) {
			t.Errorf("EndOfMonth(%s) = %s, want %s",
				tt.in.Format("2006-01-02"), got.Format("2006-01-02"), tt.want.Format("2006-01-02"))
		}
	}
}

func TestMonthKey(t *testing.T) {
	if got := MonthKey(date(2025, time.August, 31)); got != "2025-08" {
		t.Fatalf("MonthKey = %q, want 2025-08", got)
	}
}

func TestOnOrAfterDay(t *testing.T) {
	salaryDate := date(2025, time.August, 27) // UTC midnight
	west := time.FixedZone("UTC-5", -5*3600)
	east := time.FixedZone("UTC+2", 2*3600)

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"UTC same day", time.Date(2025, time.August, 27, 0, 0, 0, 0, time.UTC), true},
		{"UTC day before", time.Date(2025, time.August, 26, 23, 59, 0, 0, time.UTC), false},
		// 23:00 UTC-5 is past the UTC midnight instant but still the 26th locally.
		{"west evening before", time.Date(2025, time.August, 26, 23, 0, 0, 0, west), false},
		// 00:30 UTC+2 is before the UTC midnight instant but already the 27th locally.
		{"east early morning on", time.Date(2025, time.August, 27, 0, 30, 0, 0, east), true},
		{"next month", time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC), true},
		{"previous year", time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := OnOrAfterDay(tt.now, salaryDate); got != tt.want {
				t.Fatalf("OnOrAfterDay(%s, %s) = %v, want %v",
					tt.now, salaryDate.Format("2006-01-02"), got, tt.want)
			}
		})
	}
}

func TestSameDay(t *testing.T) {
	a := time.Date(2025, time.August, 31, 9, 30, 0, 0, time.UTC)
	b := time.Date(2025, time.August, 31, 23, 59, 0, 0, time.UTC)
	if !SameDay(a, b) {
		t.Fatal("same calendar day with different times should match")
	}
	if SameDay(a, date(2025, time.September, 1)) {
		t.Fatal("different days should not match")
	}
}
