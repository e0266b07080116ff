package core

import (
	"fmt"
	"time"
)

// MonthKey identifies a calendar month. Keys compare chronologically.
type MonthKey struct {
	Year  int
	Month time.Month
}

// MonthOf returns the calendar month of t in t's own location.
func MonthOf(t time.Time) MonthKey {
	return MonthKey{Year: t.Year(), Month: t.Month()}
}

// Prev returns the preceding month, rolling January back to December.
func (k MonthKey) Prev() MonthKey {
	if k.Month == time.January {
		return MonthKey{Year: k.Year - 1, Month: time.December}
	}
	return MonthKey{Year: k.Year, Month: k.Month - 1}
}

func (k MonthKey) Before(o MonthKey) bool {
	if k.Year != o.Year {
		return k.Year < o.Year
	}
	return k.Month < o.Month
}

// Compare returns -1, 0 or +1, suitable for slices.SortFunc.
func (k MonthKey) Compare(o MonthKey) int {
	switch {
	case k.Before(o):
		return -1
	case o.Before(k):
		return 1
	default:
		return 0
	}
}

// String renders "2024-03".
func (k MonthKey) String() string {
	return fmt.Sprintf("%04d-%02d", k.Year, int(k.Month))
}

// ShortLabel renders "Mar 24".
func (k MonthKey) ShortLabel() string {
	return fmt.Sprintf("%s %02d", k.Month.String()[:3], k.Year%100)
}

// MonthLabel renders "Mar".
func (k MonthKey) MonthLabel() string {
	return k.Month.String()[:3]
}

// LongLabel renders "March 2024".
func (k MonthKey) LongLabel() string {
	return fmt.Sprintf("%s %d", k.Month.String(), k.Year)
}
