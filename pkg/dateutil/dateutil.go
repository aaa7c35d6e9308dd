package dateutil

import (
	"time"
)

// Age calculates the age in whole years at a given date
func Age(birthDate, atDate time.Time) int {
	age := atDate.Year() - birthDate.Year()
	if atDate.Month() < birthDate.Month() ||
		(atDate.Month() == birthDate.Month() && atDate.Day() < birthDate.Day()) {
		age--
	}
	return age
}

// StartOfDay returns midnight of the given date in its own location
func StartOfDay(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
}

// EndOfDay returns 23:59:59.999 of the given date in its own location
func EndOfDay(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 23, 59, 59, 999*int(time.Millisecond), date.Location())
}

// ISOWeekday returns the weekday numbered Monday = 1 through Sunday = 7
func ISOWeekday(date time.Time) int {
	wd := int(date.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

// StartOfWeek returns midnight of the Monday of the week containing date
func StartOfWeek(date time.Time) time.Time {
	return AddDays(StartOfDay(date), -(ISOWeekday(date) - 1))
}

// EndOfWeek returns 23:59:59.999 of the Sunday of the week containing date
func EndOfWeek(date time.Time) time.Time {
	return EndOfDay(AddDays(StartOfWeek(date), 6))
}

// AddDays adds calendar days, keeping the wall-clock time across DST changes
func AddDays(date time.Time, days int) time.Time {
	return date.AddDate(0, 0, days)
}

// DaysBetween counts calendar days from fromDate to toDate, ignoring the time
// of day. toDate is read in fromDate's location. The result is negative when
// toDate falls on an earlier day.
func DaysBetween(fromDate, toDate time.Time) int {
	toDate = toDate.In(fromDate.Location())
	a := time.Date(fromDate.Year(), fromDate.Month(), fromDate.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(toDate.Year(), toDate.Month(), toDate.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}

// FloorDiv divides rounding toward negative infinity
func FloorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
