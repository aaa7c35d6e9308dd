package calculation

import (
	"iter"
	"time"

	"github.com/lifeweeks/lifeweeks/internal/domain"
	"github.com/lifeweeks/lifeweeks/pkg/dateutil"
)

const daysPerWeek = 7

// WeekIndexAt returns the 0-based week number of at, counted in whole weeks of
// calendar days since dateOfBirth. Dates before birth give negative indexes.
func WeekIndexAt(dateOfBirth, at time.Time) int {
	return dateutil.FloorDiv(dateutil.DaysBetween(dateOfBirth, at), daysPerWeek)
}

// WeekForIndex builds the calendar week (Monday to Sunday) holding the day
// dateOfBirth + 7*weekIndex. Past/current flags are evaluated against now,
// read in dateOfBirth's location.
func WeekForIndex(weekIndex int, dateOfBirth, now time.Time) domain.WeekSpan {
	nominal := dateutil.AddDays(dateOfBirth, daysPerWeek*weekIndex)
	start := dateutil.StartOfWeek(nominal)
	end := dateutil.EndOfWeek(start)
	currentWeekStart := dateutil.StartOfWeek(now.In(dateOfBirth.Location()))

	return domain.WeekSpan{
		StartDate: start,
		EndDate:   end,
		WeekIndex: weekIndex,
		IsPast:    end.Before(currentWeekStart),
		IsCurrent: start.Equal(currentWeekStart),
	}
}

// GenerateWeeks yields the weeks from the one containing startFrom through the
// one containing deathDate, in ascending index order, leaving out weeks that
// are already over. The sequence is empty when deathDate falls in an earlier
// week than startFrom. It may be ranged over any number of times.
//
// Week indexes count from dateOfBirth, so when the birth weekday is not a
// Monday and startFrom falls earlier in its calendar week than that weekday,
// the index of startFrom maps onto the calendar week that just ended. That
// week is skipped, and a deathDate sharing its index yields an empty sequence
// even though deathDate lies in the current calendar week.
func GenerateWeeks(dateOfBirth, deathDate, startFrom time.Time) iter.Seq[domain.WeekSpan] {
	first := WeekIndexAt(dateOfBirth, startFrom)
	last := WeekIndexAt(dateOfBirth, deathDate)

	return func(yield func(domain.WeekSpan) bool) {
		for i := first; i <= last; i++ {
			week := WeekForIndex(i, dateOfBirth, startFrom)
			if week.IsPast {
				continue
			}
			if !yield(week) {
				return
			}
		}
	}
}

// Take collects at most n items from seq; n <= 0 collects everything.
func Take[T any](seq iter.Seq[T], n int) []T {
	out := []T{}
	for v := range seq {
		out = append(out, v)
		if n > 0 && len(out) >= n {
			break
		}
	}
	return out
}
