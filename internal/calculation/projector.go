package calculation

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/lifeweeks/lifeweeks/pkg/dateutil"
)

// daysPerYear averages leap years into a single year length.
var daysPerYear = decimal.NewFromFloat(365.25)

// LifeExpectancyDays converts a life expectancy in years to whole days,
// rounding half away from zero.
func LifeExpectancyDays(yearsAtBirth float64) int {
	return int(decimal.NewFromFloat(yearsAtBirth).Mul(daysPerYear).Round(0).IntPart())
}

// ProjectDeathDate projects the end-of-life date for someone born on
// dateOfBirth with the given life expectancy at birth. Inputs are assumed
// to be validated by the caller.
func ProjectDeathDate(dateOfBirth time.Time, yearsAtBirth float64) time.Time {
	return dateutil.AddDays(dateOfBirth, LifeExpectancyDays(yearsAtBirth))
}
