package output

import (
	"bytes"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/lifeweeks/lifeweeks/internal/domain"
)

// ConsoleFormatter renders a human readable report.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console" }

func (c ConsoleFormatter) Format(report *Report) ([]byte, error) {
	var buf bytes.Buffer

	if s := report.State; s != nil {
		fmt.Fprintln(&buf, "LIFE PROJECTION")
		fmt.Fprintln(&buf, "================================")
		fmt.Fprintf(&buf, "Date of birth:     %s\n", formatDate(s.DateOfBirth))
		fmt.Fprintf(&buf, "Country:           %s\n", formatString(s.CountryCode))
		fmt.Fprintf(&buf, "Life expectancy:   %s\n", formatYears(s.LifeExpectancyYears))
		fmt.Fprintf(&buf, "Projected end:     %s\n", formatDate(s.DeathDate))
		fmt.Fprintf(&buf, "Last calculated:   %s", formatTimestamp(s.LastCalculatedAt))
		if s.LastCalculatedAt != nil && !s.IsCalculationFresh(report.GeneratedAt) {
			fmt.Fprint(&buf, " (stale)")
		}
		fmt.Fprintln(&buf)
		fmt.Fprintln(&buf)
	}

	if st := report.Stats; st != nil {
		fmt.Fprintln(&buf, "STATISTICS")
		fmt.Fprintln(&buf, "================================")
		fmt.Fprintf(&buf, "Current age:       %d\n", st.CurrentAge)
		fmt.Fprintf(&buf, "Weeks lived:       %d of %d\n", st.WeeksLived, st.TotalWeeks)
		fmt.Fprintf(&buf, "Weeks remaining:   %d (%d days)\n", st.WeeksRemaining, st.DaysRemaining)
		fmt.Fprintf(&buf, "Life elapsed:      %s %s\n", ProgressBar(st.PercentageLived.InexactFloat64(), 30), FormatPercentage(st.PercentageLived))
		fmt.Fprintln(&buf)
	}

	if len(report.Weeks) > 0 {
		fmt.Fprintf(&buf, "REMAINING WEEKS (%d shown)\n", len(report.Weeks))
		fmt.Fprintln(&buf, "================================")
		tw := tabwriter.NewWriter(&buf, 0, 4, 2, ' ', 0)
		for _, w := range report.Weeks {
			marker := ""
			if w.IsCurrent {
				marker = "<- this week"
			}
			fmt.Fprintf(tw, "#%d\t%s\t%s\t%s\n", w.WeekIndex, w.StartDate.Format(time.DateOnly), w.EndDate.Format(time.DateOnly), marker)
		}
		if err := tw.Flush(); err != nil {
			return nil, err
		}
		fmt.Fprintln(&buf)
	}

	if len(report.Countries) > 0 {
		fmt.Fprintf(&buf, "COUNTRIES (%d)\n", len(report.Countries))
		fmt.Fprintln(&buf, "================================")
		tw := tabwriter.NewWriter(&buf, 0, 4, 2, ' ', 0)
		for _, e := range report.Countries {
			fmt.Fprintf(tw, "%s\t%s\t%.2f\t%d\n", e.CountryCode, e.Name, e.YearsAtBirth, e.MeasurementYear)
		}
		if err := tw.Flush(); err != nil {
			return nil, err
		}
	}

	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func formatDate(t *time.Time) string {
	if t == nil {
		return "not set"
	}
	return t.Format(time.DateOnly)
}

func formatTimestamp(t *time.Time) string {
	if t == nil {
		return "never"
	}
	return t.Format(time.RFC3339)
}

func formatString(s *string) string {
	if s == nil || *s == "" {
		return "not set"
	}
	return *s
}

func formatYears(y *float64) string {
	if y == nil {
		return "not set"
	}
	return fmt.Sprintf("%.2f years", *y)
}

// Summary is a one-line digest used by commands that change state.
func Summary(s domain.UserProjectionState) string {
	return fmt.Sprintf("born %s in %s, projected end %s", formatDate(s.DateOfBirth), formatString(s.CountryCode), formatDate(s.DeathDate))
}
