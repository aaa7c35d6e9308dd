package output

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"time"
)

// CSVFormatter writes one table per populated section: weeks first, then
// countries, then statistics as metric/value pairs.
type CSVFormatter struct{}

func (c CSVFormatter) Name() string { return "csv" }

func (c CSVFormatter) Format(report *Report) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)

	if len(report.Weeks) > 0 {
		if err := w.Write([]string{"WeekIndex", "StartDate", "EndDate", "IsCurrent"}); err != nil {
			return nil, err
		}
		for _, wk := range report.Weeks {
			row := []string{
				strconv.Itoa(wk.WeekIndex),
				wk.StartDate.Format(time.DateOnly),
				wk.EndDate.Format(time.DateOnly),
				strconv.FormatBool(wk.IsCurrent),
			}
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
	}

	if len(report.Countries) > 0 {
		if err := w.Write([]string{"CountryCode", "ISO3", "Name", "LifeExpectancy", "MeasurementYear"}); err != nil {
			return nil, err
		}
		for _, e := range report.Countries {
			row := []string{
				e.CountryCode,
				e.ISO3,
				e.Name,
				strconv.FormatFloat(e.YearsAtBirth, 'f', 2, 64),
				strconv.Itoa(e.MeasurementYear),
			}
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
	}

	if s := report.Stats; s != nil {
		rows := [][]string{
			{"Metric", "Value"},
			{"TotalDays", strconv.Itoa(s.TotalDays)},
			{"TotalWeeks", strconv.Itoa(s.TotalWeeks)},
			{"DaysLived", strconv.Itoa(s.DaysLived)},
			{"WeeksLived", strconv.Itoa(s.WeeksLived)},
			{"DaysRemaining", strconv.Itoa(s.DaysRemaining)},
			{"WeeksRemaining", strconv.Itoa(s.WeeksRemaining)},
			{"PercentageLived", s.PercentageLived.StringFixed(2)},
			{"CurrentAge", strconv.Itoa(s.CurrentAge)},
		}
		if err := w.WriteAll(rows); err != nil {
			return nil, err
		}
	}

	w.Flush()
	return buf.Bytes(), w.Error()
}
