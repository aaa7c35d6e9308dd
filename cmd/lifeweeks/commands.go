package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/lifeweeks/lifeweeks/internal/domain"
	"github.com/lifeweeks/lifeweeks/internal/output"
)

func parseDate(value string) (time.Time, error) {
	t, err := time.ParseInLocation(time.DateOnly, strings.TrimSpace(value), time.Local)
	if err != nil {
		return time.Time{}, domain.NewValidationError("invalid date %q, expected YYYY-MM-DD", value)
	}
	return t, nil
}

func (a *app) projectCmd() *cobra.Command {
	var dob, country string
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Compute and store the projection for a date of birth",
		RunE: func(cmd *cobra.Command, args []string) error {
			birth, err := parseDate(dob)
			if err != nil {
				return err
			}
			state, err := a.svc.ComputeProjection(cmd.Context(), birth, strings.ToUpper(strings.TrimSpace(country)))
			if err != nil {
				return err
			}
			if err := a.repo.Save(cmd.Context(), state); err != nil {
				return fmt.Errorf("save projection: %w", err)
			}
			stats, err := a.svc.Statistics(state)
			if err != nil {
				return err
			}
			return a.render(&output.Report{State: &state, Stats: &stats})
		},
	}
	cmd.Flags().StringVarP(&dob, "dob", "d", "", "Date of birth, YYYY-MM-DD (required)")
	cmd.Flags().StringVar(&country, "country", "", "Two-letter country code (defaults to config or locale)")
	_ = cmd.MarkFlagRequired("dob")
	return cmd
}

func (a *app) refreshCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Recompute the stored projection when it is older than 30 days",
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := a.repo.Load(cmd.Context())
			if err != nil {
				return err
			}
			refreshed, err := a.svc.RefreshIfNeeded(cmd.Context(), state, force)
			if err != nil {
				return err
			}
			if recalculated(state, refreshed) {
				if err := a.repo.Save(cmd.Context(), refreshed); err != nil {
					return fmt.Errorf("save projection: %w", err)
				}
				a.log.Infof("projection refreshed: %s", output.Summary(refreshed))
			}
			return a.render(&output.Report{State: &refreshed})
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Recompute even when the projection is fresh")
	return cmd
}

func (a *app) timelineCmd() *cobra.Command {
	var from string
	var maxWeeks int
	cmd := &cobra.Command{
		Use:   "timeline",
		Short: "List the remaining weeks of the stored projection",
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := a.repo.Load(cmd.Context())
			if err != nil {
				return err
			}
			var startFrom *time.Time
			if from != "" {
				t, err := parseDate(from)
				if err != nil {
					return err
				}
				startFrom = &t
			}
			limit := a.cfg.MaxWeeks
			if cmd.Flags().Changed("max-weeks") {
				limit = maxWeeks
			}
			weeks, err := a.svc.WeeklyTimeline(state, startFrom, limit)
			if err != nil {
				return err
			}
			return a.render(&output.Report{Weeks: weeks})
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "Start from this date instead of today, YYYY-MM-DD")
	cmd.Flags().IntVarP(&maxWeeks, "max-weeks", "n", 0, "Maximum weeks to list; 0 lists all (default from config)")
	return cmd
}

func (a *app) statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show lived and remaining time for the stored projection",
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := a.repo.Load(cmd.Context())
			if err != nil {
				return err
			}
			stats, err := a.svc.Statistics(state)
			if err != nil {
				return err
			}
			return a.render(&output.Report{Stats: &stats})
		},
	}
}

func (a *app) countriesCmd() *cobra.Command {
	var search string
	var codes []string
	cmd := &cobra.Command{
		Use:   "countries",
		Short: "List or search the bundled life expectancy dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			var entries []domain.CountryLifeExpectancyEntry
			switch {
			case len(codes) > 0:
				found, err := a.table.LookupMany(upperAll(codes))
				if err != nil {
					return err
				}
				for _, code := range upperAll(codes) {
					if e, ok := found[code]; ok {
						entries = append(entries, e)
					} else {
						a.log.Warnf("no life expectancy data for %s", code)
					}
				}
			case search != "":
				found, err := a.table.Search(search)
				if err != nil {
					return err
				}
				entries = found
			default:
				all, err := a.table.AllCountries()
				if err != nil {
					return err
				}
				entries = all
			}
			if md, err := a.table.Metadata(); err == nil {
				n, _ := a.table.Len()
				a.log.Debugf("dataset %s (%s) generated %s, %d countries", md.Source, md.Indicator, md.GeneratedAt.Format(time.DateOnly), n)
			}
			if len(entries) == 0 && a.formatter.Name() == "console" {
				_, err := fmt.Fprintln(a.stdout, "no matching countries")
				return err
			}
			return a.render(&output.Report{Countries: entries})
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "Case-insensitive match on name or code")
	cmd.Flags().StringSliceVar(&codes, "code", nil, "Look up specific country codes")
	return cmd
}

func (a *app) showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the stored projection",
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := a.repo.Load(cmd.Context())
			if err != nil {
				return err
			}
			report := &output.Report{State: &state}
			if stats, err := a.svc.Statistics(state); err == nil {
				report.Stats = &stats
			}
			return a.render(report)
		},
	}
}

func (a *app) resetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Forget the stored projection",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.repo.Clear(cmd.Context()); err != nil {
				return err
			}
			_, err := fmt.Fprintln(a.stdout, "projection cleared")
			return err
		},
	}
}

// recalculated reports whether after carries a different calculation time
// than before.
func recalculated(before, after domain.UserProjectionState) bool {
	switch {
	case after.LastCalculatedAt == nil:
		return false
	case before.LastCalculatedAt == nil:
		return true
	default:
		return !after.LastCalculatedAt.Equal(*before.LastCalculatedAt)
	}
}

func upperAll(codes []string) []string {
	out := make([]string, 0, len(codes))
	for _, c := range codes {
		out = append(out, strings.ToUpper(strings.TrimSpace(c)))
	}
	return out
}
