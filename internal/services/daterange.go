package services

import (
	"strings"
	"time"

	"edustaff-backend/internal/apperr"
	"edustaff-backend/internal/models"
	"edustaff-backend/internal/timeutil"
)

// RangeRule bounds one history endpoint's window, in days.
type RangeRule struct {
	DefaultDays int
	OpenEndCap  int
	MaxSpanDays int
}

var (
	TransferRangeRule   = RangeRule{DefaultDays: 30, OpenEndCap: 60, MaxSpanDays: 62}
	CommissionRangeRule = RangeRule{DefaultDays: 90, OpenEndCap: 90, MaxSpanDays: 365}
)

func parseOptionalDate(field string, value *string) (*time.Time, error) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil, nil
	}
	t, err := timeutil.ParseDate(strings.TrimSpace(*value))
	if err != nil {
		return nil, apperr.Validationf("%s must be YYYY-MM-DD", field)
	}
	return &t, nil
}

// ResolveRange turns optional start/end dates into an inclusive range:
//
//	neither  -> [today-Default, today]
//	start    -> [start, min(start+OpenEndCap, today)]
//	end      -> [end-Default, end], end clamped to today
//	both     -> rejected above MaxSpanDays, end clamped to today
//
// A start after the resolved end is rejected.
func ResolveRange(start, end *string, today time.Time, rule RangeRule) (models.DateRange, error) {
	today = timeutil.StartOfDay(today)

	s, err := parseOptionalDate("start_date", start)
	if err != nil {
		return models.DateRange{}, err
	}
	e, err := parseOptionalDate("end_date", end)
	if err != nil {
		return models.DateRange{}, err
	}

	var r models.DateRange
	switch {
	case s == nil && e == nil:
		r = models.DateRange{Start: timeutil.AddDays(today, -rule.DefaultDays), End: today}

	case e == nil:
		capped := timeutil.AddDays(*s, rule.OpenEndCap)
		if capped.After(today) {
			capped = today
		}
		r = models.DateRange{Start: *s, End: capped}

	case s == nil:
		endDate := minDate(*e, today)
		r = models.DateRange{Start: timeutil.AddDays(endDate, -rule.DefaultDays), End: endDate}

	default:
		if span := timeutil.DaysBetween(*s, *e); span > rule.MaxSpanDays {
			return models.DateRange{}, apperr.Validationf("date range of %d days exceeds the %d day maximum", span, rule.MaxSpanDays)
		}
		r = models.DateRange{Start: *s, End: minDate(*e, today)}
	}

	if r.Start.After(r.End) {
		return models.DateRange{}, apperr.Validationf("start_date must not be after end_date")
	}
	return r, nil
}

func minDate(a, b time.Time) time.Time {
	if a.After(b) {
		return b
	}
	return a
}

// window converts an inclusive date range to a half-open timestamp window.
func window(r models.DateRange) (time.Time, time.Time) {
	return timeutil.StartOfDay(r.Start), timeutil.AddDays(r.End, 1)
}
