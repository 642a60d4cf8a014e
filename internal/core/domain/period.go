package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/nicolasgrk/gestion-budget-ia/internal/apperrors"
)

// Period is a concrete date window used for aggregation. Start is anchored at
// 00:00:00.000 and End at 23:59:59.999… of the last day, so the window covers
// whole days inclusively.
type Period struct {
	Start time.Time
	End   time.Time
}

// EndOfDayNanos is the nanosecond component of an inclusive day-end bound.
const EndOfDayNanos = int(time.Second) - 1

// ResolvePeriod turns a user-supplied period selector into a Period.
// Exactly one selector form is honored, in this order of precedence:
// month ("YYYY-MM"), year ("YYYY"), start+end (ISO dates). With no selector
// the current calendar month is used.
func ResolvePeriod(month, year, start, end string, now time.Time) (Period, error) {
	switch {
	case month != "":
		return resolveMonth(month, now.Location())
	case year != "":
		y, err := strconv.Atoi(year)
		if err != nil || y < 1970 || y > 2100 {
			return Period{}, fmt.Errorf("%w: invalid year %q", apperrors.ErrInvalidPeriod, year)
		}
		return yearPeriod(y, now.Location()), nil
	case start != "" && end != "":
		from, err := time.ParseInLocation("2006-01-02", start, now.Location())
		if err != nil {
			return Period{}, fmt.Errorf("%w: invalid start date %q", apperrors.ErrInvalidPeriod, start)
		}
		to, err := time.ParseInLocation("2006-01-02", end, now.Location())
		if err != nil {
			return Period{}, fmt.Errorf("%w: invalid end date %q", apperrors.ErrInvalidPeriod, end)
		}
		if to.Before(from) {
			return Period{}, fmt.Errorf("%w: end date before start date", apperrors.ErrInvalidPeriod)
		}
		return newPeriod(from, to), nil
	case start != "" || end != "":
		return Period{}, fmt.Errorf("%w: start and end must be provided together", apperrors.ErrInvalidPeriod)
	default:
		return monthPeriod(now.Year(), now.Month(), now.Location()), nil
	}
}

// resolveMonth parses "YYYY-MM" with explicit numeric range checks so that an
// out-of-range month fails instead of silently normalizing into an adjacent month.
func resolveMonth(month string, loc *time.Location) (Period, error) {
	parts := strings.SplitN(month, "-", 2)
	if len(parts) != 2 {
		return Period{}, fmt.Errorf("%w: month must be YYYY-MM, got %q", apperrors.ErrInvalidPeriod, month)
	}
	y, errY := strconv.Atoi(parts[0])
	m, errM := strconv.Atoi(parts[1])
	if errY != nil || errM != nil {
		return Period{}, fmt.Errorf("%w: month must be YYYY-MM, got %q", apperrors.ErrInvalidPeriod, month)
	}
	if y < 1970 || y > 2100 {
		return Period{}, fmt.Errorf("%w: year %d out of range", apperrors.ErrInvalidPeriod, y)
	}
	if m < 1 || m > 12 {
		return Period{}, fmt.Errorf("%w: month %d out of range", apperrors.ErrInvalidPeriod, m)
	}
	return monthPeriod(y, time.Month(m), loc), nil
}

func monthPeriod(y int, m time.Month, loc *time.Location) Period {
	first := time.Date(y, m, 1, 0, 0, 0, 0, loc)
	last := first.AddDate(0, 1, -1)
	return newPeriod(first, last)
}

func yearPeriod(y int, loc *time.Location) Period {
	first := time.Date(y, time.January, 1, 0, 0, 0, 0, loc)
	last := time.Date(y, time.December, 31, 0, 0, 0, 0, loc)
	return newPeriod(first, last)
}

// newPeriod anchors from at the start of its day and to at the end of its day.
func newPeriod(from, to time.Time) Period {
	start := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, from.Location())
	end := time.Date(to.Year(), to.Month(), to.Day(), 23, 59, 59, EndOfDayNanos, to.Location())
	return Period{Start: start, End: end}
}

// Previous returns the comparison window of identical duration immediately
// preceding the period, used for period-over-period deltas.
func (p Period) Previous() Period {
	duration := p.End.Sub(p.Start)
	return Period{
		Start: p.Start.Add(-duration - time.Nanosecond),
		End:   p.Start.Add(-time.Nanosecond),
	}
}

// Days returns the number of whole days covered by the period.
func (p Period) Days() int {
	return int(p.End.Sub(p.Start).Hours()/24) + 1
}
