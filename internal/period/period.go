// Package period resolves report period expressions into date ranges.
package period

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"
)

const dateLayout = "2006-01-02"

// ErrInvalid is returned for an expression Parse does not recognise.
var ErrInvalid = errors.New("invalid period")

// Period is an inclusive range of calendar days.
type Period struct {
	Label string    `json:"label"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"` // last day included
}

// Window returns the half-open [from, to) range covering the period.
func (p Period) Window() (from, to time.Time) {
	return p.Start, p.End.AddDate(0, 0, 1)
}

// Contains reports whether d falls on a day of the period.
func (p Period) Contains(d time.Time) bool {
	from, to := p.Window()
	return !d.Before(from) && d.Before(to)
}

func (p Period) String() string {
	return p.Label
}

var (
	yearRe    = regexp.MustCompile(`^(\d{4})$`)
	monthRe   = regexp.MustCompile(`^(\d{4})-(\d{2})$`)
	quarterRe = regexp.MustCompile(`^(\d{4})-[Qq]([1-4])$`)
	fiscalRe  = regexp.MustCompile(`^FY(\d{4})$`)
)

// Parse resolves one of:
//
//	2025     calendar year
//	2025-03  month
//	2025-Q1  calendar quarter
//	FY2025   fiscal year starting on fiscalMonth/fiscalDay
//
// A fiscal year is named after the calendar year it ends in. With a January 1
// start FY2025 is the calendar year 2025.
func Parse(expr string, fiscalMonth time.Month, fiscalDay int) (Period, error) {
	if m := yearRe.FindStringSubmatch(expr); m != nil {
		y, _ := strconv.Atoi(m[1])
		start := day(y, time.January, 1)
		return Period{Label: expr, Start: start, End: start.AddDate(1, 0, -1)}, nil
	}
	if m := monthRe.FindStringSubmatch(expr); m != nil {
		y, _ := strconv.Atoi(m[1])
		mo, _ := strconv.Atoi(m[2])
		if mo < 1 || mo > 12 {
			return Period{}, fmt.Errorf("%w %q: month out of range", ErrInvalid, expr)
		}
		start := day(y, time.Month(mo), 1)
		return Period{Label: expr, Start: start, End: start.AddDate(0, 1, -1)}, nil
	}
	if m := quarterRe.FindStringSubmatch(expr); m != nil {
		y, _ := strconv.Atoi(m[1])
		q, _ := strconv.Atoi(m[2])
		start := day(y, time.Month(3*(q-1)+1), 1)
		return Period{Label: fmt.Sprintf("%d-Q%d", y, q), Start: start, End: start.AddDate(0, 3, -1)}, nil
	}
	if m := fiscalRe.FindStringSubmatch(expr); m != nil {
		y, _ := strconv.Atoi(m[1])
		if fiscalMonth == 0 {
			fiscalMonth, fiscalDay = time.January, 1
		}
		startYear := y
		if fiscalMonth != time.January || fiscalDay != 1 {
			startYear = y - 1
		}
		start := day(startYear, fiscalMonth, fiscalDay)
		return Period{Label: expr, Start: start, End: start.AddDate(1, 0, -1)}, nil
	}
	return Period{}, fmt.Errorf("%w %q: want YYYY, YYYY-MM, YYYY-Qn or FYYYYY", ErrInvalid, expr)
}

// Range builds a period from inclusive YYYY-MM-DD bounds.
func Range(from, to string) (Period, error) {
	start, err := time.Parse(dateLayout, from)
	if err != nil {
		return Period{}, fmt.Errorf("%w: from date %q", ErrInvalid, from)
	}
	end, err := time.Parse(dateLayout, to)
	if err != nil {
		return Period{}, fmt.Errorf("%w: to date %q", ErrInvalid, to)
	}
	if end.Before(start) {
		return Period{}, fmt.Errorf("%w: %s is before %s", ErrInvalid, to, from)
	}
	return Period{Label: from + ".." + to, Start: start, End: end}, nil
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
