// Package scheduler implements the cycle date arithmetic: computing the
// "today" stamp, shifting dates by whole days, and laying out the
// contiguous cycle windows of a group. Everything here is a pure
// function of its inputs; the only clock access goes through the Clock
// interface so tests can pin time.
package scheduler

import (
	"errors"
	"fmt"
	"time"

	"github.com/tandadapp/backend/internal/models"
)

// DateLayout is the stamp format used across the ledger:
// "2024-01-01 00:00:00 UTC". Parsing also accepts the bare form
// without the " UTC" suffix.
const (
	DateLayout     = "2006-01-02 15:04:05 UTC"
	bareDateLayout = "2006-01-02 15:04:05"
)

// ErrBadDate is returned when a date string does not match DateLayout.
var ErrBadDate = errors.New("date does not match 'YYYY-MM-DD HH:MM:SS UTC'")

// Clock supplies the current time. The system clock satisfies it in
// production; tests use a fixed clock.
type Clock interface {
	Now() time.Time
}

// SystemClock is the wall-clock Clock.
type SystemClock struct{}

// Now returns the current time.
func (SystemClock) Now() time.Time { return time.Now() }

// Today returns the current date truncated to whole days, formatted as
// a DateLayout stamp (time component always 00:00:00).
func Today(clock Clock) string {
	now := clock.Now().UTC()
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return day.Format(DateLayout)
}

// ParseDate parses a DateLayout stamp, accepting the bare form without
// the zone suffix.
func ParseDate(date string) (time.Time, error) {
	if t, err := time.Parse(DateLayout, date); err == nil {
		return t, nil
	}
	t, err := time.Parse(bareDateLayout, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrBadDate, date)
	}
	return t, nil
}

// AddDays returns date shifted by n whole days, in DateLayout format.
func AddDays(date string, n int) (string, error) {
	t, err := ParseDate(date)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, 0, n).Format(DateLayout), nil
}

// GenerateCycles lays out count contiguous cycles starting at start.
// Cycle k spans [d_k, d_k + lengthDays - 1]; the next cycle starts the
// following day, so there is never a gap or an overlap.
func GenerateCycles(start string, lengthDays, count int) ([]models.Cycle, error) {
	if lengthDays <= 0 {
		return nil, fmt.Errorf("cycle length must be positive, got %d", lengthDays)
	}
	if count < 0 {
		return nil, fmt.Errorf("cycle count must not be negative, got %d", count)
	}

	cycles := make([]models.Cycle, 0, count)
	for k := 0; k < count; k++ {
		end, err := AddDays(start, lengthDays-1)
		if err != nil {
			return nil, err
		}
		cycles = append(cycles, models.Cycle{StartDate: start, EndDate: end})

		start, err = AddDays(end, 1)
		if err != nil {
			return nil, err
		}
	}
	return cycles, nil
}

// Rebase reassigns the date windows of an existing cycle list in index
// order, chaining from start. Every non-date field (turn holder,
// collected amount, contributors, completion and paid flags) is left
// untouched.
func Rebase(cycles []models.Cycle, start string, lengthDays int) error {
	if lengthDays <= 0 {
		return fmt.Errorf("cycle length must be positive, got %d", lengthDays)
	}
	for k := range cycles {
		end, err := AddDays(start, lengthDays-1)
		if err != nil {
			return err
		}
		cycles[k].StartDate = start
		cycles[k].EndDate = end

		start, err = AddDays(end, 1)
		if err != nil {
			return err
		}
	}
	return nil
}
