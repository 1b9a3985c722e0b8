// Package timeparse converts user-entered reminder times ("in 2 hours",
// "14:30", "2024-01-15") into absolute timestamps. Parsing is pure:
// the reference time and timezone come in as arguments.
package timeparse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ErrUnparseable is returned (wrapped) when the input matches no known
// time format. Callers surface the rejected input to the user.
type ErrUnparseable struct {
	Input string
}

func (e *ErrUnparseable) Error() string {
	return fmt.Sprintf("unrecognized time format: %q", e.Input)
}

var (
	relativeRe = regexp.MustCompile(`^in\s+(\d+)\s*(minute|hour|day|week)s?$`)
	clock24Re  = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)
	clock12Re  = regexp.MustCompile(`^(\d{1,2}):(\d{2})\s*(am|pm)$`)
	isoDateRe  = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})$`)
	usDateRe   = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)
)

// Parse resolves s against the reference time now in location loc.
// Precedence for ambiguous input: relative offset grammar first, then
// bare clock time (next future occurrence), then date forms, then the
// few supported natural-language words.
func Parse(s string, now time.Time, loc *time.Location) (time.Time, error) {
	in := strings.ToLower(strings.TrimSpace(s))
	if in == "" {
		return time.Time{}, &ErrUnparseable{Input: s}
	}

	local := now.In(loc)

	if m := relativeRe.FindStringSubmatch(in); m != nil {
		return parseRelative(m, local, s)
	}

	if m := clock24Re.FindStringSubmatch(in); m != nil {
		return parseClock(m[1], m[2], "", local, s)
	}
	if m := clock12Re.FindStringSubmatch(in); m != nil {
		return parseClock(m[1], m[2], m[3], local, s)
	}

	if m := isoDateRe.FindStringSubmatch(in); m != nil {
		return parseDate(m[1], m[2], m[3], local, s)
	}
	if m := usDateRe.FindStringSubmatch(in); m != nil {
		return parseDate(m[3], m[1], m[2], local, s)
	}

	switch in {
	case "tomorrow":
		return local.Add(24 * time.Hour), nil
	case "next week":
		return local.Add(7 * 24 * time.Hour), nil
	case "next month":
		return local.Add(30 * 24 * time.Hour), nil
	}

	return time.Time{}, &ErrUnparseable{Input: s}
}

func parseRelative(m []string, local time.Time, raw string) (time.Time, error) {
	amount, err := strconv.Atoi(m[1])
	if err != nil || amount <= 0 {
		return time.Time{}, &ErrUnparseable{Input: raw}
	}

	var unit time.Duration
	switch m[2] {
	case "minute":
		unit = time.Minute
	case "hour":
		unit = time.Hour
	case "day":
		unit = 24 * time.Hour
	case "week":
		unit = 7 * 24 * time.Hour
	}
	return local.Add(time.Duration(amount) * unit), nil
}

// parseClock interprets a bare time-of-day as its next future
// occurrence: today if still ahead, otherwise tomorrow.
func parseClock(hh, mm, period string, local time.Time, raw string) (time.Time, error) {
	hour, _ := strconv.Atoi(hh)
	minute, _ := strconv.Atoi(mm)

	switch period {
	case "pm":
		if hour < 1 || hour > 12 {
			return time.Time{}, &ErrUnparseable{Input: raw}
		}
		if hour != 12 {
			hour += 12
		}
	case "am":
		if hour < 1 || hour > 12 {
			return time.Time{}, &ErrUnparseable{Input: raw}
		}
		if hour == 12 {
			hour = 0
		}
	default:
		if hour > 23 {
			return time.Time{}, &ErrUnparseable{Input: raw}
		}
	}
	if minute > 59 {
		return time.Time{}, &ErrUnparseable{Input: raw}
	}

	at := time.Date(local.Year(), local.Month(), local.Day(), hour, minute, 0, 0, local.Location())
	if !at.After(local) {
		at = at.Add(24 * time.Hour)
	}
	return at, nil
}

// parseDate interprets a bare date as start-of-day in the configured
// timezone.
func parseDate(yy, mo, dd string, local time.Time, raw string) (time.Time, error) {
	year, _ := strconv.Atoi(yy)
	month, _ := strconv.Atoi(mo)
	day, _ := strconv.Atoi(dd)

	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, &ErrUnparseable{Input: raw}
	}

	at := time.Date(year, time.Month(month), day, 0, 0, 0, 0, local.Location())
	// time.Date normalizes out-of-range days (Feb 31 becomes Mar 2);
	// a changed component means the date never existed.
	if at.Day() != day || at.Month() != time.Month(month) {
		return time.Time{}, &ErrUnparseable{Input: raw}
	}
	return at, nil
}
