// Package hours interprets provider opening periods and time-of-day
// filters.
package hours

import (
	"fmt"
	"regexp"
	"time"

	"github.com/cafehopper/cafe-hopper/server/internal/model"
	"github.com/cafehopper/cafe-hopper/server/internal/places"
)

var hhmmRx = regexp.MustCompile(`^\d{4}$`)

// nowFunc is swapped in tests to pin the current weekday.
var nowFunc = time.Now

// TimeToMinutes parses a 4-digit 24-hour string into minutes since
// midnight. The empty string maps to 0 ("start of day") and is only
// meaningful as a default; anything else must match ^\d{4}$ with hour 0-23
// and minute 0-59.
func TimeToMinutes(hhmm string) (int, error) {
	if hhmm == "" {
		return 0, nil
	}
	if !hhmmRx.MatchString(hhmm) {
		return 0, fmt.Errorf("time must be a 4-digit 24-hour string: %w", model.ErrValidation)
	}
	hour := int(hhmm[0]-'0')*10 + int(hhmm[1]-'0')
	minute := int(hhmm[2]-'0')*10 + int(hhmm[3]-'0')
	if hour > 23 {
		return 0, fmt.Errorf("hour out of range: %w", model.ErrValidation)
	}
	if minute > 59 {
		return 0, fmt.Errorf("minute out of range: %w", model.ErrValidation)
	}
	return hour*60 + minute, nil
}

// minutesOrZero is the lenient conversion used on provider period edges:
// absent or malformed times collapse to 0, which IsOpenAt treats as
// never-matching.
func minutesOrZero(hhmm string) int {
	m, err := TimeToMinutes(hhmm)
	if err != nil {
		return 0
	}
	return m
}

// IsOpenAt reports whether any period covers the given day and
// minutes-since-midnight. Bounds are inclusive; a period whose open minute
// exceeds its close minute spans midnight. Periods with a zero open or
// close time (absent or unparseable in the source data) never match.
func IsOpenAt(periods []places.Period, day, minutes int) bool {
	for _, p := range periods {
		if p.Open.Day != day {
			continue
		}
		openMin := minutesOrZero(p.Open.Time)
		closeMin := 0
		if p.Close != nil {
			closeMin = minutesOrZero(p.Close.Time)
		}
		if openMin == 0 || closeMin == 0 {
			continue
		}
		if openMin > closeMin {
			// spans midnight
			if minutes >= openMin || minutes <= closeMin {
				return true
			}
			continue
		}
		if minutes >= openMin && minutes <= closeMin {
			return true
		}
	}
	return false
}

// OpenOnDay reports whether any period starts on the given day.
func OpenOnDay(periods []places.Period, day int) bool {
	for _, p := range periods {
		if p.Open.Day == day {
			return true
		}
	}
	return false
}

// FilterByTime retains the detail records open at the requested instant.
// With neither day nor time it returns the input unchanged; day alone keeps
// records with any period on that day; a time (with the day defaulting to
// the current weekday) keeps records satisfying IsOpenAt. A malformed time
// string fails the whole request with a validation error.
func FilterByTime(records []places.Detail, day *int, hhmm string) ([]places.Detail, error) {
	if day == nil && hhmm == "" {
		return records, nil
	}

	if hhmm == "" {
		kept := make([]places.Detail, 0, len(records))
		for _, r := range records {
			if r.OpeningHours != nil && OpenOnDay(r.OpeningHours.Periods, *day) {
				kept = append(kept, r)
			}
		}
		return kept, nil
	}

	minutes, err := TimeToMinutes(hhmm)
	if err != nil {
		return nil, err
	}
	resolved := int(nowFunc().Weekday())
	if day != nil {
		resolved = *day
	}

	kept := make([]places.Detail, 0, len(records))
	for _, r := range records {
		if r.OpeningHours != nil && IsOpenAt(r.OpeningHours.Periods, resolved, minutes) {
			kept = append(kept, r)
		}
	}
	return kept, nil
}
