package scheduler

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// CronSchedule schedules a job according to a standard 5-field cron
// expression: minute hour day-of-month month day-of-week.
// Fields accept *, */n, single values, ranges (n-m) and lists (n,m,o).
// Resolution is one minute; weekday 0 is Sunday.
type CronSchedule struct {
	raw      string
	minutes  []int // 0-59
	hours    []int // 0-23
	days     []int // 1-31
	months   []int // 1-12
	weekdays []int // 0-6
}

// ParseCronSchedule parses a cron expression into a CronSchedule.
func ParseCronSchedule(expr string) (*CronSchedule, error) {
	fields := strings.Fields(expr)
	if len(fields) != 5 {
		return nil, fmt.Errorf("invalid cron expression %q: expected 5 fields, got %d", expr, len(fields))
	}

	cs := &CronSchedule{raw: expr}
	var err error

	if cs.minutes, err = parseCronField(fields[0], 0, 59); err != nil {
		return nil, fmt.Errorf("invalid minute field: %w", err)
	}
	if cs.hours, err = parseCronField(fields[1], 0, 23); err != nil {
		return nil, fmt.Errorf("invalid hour field: %w", err)
	}
	if cs.days, err = parseCronField(fields[2], 1, 31); err != nil {
		return nil, fmt.Errorf("invalid day field: %w", err)
	}
	if cs.months, err = parseCronField(fields[3], 1, 12); err != nil {
		return nil, fmt.Errorf("invalid month field: %w", err)
	}
	if cs.weekdays, err = parseCronField(fields[4], 0, 6); err != nil {
		return nil, fmt.Errorf("invalid weekday field: %w", err)
	}

	return cs, nil
}

// Next returns the first minute after t that matches the expression.
// The search is bounded to one year; a zero time past that bound means
// the expression can never fire, e.g. "0 0 31 2 *".
func (cs *CronSchedule) Next(t time.Time) time.Time {
	next := t.Add(time.Minute).Truncate(time.Minute)

	const horizon = 366 * 24 * 60
	for i := 0; i < horizon; i++ {
		if cs.matches(next) {
			return next
		}
		next = next.Add(time.Minute)
	}
	return time.Time{}
}

// String returns the original cron expression.
func (cs *CronSchedule) String() string {
	return cs.raw
}

func (cs *CronSchedule) matches(t time.Time) bool {
	return containsInt(cs.minutes, t.Minute()) &&
		containsInt(cs.hours, t.Hour()) &&
		containsInt(cs.days, t.Day()) &&
		containsInt(cs.months, int(t.Month())) &&
		containsInt(cs.weekdays, int(t.Weekday()))
}

// parseCronField expands a single field into the sorted set of values
// it covers within [min, max].
func parseCronField(field string, min, max int) ([]int, error) {
	if field == "*" {
		values := make([]int, 0, max-min+1)
		for i := min; i <= max; i++ {
			values = append(values, i)
		}
		return values, nil
	}

	if strings.Contains(field, "/") {
		parts := strings.Split(field, "/")
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid step format: %s", field)
		}
		step, err := strconv.Atoi(parts[1])
		if err != nil || step <= 0 {
			return nil, fmt.Errorf("invalid step value: %s", parts[1])
		}

		start, end := min, max
		switch {
		case parts[0] == "*":
		case strings.Contains(parts[0], "-"):
			rangeParts := strings.Split(parts[0], "-")
			if len(rangeParts) != 2 {
				return nil, fmt.Errorf("invalid step range: %s", parts[0])
			}
			if start, err = strconv.Atoi(rangeParts[0]); err != nil {
				return nil, fmt.Errorf("invalid range start: %s", rangeParts[0])
			}
			if end, err = strconv.Atoi(rangeParts[1]); err != nil {
				return nil, fmt.Errorf("invalid range end: %s", rangeParts[1])
			}
		default:
			if start, err = strconv.Atoi(parts[0]); err != nil {
				return nil, fmt.Errorf("invalid step base: %s", parts[0])
			}
			end = max
		}

		var values []int
		for i := start; i <= end; i += step {
			if i >= min && i <= max {
				values = append(values, i)
			}
		}
		return values, nil
	}

	if strings.Contains(field, "-") {
		parts := strings.Split(field, "-")
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid range format: %s", field)
		}
		start, err := strconv.Atoi(parts[0])
		if err != nil {
			return nil, fmt.Errorf("invalid range start: %s", parts[0])
		}
		end, err := strconv.Atoi(parts[1])
		if err != nil {
			return nil, fmt.Errorf("invalid range end: %s", parts[1])
		}

		var values []int
		for i := start; i <= end; i++ {
			if i >= min && i <= max {
				values = append(values, i)
			}
		}
		return values, nil
	}

	if strings.Contains(field, ",") {
		var values []int
		for _, p := range strings.Split(field, ",") {
			v, err := strconv.Atoi(strings.TrimSpace(p))
			if err != nil {
				return nil, fmt.Errorf("invalid list value: %s", p)
			}
			if v >= min && v <= max {
				values = append(values, v)
			}
		}
		sort.Ints(values)
		return values, nil
	}

	v, err := strconv.Atoi(field)
	if err != nil {
		return nil, fmt.Errorf("invalid value: %s", field)
	}
	if v < min || v > max {
		return nil, fmt.Errorf("value out of range [%d-%d]: %d", min, max, v)
	}
	return []int{v}, nil
}

func containsInt(values []int, v int) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}
