// Package daybucket formats calendar dates into the string keys that group
// food entries and health caches for a single day.
//
// Buckets are compared byte-for-byte. A food entry and a health cache belong
// to the same day only when their bucket strings are identical, so every
// writer must go through the same Formatter.
package daybucket

import (
	"fmt"
	"strings"
	"time"
)

// DefaultLayout matches a numeric en-US date, e.g. "3/7/2026".
const DefaultLayout = "1/2/2006"

type Formatter struct {
	Layout   string
	Location *time.Location
}

func Default() Formatter {
	return Formatter{Layout: DefaultLayout, Location: time.Local}
}

func New(layout string) Formatter {
	layout = strings.TrimSpace(layout)
	if layout == "" {
		layout = DefaultLayout
	}
	return Formatter{Layout: layout, Location: time.Local}
}

func (f Formatter) loc() *time.Location {
	if f.Location == nil {
		return time.Local
	}
	return f.Location
}

func (f Formatter) layout() string {
	if f.Layout == "" {
		return DefaultLayout
	}
	return f.Layout
}

// Format returns the bucket for the calendar day containing t.
func (f Formatter) Format(t time.Time) string {
	return t.In(f.loc()).Format(f.layout())
}

// Parse returns the start of the day named by bucket.
func (f Formatter) Parse(bucket string) (time.Time, error) {
	t, err := time.ParseInLocation(f.layout(), strings.TrimSpace(bucket), f.loc())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid day %q (expected layout %s)", bucket, f.layout())
	}
	return f.StartOfDay(t), nil
}

// ParseISO accepts a YYYY-MM-DD date, the format used on the command line
// and in API paths, and returns the matching bucket.
func (f Formatter) ParseISO(date string) (string, time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(date), f.loc())
	if err != nil {
		return "", time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", date)
	}
	return f.Format(t), t, nil
}

func (f Formatter) StartOfDay(t time.Time) time.Time {
	y, m, d := t.In(f.loc()).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, f.loc())
}

// Window returns [start, end) for the day containing t.
func (f Formatter) Window(t time.Time) (time.Time, time.Time) {
	start := f.StartOfDay(t)
	return start, start.AddDate(0, 0, 1)
}

// Shift moves t by days calendar days, keeping the wall-clock start of day
// across DST transitions.
func (f Formatter) Shift(t time.Time, days int) time.Time {
	return f.StartOfDay(t).AddDate(0, 0, days)
}

// IsToday reports whether bucket names the same day as now.
func (f Formatter) IsToday(bucket string, now time.Time) bool {
	return bucket == f.Format(now)
}

// ShortDay trims the year off a slash-separated bucket ("3/7/2026" -> "3/7").
func ShortDay(bucket string) string {
	parts := strings.Split(bucket, "/")
	if len(parts) >= 2 {
		return parts[0] + "/" + parts[1]
	}
	return bucket
}
