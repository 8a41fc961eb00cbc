package utils

import (
	"fmt"
	"strings"
	"time"
)

// TimestampLayout is the layout of report timestamps.
const TimestampLayout = "2006-01-02 15:04:05"

// PKT is the Pakistan Standard Time location (UTC+5).
var PKT *time.Location

func init() {
	var err error
	PKT, err = time.LoadLocation("Asia/Karachi")
	if err != nil {
		// Fallback: create fixed zone if tz database is not available
		PKT = time.FixedZone("PKT", 5*60*60)
	}
}

// LoadLocation resolves a configured time zone name.
// "" and "Local" select the host zone; "PKT" is accepted as an alias for Asia/Karachi.
func LoadLocation(name string) (*time.Location, error) {
	switch strings.TrimSpace(name) {
	case "", "Local", "local":
		return time.Local, nil
	case "PKT", "Asia/Karachi":
		return PKT, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("unknown time zone %q: %w", name, err)
	}
	return loc, nil
}

// FormatTimestamp formats t in loc using TimestampLayout.
func FormatTimestamp(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(TimestampLayout)
}

// Now returns the current time formatted in loc.
func Now(loc *time.Location) string {
	return FormatTimestamp(time.Now(), loc)
}
