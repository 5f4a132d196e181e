package repository

import (
	"encoding/json"
	"time"
)

// timeLayout is the storage format for timestamps: RFC3339 with millisecond
// precision so round-trips preserve the wire resolution.
const timeLayout = "2006-01-02T15:04:05.000Z07:00"

func timeToString(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// parseTime parses a stored timestamp; zero time on failure keeps scans
// total (the schema guarantees well-formed values).
func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}

// stringsToJSON encodes a string list for a TEXT column.
func stringsToJSON(ss []string) string {
	if ss == nil {
		ss = []string{}
	}
	b, err := json.Marshal(ss)
	if err != nil {
		return "[]"
	}
	return string(b)
}

// stringsFromJSON decodes a TEXT column back into a string list.
func stringsFromJSON(s string) []string {
	var ss []string
	if err := json.Unmarshal([]byte(s), &ss); err != nil {
		return nil
	}
	return ss
}
