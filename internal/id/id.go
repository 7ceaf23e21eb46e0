package id

import (
	"fmt"
	"strconv"
	"time"
)

// New returns a record ID derived from now: the Unix time in milliseconds,
// e.g. "1705312800000". If that ID is taken, it is bumped by one millisecond
// until it is free. taken may be nil.
func New(now time.Time, taken func(string) bool) string {
	ms := now.UnixMilli()
	for {
		candidate := strconv.FormatInt(ms, 10)
		if taken == nil || !taken(candidate) {
			return candidate
		}
		ms++
	}
}

// Set returns a taken func over a fixed set of IDs.
func Set(ids []string) func(string) bool {
	m := make(map[string]bool, len(ids))
	for _, id := range ids {
		m[id] = true
	}
	return func(id string) bool { return m[id] }
}

// Time parses a timestamp-derived ID back into its creation time.
func Time(id string) (time.Time, error) {
	ms, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid record ID %q: %w", id, err)
	}
	if ms < 0 {
		return time.Time{}, fmt.Errorf("invalid record ID %q: negative timestamp", id)
	}
	return time.UnixMilli(ms).UTC(), nil
}
