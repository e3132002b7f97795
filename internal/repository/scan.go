package repository

import "time"

type scanner interface {
	Scan(dest ...interface{}) error
}

// Timestamps are stored as RFC3339 text in UTC; analytics slices the day
// prefix out of them.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	_, err := time.Parse(time.RFC3339Nano, raw)
	return time.Time{}, err
}
