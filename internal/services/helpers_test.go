package services

import "time"

// janDate returns a UTC date in January 2024, the period used across
// the service tests.
func janDate(day int) time.Time {
	return time.Date(2024, time.January, day, 0, 0, 0, 0, time.UTC)
}
