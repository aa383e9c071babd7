package extractor

import "fmt"

// DateComponents is the positional (year, month, day) triple read from a message.
// Values are not range checked; the calendar decides whether they form a date.
type DateComponents struct {
	Year  int
	Month int
	Day   int
}

func (c DateComponents) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", c.Year, c.Month, c.Day)
}
