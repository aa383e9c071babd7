package converter

import (
	"errors"
	"fmt"

	"github.com/MikeSquared-Agency/taghvim/internal/calendar"
	"github.com/MikeSquared-Agency/taghvim/internal/era"
	"github.com/MikeSquared-Agency/taghvim/internal/extractor"
)

var (
	// ErrExtraction: the message did not hold exactly three numbers.
	ErrExtraction = extractor.ErrExtraction
	// ErrClassification: the year matched no era under the active policy.
	ErrClassification = errors.New("year outside known calendar ranges")
	// ErrCalendarValidity: month or day do not exist in the inferred calendar.
	ErrCalendarValidity = calendar.ErrInvalidDate
)

// User-facing replies. Underlying errors are never shown to users.
const (
	MsgInvalidFormat = "Invalid date format. Please use a valid date format, e.g. 1403/01/01 or 2024-03-20."
	MsgInvalidDate   = "The date seems invalid. Please check the month and day."
)

// Result is a single successful conversion.
type Result struct {
	Source     string
	Components extractor.DateComponents
	Input      calendar.Date
	Output     calendar.Date
}

// Converter runs extraction, era inference and conversion for one message.
// It holds no per-message state and is safe for concurrent use.
type Converter struct {
	policy era.Policy
}

func New(policy era.Policy) *Converter {
	return &Converter{policy: policy}
}

func (c *Converter) Policy() era.Policy {
	return c.policy
}

// Convert turns free text into a conversion in the opposite calendar.
func (c *Converter) Convert(text string) (*Result, error) {
	comps, err := extractor.Extract(text)
	if err != nil {
		return nil, err
	}

	var input calendar.Date
	switch e := c.policy.Classify(comps.Year); e {
	case era.Jalali:
		input, err = calendar.NewJalali(comps.Year, comps.Month, comps.Day)
	case era.Gregorian:
		input, err = calendar.NewGregorian(comps.Year, comps.Month, comps.Day)
	default:
		return nil, fmt.Errorf("%w: year %d under %s policy", ErrClassification, comps.Year, c.policy)
	}
	if err != nil {
		return nil, err
	}

	return &Result{
		Source:     text,
		Components: comps,
		Input:      input,
		Output:     input.Convert(),
	}, nil
}

// UserMessage maps a Convert error to the reply shown in chat.
func UserMessage(err error) string {
	if errors.Is(err, ErrCalendarValidity) {
		return MsgInvalidDate
	}
	return MsgInvalidFormat
}

// Kind is a short label for metrics and events.
func Kind(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrExtraction):
		return "extraction"
	case errors.Is(err, ErrClassification):
		return "classification"
	case errors.Is(err, ErrCalendarValidity):
		return "calendar_validity"
	default:
		return "unknown"
	}
}
