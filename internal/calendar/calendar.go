// Package calendar provides validated Jalali and Gregorian dates that convert
// into each other. Persian month and weekday names come from
// go-persian-calendar.
package calendar

import (
	"errors"
	"fmt"
	"time"

	ptime "github.com/yaa110/go-persian-calendar"

	"github.com/MikeSquared-Agency/taghvim/internal/era"
)

// ErrInvalidDate is returned when month or day do not exist in the calendar,
// or the year is outside the supported range.
var ErrInvalidDate = errors.New("date seems invalid")

// Date is a calendar date in one era. The underlying instant is midnight UTC
// of the same day, so converting between eras never shifts the day.
type Date struct {
	Era   era.Era
	Year  int
	Month int
	Day   int

	t time.Time
}

// NewJalali validates (year, month, day) as a solar Hijri date, including the
// Esfand leap-day rule.
func NewJalali(year, month, day int) (Date, error) {
	if year < MinJalaliYear || year > MaxJalaliYear || month < 1 || month > 12 || day < 1 {
		return Date{}, invalid(era.Jalali, year, month, day)
	}
	if day > jalaliMonthLength(year, month) {
		return Date{}, invalid(era.Jalali, year, month, day)
	}

	return Date{Era: era.Jalali, Year: year, Month: month, Day: day, t: jalaliToTime(year, month, day)}, nil
}

// NewGregorian validates (year, month, day) as a proleptic Gregorian date.
func NewGregorian(year, month, day int) (Date, error) {
	if year < MinGregorianYear || year > MaxGregorianYear || month < 1 || month > 12 || day < 1 || day > 31 {
		return Date{}, invalid(era.Gregorian, year, month, day)
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return Date{}, invalid(era.Gregorian, year, month, day)
	}

	return Date{Era: era.Gregorian, Year: year, Month: month, Day: day, t: t}, nil
}

// FromTime returns the date of t in the given era. The clock and zone of t
// are dropped. t must fall between MinGregorianYear and MaxGregorianYear.
func FromTime(t time.Time, e era.Era) Date {
	t = midnight(t)
	if e == era.Jalali {
		y, m, d := timeToJalali(t)
		return Date{Era: era.Jalali, Year: y, Month: m, Day: d, t: t}
	}
	return Date{Era: era.Gregorian, Year: t.Year(), Month: int(t.Month()), Day: t.Day(), t: t}
}

// ToJalali returns the same day in the Jalali calendar.
func (d Date) ToJalali() Date {
	return FromTime(d.t, era.Jalali)
}

// ToGregorian returns the same day in the Gregorian calendar.
func (d Date) ToGregorian() Date {
	return FromTime(d.t, era.Gregorian)
}

// Convert returns the same day in the opposite era.
func (d Date) Convert() Date {
	return FromTime(d.t, d.Era.Opposite())
}

// Time is midnight UTC of the date.
func (d Date) Time() time.Time {
	return d.t
}

// Weekday is shared by both eras.
func (d Date) Weekday() time.Weekday {
	return d.t.Weekday()
}

// Short renders YYYY-MM-DD.
func (d Date) Short() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// Long renders weekday, day, month name and year. Jalali dates follow loc;
// Gregorian dates are always English.
func (d Date) Long(loc Locale) string {
	if d.Era != era.Jalali {
		return d.t.Format("Monday, 2 January 2006")
	}

	if loc == LocalePersian {
		return fmt.Sprintf("%s، %s %s %s",
			persianWeekday(d.Weekday()).String(),
			PersianDigits(fmt.Sprint(d.Day)),
			ptime.Month(d.Month).String(),
			PersianDigits(fmt.Sprint(d.Year)),
		)
	}
	return fmt.Sprintf("%s, %d %s %d", d.Weekday(), d.Day, jalaliMonthsLatin[d.Month-1], d.Year)
}

// persianWeekday maps a Go weekday onto ptime's Saturday-first week.
func persianWeekday(wd time.Weekday) ptime.Weekday {
	return ptime.Weekday((int(wd) + 1) % 7)
}

func invalid(e era.Era, year, month, day int) error {
	return fmt.Errorf("%w: %s %d-%d-%d", ErrInvalidDate, e, year, month, day)
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
