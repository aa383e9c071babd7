package calendar

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"

	"github.com/MikeSquared-Agency/taghvim/internal/era"
)

// Locale selects the language of long-form date names. It is passed per call
// so concurrent replies never share formatting state.
type Locale string

const (
	LocalePersian Locale = "fa"
	LocaleEnglish Locale = "en"
)

// ParseLocale accepts any BCP 47 tag whose base language is Persian or English,
// e.g. "fa", "fa-IR", "en-US".
func ParseLocale(s string) (Locale, error) {
	tag, err := language.Parse(s)
	if err != nil {
		return "", fmt.Errorf("parse locale %q: %w", s, err)
	}
	base, _ := tag.Base()
	switch base.String() {
	case "fa":
		return LocalePersian, nil
	case "en":
		return LocaleEnglish, nil
	default:
		return "", fmt.Errorf("unsupported locale %q", s)
	}
}

// EraName is the display name of an era in loc.
func EraName(e era.Era, loc Locale) string {
	if loc == LocalePersian {
		switch e {
		case era.Jalali:
			return "شمسی"
		case era.Gregorian:
			return "میلادی"
		}
		return "نامشخص"
	}
	switch e {
	case era.Jalali:
		return "Jalali"
	case era.Gregorian:
		return "Gregorian"
	}
	return "Unknown"
}

var persianDigits = strings.NewReplacer(
	"0", "۰", "1", "۱", "2", "۲", "3", "۳", "4", "۴",
	"5", "۵", "6", "۶", "7", "۷", "8", "۸", "9", "۹",
)

// PersianDigits rewrites ASCII digits in s as Persian digits.
func PersianDigits(s string) string {
	return persianDigits.Replace(s)
}

var jalaliMonthsLatin = [12]string{
	"Farvardin", "Ordibehesht", "Khordad", "Tir", "Mordad", "Shahrivar",
	"Mehr", "Aban", "Azar", "Dey", "Bahman", "Esfand",
}
