package extractor

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ComponentCount is the number of digit runs a message must contain.
const ComponentCount = 3

// ErrExtraction is returned when a message does not contain exactly three digit runs.
var ErrExtraction = errors.New("invalid date format")

var digitRun = regexp.MustCompile(`\d+`)

// Go's \d only matches ASCII, so Persian and Arabic-Indic digits are folded first.
var digitFolder = strings.NewReplacer(
	"۰", "0", "۱", "1", "۲", "2", "۳", "3", "۴", "4",
	"۵", "5", "۶", "6", "۷", "7", "۸", "8", "۹", "9",
	"٠", "0", "١", "1", "٢", "2", "٣", "3", "٤", "4",
	"٥", "5", "٦", "6", "٧", "7", "٨", "8", "٩", "9",
)

// Extract pulls year, month and day out of free text. The first, second and
// third digit runs are taken positionally; separators are ignored.
func Extract(text string) (DateComponents, error) {
	runs := digitRun.FindAllString(digitFolder.Replace(text), -1)
	if len(runs) != ComponentCount {
		return DateComponents{}, fmt.Errorf("%w: found %d numeric tokens, want %d", ErrExtraction, len(runs), ComponentCount)
	}

	var vals [ComponentCount]int
	for i, run := range runs {
		n, err := strconv.Atoi(run)
		if err != nil {
			return DateComponents{}, fmt.Errorf("%w: token %q: %v", ErrExtraction, run, err)
		}
		vals[i] = n
	}

	return DateComponents{Year: vals[0], Month: vals[1], Day: vals[2]}, nil
}
