package era

import "fmt"

// Era is the calendar a year is believed to belong to.
type Era string

const (
	Jalali    Era = "jalali"
	Gregorian Era = "gregorian"
	Unknown   Era = "unknown"
)

// Opposite returns the era a date is converted into.
func (e Era) Opposite() Era {
	switch e {
	case Jalali:
		return Gregorian
	case Gregorian:
		return Jalali
	default:
		return Unknown
	}
}

// Policy selects the year heuristic used to guess an era. Exactly one policy
// is active per process.
type Policy string

const (
	// PolicyBounded accepts only years inside the modern bands of each calendar.
	PolicyBounded Policy = "bounded"
	// PolicyThreshold splits all years at a single cut-off.
	PolicyThreshold Policy = "threshold"
)

// DefaultPolicy is used when no policy is configured.
const DefaultPolicy = PolicyThreshold

// Bounded policy bands, inclusive.
const (
	BoundedJalaliMin    = 1200
	BoundedJalaliMax    = 1500
	BoundedGregorianMin = 1900
	BoundedGregorianMax = 2100
)

// ThresholdGregorianFrom is the first year the threshold policy treats as Gregorian.
const ThresholdGregorianFrom = 1600

// ParsePolicy maps a configuration value to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(s); p {
	case PolicyBounded, PolicyThreshold:
		return p, nil
	case "":
		return DefaultPolicy, nil
	default:
		return "", fmt.Errorf("unknown era policy %q", s)
	}
}

// Classify guesses the era of year. The guess is lossy by nature: a year that
// is plausible in both calendars resolves to whichever band claims it.
func (p Policy) Classify(year int) Era {
	switch p {
	case PolicyBounded:
		switch {
		case year >= BoundedJalaliMin && year <= BoundedJalaliMax:
			return Jalali
		case year >= BoundedGregorianMin && year <= BoundedGregorianMax:
			return Gregorian
		default:
			return Unknown
		}
	case PolicyThreshold:
		if year < ThresholdGregorianFrom {
			return Jalali
		}
		return Gregorian
	default:
		return Unknown
	}
}
