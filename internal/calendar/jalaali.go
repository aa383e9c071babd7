package calendar

import "time"

// Years covered by the leap table below. The Gregorian bounds are the
// years whose every day maps inside the Jalali bounds.
const (
	MinJalaliYear    = 1
	MaxJalaliYear    = 3176
	MinGregorianYear = 623
	MaxGregorianYear = 3797
)

// Jalali years at which the 33-year leap pattern shifts, after Borkowski.
var leapBreaks = [...]int{
	-61, 9, 38, 199, 426, 686, 756, 818, 1111, 1181, 1210,
	1635, 2060, 2097, 2192, 2262, 2324, 2394, 2456, 3178,
}

// yearInfo describes one Jalali year: the March day of its first Farvardin
// in Gregorian year gy, and leap, which is 0 in a leap year.
type yearInfo struct {
	gy    int
	march int
	leap  int
}

func jalaliYear(jy int) yearInfo {
	gy := jy + 621
	leapJ := -14
	jp := leapBreaks[0]
	jump := 0

	for _, jm := range leapBreaks[1:] {
		jump = jm - jp
		if jy < jm {
			break
		}
		leapJ += jump/33*8 + (jump%33)/4
		jp = jm
	}

	n := jy - jp
	leapJ += n/33*8 + (n%33+3)/4
	if jump%33 == 4 && jump-n == 4 {
		leapJ++
	}
	leapG := gy/4 - (gy/100+1)*3/4 - 150

	if jump-n < 6 {
		n = n - jump + (jump+4)/33*33
	}
	leap := ((n+1)%33 - 1) % 4
	if leap == -1 {
		leap = 4
	}

	return yearInfo{gy: gy, march: 20 + leapJ - leapG, leap: leap}
}

func isJalaliLeap(jy int) bool {
	return jalaliYear(jy).leap == 0
}

func jalaliMonthLength(jy, jm int) int {
	switch {
	case jm <= 6:
		return 31
	case jm <= 11:
		return 30
	case isJalaliLeap(jy):
		return 30
	default:
		return 29
	}
}

// jalaliToTime returns midnight UTC of a valid Jalali date.
func jalaliToTime(jy, jm, jd int) time.Time {
	y := jalaliYear(jy)
	offset := (jm-1)*31 - jm/7*(jm-7) + jd - 1
	return time.Date(y.gy, time.March, y.march+offset, 0, 0, 0, 0, time.UTC)
}

// timeToJalali returns the Jalali date of t, which must be midnight UTC.
func timeToJalali(t time.Time) (jy, jm, jd int) {
	gy := t.Year()
	jy = gy - 621
	y := jalaliYear(jy)
	nowruz := time.Date(gy, time.March, y.march, 0, 0, 0, 0, time.UTC)

	k := int(t.Sub(nowruz).Hours()) / 24
	if k >= 0 {
		if k <= 185 {
			return jy, 1 + k/31, k%31 + 1
		}
		k -= 186
	} else {
		jy--
		k += 179
		if y.leap == 1 {
			k++
		}
	}
	return jy, 7 + k/30, k%30 + 1
}
