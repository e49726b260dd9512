package timesheet

import "github.com/shopspring/decimal"

// =============================================================================
// CLOCK-TIME ARITHMETIC
// =============================================================================
// Clock times are strict "HH:MM" strings. Parsing never fails loudly: a bad
// input yields ok=false and callers decide whether that blocks a workflow.

const minutesPerDay = 24 * 60

// ParseClockTime parses a strict HH:MM clock time into minutes since
// midnight. Only two-digit hours 00-23 and minutes 00-59 are accepted;
// anything else ("9:00", "25:00", "09:60", "") returns ok=false.
func ParseClockTime(s string) (minutes int, ok bool) {
	if len(s) != 5 || s[2] != ':' {
		return 0, false
	}
	for _, i := range [4]int{0, 1, 3, 4} {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	hh := int(s[0]-'0')*10 + int(s[1]-'0')
	mm := int(s[3]-'0')*10 + int(s[4]-'0')
	if hh > 23 || mm > 59 {
		return 0, false
	}
	return hh*60 + mm, true
}

// DurationHours computes the elapsed hours between two clock times. A
// timeOut earlier than timeIn is treated as crossing midnight exactly once,
// so the result is always in [0, 24). Returns ok=false if either side does
// not parse.
func DurationHours(timeIn, timeOut string) (hours float64, ok bool) {
	in, ok := ParseClockTime(timeIn)
	if !ok {
		return 0, false
	}
	out, ok := ParseClockTime(timeOut)
	if !ok {
		return 0, false
	}
	diff := out - in
	if diff < 0 {
		diff += minutesPerDay
	}
	return float64(diff) / 60, true
}

// RoundHours rounds a monetary-style hour value to 2 decimal digits using
// round-half-away-from-zero. Going through decimal keeps exact halves exact:
// RoundHours(7.005) is 7.01, not the 7.00 a naive float round produces.
func RoundHours(x float64) float64 {
	f, _ := decimal.NewFromFloat(x).Round(2).Float64()
	return f
}

// TotalHours applies the entry total policy: duration minus break, rounded,
// clamped at zero so an oversized break never yields a negative total.
// Returns ok=false if either clock time does not parse.
func TotalHours(timeIn, timeOut string, breakHours float64) (total float64, ok bool) {
	dur, ok := DurationHours(timeIn, timeOut)
	if !ok {
		return 0, false
	}
	t := decimal.NewFromFloat(dur).Sub(decimal.NewFromFloat(breakHours)).Round(2)
	if t.IsNegative() {
		return 0, true
	}
	f, _ := t.Float64()
	return f, true
}
