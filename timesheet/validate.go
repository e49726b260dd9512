package timesheet

// =============================================================================
// SHARED VALIDATION HELPERS
// =============================================================================
// Dates are ISO YYYY-MM-DD strings throughout, which makes lexicographic
// comparison equivalent to temporal comparison. Validation checks shape,
// not the calendar: the record schema treats dates as opaque ordered keys.

// ValidDate reports whether s has the strict YYYY-MM-DD shape.
func ValidDate(s string) bool {
	if len(s) != 10 || s[4] != '-' || s[7] != '-' {
		return false
	}
	for _, i := range [8]int{0, 1, 2, 3, 5, 6, 8, 9} {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// ValidPeriod reports whether both bounds are well-formed dates with
// start <= end.
func ValidPeriod(start, end string) bool {
	return ValidDate(start) && ValidDate(end) && start <= end
}

// inPeriod reports whether date lies within [start, end]. ISO dates compare
// correctly as strings.
func inPeriod(date, start, end string) bool {
	return date >= start && date <= end
}
