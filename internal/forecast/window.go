package forecast

// UpcomingHours returns up to n records following the current index. With
// NotFound the window starts at the beginning of the series.
func UpcomingHours[T any](records []T, current, n int) []T {
	start := clamp(current+1, 0, len(records))
	end := clamp(start+n, start, len(records))
	return records[start:end]
}

// UpcomingDays returns every record after the current index
func UpcomingDays[T any](records []T, current int) []T {
	return records[clamp(current+1, 0, len(records)):]
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
