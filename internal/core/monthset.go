package core

import (
	"sort"
	"strconv"
	"strings"
)

// ParseMonthSet decodes a comma-separated month list ("1,4,7,10") into a
// sorted, deduplicated slice. An empty string yields nil, which callers
// treat as "use the frequency default".
func ParseMonthSet(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	seen := make(map[int]bool)
	var months []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		m, err := strconv.Atoi(part)
		if err != nil || m < 1 || m > 12 {
			return nil, ErrInvalidMonth
		}
		if !seen[m] {
			seen[m] = true
			months = append(months, m)
		}
	}
	sort.Ints(months)
	return months, nil
}

// FormatMonthSet encodes a month slice for storage. Nil and empty both
// encode to the empty string.
func FormatMonthSet(months []int) string {
	if len(months) == 0 {
		return ""
	}
	parts := make([]string, len(months))
	for i, m := range months {
		parts[i] = strconv.Itoa(m)
	}
	return strings.Join(parts, ",")
}
