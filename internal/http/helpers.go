package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"bilancio/internal/core"
)

// parseDate parses a date string in YYYY-MM-DD format.
func parseDate(dateStr string) (core.Date, error) {
	parsedTime, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return core.Date{}, err
	}
	return core.Date{Time: parsedTime}, nil
}

// queryDate reads a YYYY-MM-DD date from the named query parameter,
// defaulting to today when absent. ok is false on a malformed value.
func queryDate(r *http.Request, name string) (d core.Date, ok bool) {
	v := strings.TrimSpace(r.URL.Query().Get(name))
	if v == "" {
		now := time.Now()
		return core.NewDate(now.Year(), int(now.Month()), now.Day()), true
	}
	d, err := parseDate(v)
	if err != nil {
		return core.Date{}, false
	}
	return d, true
}

// queryID reads a positive numeric id from the "id" query parameter.
func queryID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(r.URL.Query().Get("id")), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// queryInt reads an integer query parameter with a default.
// ok is false on a malformed value.
func queryInt(r *http.Request, name string, def int) (n int, ok bool) {
	v := strings.TrimSpace(r.URL.Query().Get(name))
	if v == "" {
		return def, true
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

// sanitizeInput removes potentially dangerous characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	result := strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
	return result
}
