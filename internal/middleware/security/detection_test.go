package security

import (
	"net/http/httptest"
	"strings"
	"testing"
)

func TestDetectSuspiciousRequest(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		userAgent  string
		method     string
		suspicious bool
	}{
		{name: "plain api call", target: "/api/balance?date=2026-07-08", method: "GET", suspicious: false},
		{name: "path traversal", target: "/api/../../etc/passwd", method: "GET", suspicious: true},
		{name: "env probe", target: "/.env", method: "GET", suspicious: true},
		{name: "traversal in query", target: "/api/expenses?file=../../etc/passwd", method: "GET", suspicious: true},
		{name: "scanner user agent", target: "/api/balance", userAgent: "sqlmap/1.7", method: "GET", suspicious: true},
		{name: "browser user agent", target: "/api/balance", userAgent: "Mozilla/5.0", method: "GET", suspicious: false},
		{name: "trace method", target: "/api/balance", method: "TRACE", suspicious: true},
		{name: "oversized url", target: "/api/balance?q=" + strings.Repeat("a", 3000), method: "GET", suspicious: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDetector()
			r := httptest.NewRequest(tt.method, tt.target, nil)
			if tt.userAgent != "" {
				r.Header.Set("User-Agent", tt.userAgent)
			}
			if got := d.DetectSuspiciousRequest(r); got != tt.suspicious {
				t.Errorf("DetectSuspiciousRequest() = %v, want %v", got, tt.suspicious)
			}
			wantCount := int64(0)
			if tt.suspicious {
				wantCount = 1
			}
			if m := d.GetMetrics(); m.SuspiciousRequests != wantCount {
				t.Errorf("SuspiciousRequests = %d, want %d", m.SuspiciousRequests, wantCount)
			}
		})
	}
}

func TestExtractClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		xff        string
		realIP     string
		want       string
	}{
		{name: "direct connection", remoteAddr: "203.0.113.7:4431", want: "203.0.113.7"},
		{name: "trusted proxy forwards", remoteAddr: "10.0.0.1:9000", xff: "203.0.113.7", want: "203.0.113.7"},
		{name: "trusted proxy chain", remoteAddr: "127.0.0.1:9000", xff: "203.0.113.7, 10.0.0.1", want: "203.0.113.7"},
		{name: "untrusted proxy ignored", remoteAddr: "198.51.100.9:9000", xff: "203.0.113.7", want: "198.51.100.9"},
		{name: "real ip fallback", remoteAddr: "192.168.1.5:9000", realIP: "203.0.113.7", want: "203.0.113.7"},
		{name: "garbage forwarded value", remoteAddr: "10.0.0.1:9000", xff: "not-an-ip", want: "10.0.0.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDetector()
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				r.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.realIP != "" {
				r.Header.Set("X-Real-IP", tt.realIP)
			}
			if got := d.ExtractClientIP(r); got != tt.want {
				t.Errorf("ExtractClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAddTrustedProxy(t *testing.T) {
	d := NewDetector()
	if err := d.AddTrustedProxy("203.0.113.0/24"); err != nil {
		t.Fatalf("AddTrustedProxy: %v", err)
	}

	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "203.0.113.9:9000"
	r.Header.Set("X-Forwarded-For", "198.51.100.20")
	if got := d.ExtractClientIP(r); got != "198.51.100.20" {
		t.Errorf("ExtractClientIP() = %q, want forwarded IP", got)
	}

	if err := d.AddTrustedProxy("bogus"); err == nil {
		t.Fatal("expected error for invalid CIDR")
	}
}
