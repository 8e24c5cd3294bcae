package http

import (
	"net/http/httptest"
	"testing"
	"time"
)

func TestRateLimiterWindow(t *testing.T) {
	rl := newRateLimiter(3)
	defer rl.stop()
	now := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }
	metrics := &securityMetrics{}

	for i := 0; i < 3; i++ {
		if !rl.allow("1.2.3.4", metrics) {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if rl.allow("1.2.3.4", metrics) {
		t.Fatal("fourth request in the window should be limited")
	}
	if !rl.allow("5.6.7.8", metrics) {
		t.Fatal("other clients are not affected")
	}
	if metrics.rateLimitHits != 1 {
		t.Fatalf("expected 1 hit, got %d", metrics.rateLimitHits)
	}

	now = now.Add(time.Minute)
	if !rl.allow("1.2.3.4", metrics) {
		t.Fatal("a new window should reset the counter")
	}

	now = now.Add(11 * time.Minute)
	if removed := rl.cleanupStaleEntries(); removed != 2 {
		t.Fatalf("expected 2 stale clients removed, got %d", removed)
	}
}

func TestExtractClientIP(t *testing.T) {
	cases := []struct {
		name   string
		remote string
		xff    string
		xri    string
		want   string
	}{
		{"direct", "203.0.113.7:5555", "", "", "203.0.113.7"},
		{"untrusted proxy ignored", "203.0.113.7:5555", "198.51.100.1", "", "203.0.113.7"},
		{"trusted proxy forwarded", "10.0.0.2:5555", "198.51.100.1, 10.0.0.2", "", "198.51.100.1"},
		{"trusted proxy real ip", "127.0.0.1:5555", "", "198.51.100.9", "198.51.100.9"},
		{"trusted proxy garbage", "127.0.0.1:5555", "not-an-ip", "", "127.0.0.1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tc.remote
			if tc.xff != "" {
				r.Header.Set("X-Forwarded-For", tc.xff)
			}
			if tc.xri != "" {
				r.Header.Set("X-Real-IP", tc.xri)
			}
			if got := extractClientIP(r); got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestDetectSuspiciousRequest(t *testing.T) {
	metrics := &securityMetrics{}
	if detectSuspiciousRequest(httptest.NewRequest("GET", "/api/transactions?search=pain", nil), metrics) {
		t.Fatal("plain request flagged")
	}
	if !detectSuspiciousRequest(httptest.NewRequest("GET", "/.env", nil), metrics) {
		t.Fatal("dotenv probe not flagged")
	}
	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("User-Agent", "sqlmap/1.7")
	if !detectSuspiciousRequest(r, metrics) {
		t.Fatal("scanner agent not flagged")
	}
	if metrics.suspiciousRequests != 2 {
		t.Fatalf("expected 2 suspicious requests, got %d", metrics.suspiciousRequests)
	}
}
