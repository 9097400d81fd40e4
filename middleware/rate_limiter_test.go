package middleware

import (
	"net/http/httptest"
	"testing"
	"time"
)

func TestClientIPGenericNoTrustedProxies(t *testing.T) {
	r := httptest.NewRequest("GET", "/v1/tasks", nil)
	r.RemoteAddr = "203.0.113.7:54321"
	r.Header.Set("X-Forwarded-For", "198.51.100.1")

	ip := clientIPGeneric(r, nil)
	if ip != "203.0.113.7" {
		t.Fatalf("expected remote addr host, got %q", ip)
	}
}

func TestClientIPGenericTrustedCIDR(t *testing.T) {
	r := httptest.NewRequest("GET", "/v1/tasks", nil)
	r.RemoteAddr = "10.0.0.5:443"
	r.Header.Set("X-Forwarded-For", "198.51.100.1, 10.0.0.5")

	ip := clientIPGeneric(r, []string{"10.0.0.0/8"})
	if ip != "198.51.100.1" {
		t.Fatalf("expected first X-Forwarded-For entry, got %q", ip)
	}
}

func TestClientIPGenericUntrustedIgnoresHeaders(t *testing.T) {
	r := httptest.NewRequest("GET", "/v1/tasks", nil)
	r.RemoteAddr = "203.0.113.7:1000"
	r.Header.Set("X-Forwarded-For", "198.51.100.1")
	r.Header.Set("X-Real-IP", "198.51.100.2")

	ip := clientIPGeneric(r, []string{"10.0.0.0/8"})
	if ip != "203.0.113.7" {
		t.Fatalf("expected headers ignored for untrusted proxy, got %q", ip)
	}
}

func TestClientIPGenericTrustedSingleIP(t *testing.T) {
	r := httptest.NewRequest("GET", "/v1/tasks", nil)
	r.RemoteAddr = "192.0.2.10:8080"
	r.Header.Set("X-Real-IP", "198.51.100.2")

	ip := clientIPGeneric(r, []string{"192.0.2.10"})
	if ip != "198.51.100.2" {
		t.Fatalf("expected X-Real-IP for trusted proxy, got %q", ip)
	}
}

func TestLockoutDurationProgression(t *testing.T) {
	cases := []struct {
		failures int
		want     time.Duration
	}{
		{1, time.Minute},
		{2, 5 * time.Minute},
		{3, 15 * time.Minute},
		{4, 30 * time.Minute},
		{10, 30 * time.Minute},
	}
	for _, c := range cases {
		if got := lockoutDuration(c.failures); got != c.want {
			t.Fatalf("failures=%d: expected %v, got %v", c.failures, c.want, got)
		}
	}
}

func TestRetryAfterSeconds(t *testing.T) {
	now := nowUnix()
	window := int64(time.Minute)
	arr := timestamps{now - int64(30*time.Second)}

	got := retryAfterSeconds(arr, now, window)
	if got < 29 || got > 30 {
		t.Fatalf("expected ~30s retry, got %d", got)
	}

	expired := timestamps{now - int64(2*time.Minute)}
	if got := retryAfterSeconds(expired, now, window); got != 1 {
		t.Fatalf("expected floor of 1s, got %d", got)
	}
}
