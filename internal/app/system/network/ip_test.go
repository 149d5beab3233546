package network

import (
	"net/http/httptest"
	"testing"
)

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		xff        string
		xRealIP    string
		remoteAddr string
		want       string
	}{
		{"forwarded single", "192.168.1.1", "", "10.0.0.1:12345", "192.168.1.1"},
		{"forwarded chain", "192.168.1.1, 10.0.0.2, 172.16.0.1", "", "10.0.0.1:12345", "192.168.1.1"},
		{"forwarded spaces", "  192.168.1.1  ", "", "10.0.0.1:12345", "192.168.1.1"},
		{"forwarded empty first hop", " , 10.0.0.2", "", "10.0.0.1:12345", "10.0.0.1"},
		{"real ip", "", "192.168.1.1", "10.0.0.1:12345", "192.168.1.1"},
		{"forwarded beats real ip", "192.168.1.1", "10.0.0.2", "10.0.0.1:12345", "192.168.1.1"},
		{"remote with port", "", "", "192.168.1.1:12345", "192.168.1.1"},
		{"remote without port", "", "", "192.168.1.1", "192.168.1.1"},
		{"ipv6 with port", "", "", "[::1]:8080", "::1"},
		{"ipv6 bare", "", "", "[2001:db8::1]", "2001:db8::1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				r.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xRealIP != "" {
				r.Header.Set("X-Real-IP", tt.xRealIP)
			}
			if got := ClientIP(r); got != tt.want {
				t.Errorf("ClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}
