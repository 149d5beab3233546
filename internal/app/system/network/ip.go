// Package network extracts caller addresses for audit records.
package network

import (
	"net"
	"net/http"
	"strings"
)

// ClientIP returns the caller's address. The first X-Forwarded-For hop
// wins, then X-Real-IP, then RemoteAddr without its port. IPv6 brackets
// are removed.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return strings.Trim(r.RemoteAddr, "[]")
}
