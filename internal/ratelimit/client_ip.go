package ratelimit

import "strings"

// LoopbackIdentifier is used when no proxy header names the client.
const LoopbackIdentifier = "127.0.0.1"

// ClientIdentifier derives the rate limit key from proxy headers in priority
// order: CF-Connecting-IP, the first X-Forwarded-For entry, X-Real-IP.
func ClientIdentifier(header func(string) string) string {
	if ip := strings.TrimSpace(header("CF-Connecting-IP")); ip != "" {
		return ip
	}
	if xff := header("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if ip := strings.TrimSpace(header("X-Real-IP")); ip != "" {
		return ip
	}
	return LoopbackIdentifier
}
