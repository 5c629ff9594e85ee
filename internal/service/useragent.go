package service

import (
	"net"
	"net/http"
	"strings"
)

// DeviceType classifies a user agent as mobile, tablet or desktop by a
// case-insensitive "mobile" then "tablet" substring.
func DeviceType(ua string) string {
	lower := strings.ToLower(ua)
	switch {
	case strings.Contains(lower, "mobile"):
		return "mobile"
	case strings.Contains(lower, "tablet"):
		return "tablet"
	default:
		return "desktop"
	}
}

// BrowserName checks Chrome, Firefox, Safari, then Edge, in that order.
func BrowserName(ua string) string {
	lower := strings.ToLower(ua)
	switch {
	case strings.Contains(lower, "chrome"):
		return "Chrome"
	case strings.Contains(lower, "firefox"):
		return "Firefox"
	case strings.Contains(lower, "safari"):
		return "Safari"
	case strings.Contains(lower, "edge"):
		return "Edge"
	default:
		return "Other"
	}
}

// countryHeaders are consulted in order; the first non-empty value wins.
var countryHeaders = []string{"x-vercel-ip-country", "cf-ipcountry", "x-country-code"}

// CountryFromHeaders returns the upper-cased country code set by the edge, or "".
func CountryFromHeaders(h http.Header) string {
	return countryFrom(h.Get)
}

func countryFrom(header func(string) string) string {
	for _, name := range countryHeaders {
		if v := strings.TrimSpace(header(name)); v != "" {
			return strings.ToUpper(v)
		}
	}
	return ""
}

// RequestInfo is the client metadata attached to analytics events.
type RequestInfo struct {
	UserAgent string
	Referer   string
	Country   string
	IP        string
}

func RequestInfoFrom(r *http.Request) RequestInfo {
	return NewRequestInfo(r.Header.Get, r.RemoteAddr)
}

// NewRequestInfo builds RequestInfo from a header lookup and the peer address.
func NewRequestInfo(header func(string) string, remoteAddr string) RequestInfo {
	return RequestInfo{
		UserAgent: header("User-Agent"),
		Referer:   header("Referer"),
		Country:   countryFrom(header),
		IP:        clientIP(header("X-Forwarded-For"), remoteAddr),
	}
}

func clientIP(forwardedFor, remoteAddr string) string {
	if forwardedFor != "" {
		return strings.TrimSpace(strings.SplitN(forwardedFor, ",", 2)[0])
	}
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return host
}
