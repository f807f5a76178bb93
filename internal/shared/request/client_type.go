package request

import "strings"

const (
	ClientTypeWeb    = "web"
	ClientTypeMobile = "mobile"
	ClientTypeAPI    = "api"
)

// ResolveClientType prefers the explicit X-Client-Type header and falls
// back to sniffing the user agent for browser traffic.
func ResolveClientType(header, userAgent string) string {
	switch strings.ToLower(strings.TrimSpace(header)) {
	case ClientTypeWeb:
		return ClientTypeWeb
	case ClientTypeMobile:
		return ClientTypeMobile
	case ClientTypeAPI:
		return ClientTypeAPI
	}

	if strings.Contains(userAgent, "Mozilla") {
		return ClientTypeWeb
	}
	return ClientTypeAPI
}

// IsWebClient reports whether auth tokens should also be set as cookies.
func IsWebClient(clientType string) bool {
	return clientType == ClientTypeWeb
}
