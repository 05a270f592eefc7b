package utils

import (
	"net/http"
	"strings"
)

// SanitizeHeaders hides credential-bearing header values before logging.
func SanitizeHeaders(headers http.Header) http.Header {
	sanitized := headers.Clone()

	sensitiveKeys := []string{
		"Authorization",
		"X-API-Key",
		"Cookie",
		"Set-Cookie",
		"Api-Key",
	}

	for _, key := range sensitiveKeys {
		if val := sanitized.Get(key); val != "" {
			if len(val) > 8 {
				sanitized.Set(key, "***"+val[len(val)-4:])
			} else {
				sanitized.Set(key, "***")
			}
		}
	}

	return sanitized
}

// SanitizeAPIKey shows only the last 4 characters of a key.
func SanitizeAPIKey(apiKey string) string {
	if apiKey == "" {
		return "(unset)"
	}
	if len(apiKey) > 4 {
		return "***" + apiKey[len(apiKey)-4:]
	}
	return "***"
}

// SanitizeURL masks credential-looking query parameter values.
func SanitizeURL(urlStr string) string {
	sensitiveParams := []string{"token", "key", "password", "secret", "api_key"}

	for _, param := range sensitiveParams {
		if strings.Contains(strings.ToLower(urlStr), param+"=") {
			urlStr = strings.ReplaceAll(urlStr, param+"=", param+"=***")
		}
	}

	return urlStr
}
