package logging

import "strings"

const (
	// URLMaskLength is how many characters of a URL to show before masking.
	URLMaskLength = 30
	maskSuffix    = "***"
)

// MaskURL masks a URL, showing only the first URLMaskLength characters.
// Webhook URLs carry tokens in their path, so they never appear whole in logs.
func MaskURL(url string) string {
	if len(url) <= URLMaskLength {
		return url
	}
	if strings.Contains(url, "localhost") || strings.Contains(url, "127.0.0.1") {
		return url
	}
	return url[:URLMaskLength] + maskSuffix
}
