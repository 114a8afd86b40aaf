// Package validate provides input validation helpers for the Punctual CLI.
package validate

import (
	"net"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/manav03panchal/punctual/internal/errors"
)

const (
	// MaxNameLength is the maximum length for a source or webhook name.
	MaxNameLength = 50
	// MaxTitleLength is the maximum length for a meeting title.
	MaxTitleLength = 200
	// MaxURLLength is the maximum length for a URL.
	MaxURLLength = 2048
)

var nameRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]*$`)

// Name validates a source or webhook name.
func Name(name string) error {
	if name == "" {
		return errors.NewUserError("Name cannot be empty", "Provide a short name like 'work'")
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return errors.NewUserErrorWithField("name", name,
			"Name too long",
			"Names must be 50 characters or fewer")
	}
	if !nameRegex.MatchString(name) {
		return errors.NewUserErrorWithField("name", name,
			"Invalid name",
			"Names must be alphanumeric with dashes, underscores, or periods")
	}
	return nil
}

// Title validates a meeting title.
func Title(title string) error {
	if strings.TrimSpace(title) == "" {
		return errors.NewUserError("Title cannot be empty", "Provide a meeting title")
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return errors.NewUserError(
			"Title too long",
			"Titles must be 200 characters or fewer")
	}
	return nil
}

// FeedURL validates a calendar feed URL. Unlike webhook URLs, internal
// hosts are allowed: people point Punctual at CalDAV servers on their LAN.
func FeedURL(rawURL string) error {
	parsed, err := parseURL(rawURL)
	if err != nil {
		return err
	}
	if parsed.Scheme != "https" && parsed.Scheme != "http" && parsed.Scheme != "webcal" {
		return errors.NewUserErrorWithField("url", rawURL,
			"Invalid URL scheme",
			"Feed URLs must use https://, http://, or webcal://")
	}
	return nil
}

// WebhookURL validates a URL for use as a webhook endpoint.
func WebhookURL(rawURL string) error {
	parsed, err := parseURL(rawURL)
	if err != nil {
		return err
	}

	if parsed.Scheme != "https" && parsed.Scheme != "http" {
		return errors.NewUserErrorWithField("url", rawURL,
			"Invalid URL scheme",
			"URLs must use https:// (or http:// for localhost)")
	}

	hostname := parsed.Hostname()
	isLocalhost := hostname == "localhost" || hostname == "127.0.0.1" || hostname == "::1"

	if parsed.Scheme == "http" && !isLocalhost {
		return errors.NewUserErrorWithField("url", rawURL,
			"HTTP not allowed for external URLs",
			"Use https:// for security. HTTP is only allowed for localhost.")
	}

	// SSRF protection: webhook payloads carry meeting details, so refuse
	// endpoints that resolve into private ranges.
	if !isLocalhost {
		if err := checkInternalIP(hostname); err != nil {
			return err
		}
	}

	return nil
}

func parseURL(rawURL string) (*url.URL, error) {
	if rawURL == "" {
		return nil, errors.NewUserError("URL cannot be empty", "Provide a valid URL")
	}
	if len(rawURL) > MaxURLLength {
		return nil, errors.NewUserError("URL too long", "URLs must be 2048 characters or fewer")
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, errors.NewUserErrorWithField("url", rawURL,
			"Invalid URL format",
			"Provide a valid URL starting with https://")
	}
	if parsed.Hostname() == "" {
		return nil, errors.NewUserErrorWithField("url", rawURL,
			"Invalid URL: missing hostname",
			"Provide a valid URL like https://example.com/calendar.ics")
	}
	return parsed, nil
}

// checkInternalIP checks if a hostname resolves to an internal IP.
func checkInternalIP(hostname string) error {
	if ip := net.ParseIP(hostname); ip != nil {
		if isInternalIP(ip) {
			return errors.NewUserErrorWithField("url", hostname,
				"Internal IP addresses not allowed",
				"Webhook URLs must point to external services")
		}
		return nil
	}

	// DNS failure is fine here; the webhook will fail later with a
	// clearer error.
	ips, err := net.LookupIP(hostname)
	if err != nil {
		return nil
	}

	for _, ip := range ips {
		if isInternalIP(ip) {
			return errors.NewUserErrorWithField("url", hostname,
				"Hostname resolves to internal IP",
				"Webhook URLs must point to external services")
		}
	}

	return nil
}

// isInternalIP checks if an IP is in a private/internal range.
func isInternalIP(ip net.IP) bool {
	privateRanges := []string{
		"10.0.0.0/8",     // RFC 1918
		"172.16.0.0/12",  // RFC 1918
		"192.168.0.0/16", // RFC 1918
		"127.0.0.0/8",    // Loopback (except explicit localhost check)
		"169.254.0.0/16", // Link-local
		"fc00::/7",       // IPv6 private
		"fe80::/10",      // IPv6 link-local
		"::1/128",        // IPv6 loopback
	}

	for _, cidr := range privateRanges {
		_, network, err := net.ParseCIDR(cidr)
		if err != nil {
			continue
		}
		if network.Contains(ip) {
			return true
		}
	}

	return false
}

// NonEmpty validates that a string is not empty.
func NonEmpty(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return errors.NewUserError(
			field+" cannot be empty",
			"Provide a value for "+field)
	}
	return nil
}

// InRange validates that an integer is within a range.
func InRange(field string, value, min, max int) error {
	if value < min || value > max {
		return errors.NewUserErrorWithField(field, strconv.Itoa(value),
			"Value out of range",
			"Must be between "+strconv.Itoa(min)+" and "+strconv.Itoa(max))
	}
	return nil
}
