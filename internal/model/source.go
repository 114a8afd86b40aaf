package model

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Source is a named iCalendar feed the daemon syncs events from.
type Source struct {
	Key       string    `json:"key"`
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
	LastSync  time.Time `json:"last_sync,omitempty"`
	LastError string    `json:"last_error,omitempty"`
}

// SetKey sets the database key for this source.
func (s *Source) SetKey(key string) {
	s.Key = key
}

// GetKey returns the database key for this source.
func (s *Source) GetKey() string {
	return s.Key
}

// GenerateSourceKey generates a database key for a source.
func GenerateSourceKey(id string) string {
	return fmt.Sprintf("%s:%s", PrefixSource, id)
}

// NewSource creates a source with the given name and feed URL.
func NewSource(id, name, feedURL string) *Source {
	return &Source{
		Key:       GenerateSourceKey(id),
		ID:        id,
		Name:      name,
		URL:       feedURL,
		CreatedAt: time.Now(),
	}
}

// Validate checks that the source has a name and a usable http(s) URL.
func (s *Source) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("source name is required")
	}
	u, err := url.Parse(s.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("source URL must be http(s): %q", s.URL)
	}
	return nil
}
