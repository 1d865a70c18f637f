// Package config holds the pinbox application settings: the remote the
// notes repository is cloned from and the token used to push to it.
//
// Settings are stored as TOML in <config dir>/pinbox/config.toml:
//
//	repository = "https://example.com/u/notes.git"
//	token = "..."
//
// Both keys are optional.
package config

import (
	"errors"
	"fmt"
	"net/url"
)

// Keys accepted by Set and Get.
const (
	KeyRepository = "git.repository"
	KeyToken      = "git.token"
)

var (
	// ErrInvalidURL is returned when a repository URL cannot be parsed.
	ErrInvalidURL = errors.New("failed to parse url from string")

	// ErrUnknownKey is returned by Set and Get for unrecognized keys.
	ErrUnknownKey = errors.New("unknown key")
)

// Config is the persisted application configuration.
type Config struct {
	Repository *URL    `toml:"repository,omitempty"`
	Token      *string `toml:"token,omitempty"`
}

// HasRepository reports whether a remote URL is configured.
func (c *Config) HasRepository() bool {
	return c != nil && c.Repository != nil
}

// TokenValue returns the configured token and whether one is set.
func (c *Config) TokenValue() (string, bool) {
	if c == nil || c.Token == nil {
		return "", false
	}
	return *c.Token, true
}

// Set assigns value to the setting named by key.
// git.repository values must be absolute URLs.
func (c *Config) Set(key, value string) error {
	switch key {
	case KeyRepository:
		u, err := ParseURL(value)
		if err != nil {
			return err
		}
		c.Repository = u
	case KeyToken:
		c.Token = &value
	default:
		return fmt.Errorf("%w %q", ErrUnknownKey, key)
	}
	return nil
}

// Get returns the value of the setting named by key and whether it is set.
func (c *Config) Get(key string) (string, bool, error) {
	switch key {
	case KeyRepository:
		if c.Repository == nil {
			return "", false, nil
		}
		return c.Repository.String(), true, nil
	case KeyToken:
		v, ok := c.TokenValue()
		return v, ok, nil
	default:
		return "", false, fmt.Errorf("%w %q", ErrUnknownKey, key)
	}
}

// URL is an absolute URL that round-trips through TOML as a string.
type URL struct {
	url.URL
}

// ParseURL parses raw and requires it to carry a scheme.
func ParseURL(raw string) (*URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}
	if !u.IsAbs() {
		return nil, fmt.Errorf("%w: %q: relative URL without a base", ErrInvalidURL, raw)
	}
	return &URL{URL: *u}, nil
}

// MarshalText implements encoding.TextMarshaler.
func (u URL) MarshalText() ([]byte, error) {
	return []byte(u.URL.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (u *URL) UnmarshalText(text []byte) error {
	parsed, err := ParseURL(string(text))
	if err != nil {
		return err
	}
	*u = *parsed
	return nil
}
