// Package category defines bookmark categories and the manifest that
// stores them inside the notes repository.
//
// The manifest is a TOML document with an ordered array of tables:
//
//	[[categories]]
//	  name = "video"
//	  alias = "Video"
//
// Order is significant: it is the display order and the default order.
package category

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/BurntSushi/toml"
)

// ManifestFileName is the manifest location relative to the working copy.
const ManifestFileName = "config.toml"

var (
	// ErrDecode is returned when a manifest is not valid TOML.
	ErrDecode = errors.New("failed to deserialize categories")

	// ErrEncode is returned when categories cannot be serialized.
	ErrEncode = errors.New("failed to serialize categories")

	// ErrInvalid is returned when a manifest decodes but breaks the
	// category rules (empty or duplicate names).
	ErrInvalid = errors.New("invalid categories")
)

// Category is a named bucket for bookmarks.
type Category struct {
	// Name is the unique identifier used on the command line.
	Name string `toml:"name"`

	// Alias is an optional display name.
	Alias string `toml:"alias,omitempty"`
}

// DisplayName returns the alias, falling back to the name.
func (c Category) DisplayName() string {
	if c.Alias != "" {
		return c.Alias
	}
	return c.Name
}

// Categories is the ordered set of categories held by the manifest.
type Categories struct {
	Categories []Category `toml:"categories"`
}

// Default returns the categories seeded into a fresh repository.
func Default() Categories {
	return Categories{
		Categories: []Category{
			{Name: "video", Alias: "Video"},
			{Name: "article", Alias: "Articles"},
			{Name: "books", Alias: "Books"},
		},
	}
}

// Len returns the number of categories.
func (c Categories) Len() int {
	return len(c.Categories)
}

// Validate checks that every name is non-empty and unique.
func (c Categories) Validate() error {
	seen := make(map[string]struct{}, len(c.Categories))
	for i, cat := range c.Categories {
		if cat.Name == "" {
			return fmt.Errorf("%w: category %d has an empty name", ErrInvalid, i)
		}
		if _, dup := seen[cat.Name]; dup {
			return fmt.Errorf("%w: duplicate category %q", ErrInvalid, cat.Name)
		}
		seen[cat.Name] = struct{}{}
	}
	return nil
}

// Encode serializes c in manifest form.
func Encode(c Categories) ([]byte, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncode, err)
	}
	return buf.Bytes(), nil
}

// Decode parses a manifest.
func Decode(data []byte) (Categories, error) {
	var c Categories
	if _, err := toml.Decode(string(data), &c); err != nil {
		return Categories{}, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	if err := c.Validate(); err != nil {
		return Categories{}, err
	}
	return c, nil
}
