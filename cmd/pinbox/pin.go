package main

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Content is what gets pinned: a link, or a plain title.
type Content struct {
	URL   *url.URL
	Title string
}

// ParseContent treats absolute http and https URLs as links and anything
// else as a title.
func ParseContent(raw string) Content {
	if u, err := url.Parse(raw); err == nil && u.Host != "" && (u.Scheme == "http" || u.Scheme == "https") {
		return Content{URL: u}
	}
	return Content{Title: raw}
}

// IsURL reports whether c is a link.
func (c Content) IsURL() bool {
	return c.URL != nil
}

func (c Content) String() string {
	if c.IsURL() {
		return c.URL.String()
	}
	return c.Title
}

func newPinCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "pin <category> <content>",
		Short: "Pin a link or a title to a category",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			content := ParseContent(args[1])
			a.logger.Debug("pin",
				zap.String("category", args[0]),
				zap.Bool("url", content.IsURL()),
				zap.Stringer("content", content),
			)
			return fmt.Errorf("pin: %w", ErrNotImplemented)
		},
	}
}
