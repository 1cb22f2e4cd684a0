package tui

import (
	"github.com/Veraticus/malex-office/internal/format"
	"github.com/Veraticus/malex-office/internal/tui/themes"
)

// Config holds TUI configuration.
type Config struct {
	Theme  themes.Theme
	Clock  format.Clock
	User   string
	Width  int
	Height int
}

// Option is a functional option for configuring the TUI.
type Option func(*Config)

func defaultConfig() Config {
	return Config{
		Theme:  themes.Default,
		Clock:  format.NewClock(nil, 0),
		Width:  120,
		Height: 30,
	}
}

// WithTheme sets the visual theme.
func WithTheme(theme themes.Theme) Option {
	return func(c *Config) {
		c.Theme = theme
	}
}

// WithClock sets how record timestamps are displayed.
func WithClock(clock format.Clock) Option {
	return func(c *Config) {
		c.Clock = clock
	}
}

// WithUser shows the signed-in user in the header.
func WithUser(name string) Option {
	return func(c *Config) {
		c.User = name
	}
}

// WithSize sets the initial terminal size.
func WithSize(width, height int) Option {
	return func(c *Config) {
		c.Width = width
		c.Height = height
	}
}
