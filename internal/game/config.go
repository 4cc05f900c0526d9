package game

import (
	"errors"
	"fmt"
)

// Config holds everything the map window needs at construction.
type Config struct {
	Viewport    ViewportConfig
	Backgrounds []BackgroundLayer

	// PickRadius is the screen-space radius in pixels within which a click
	// hits a system marker.
	PickRadius float64

	// ChatLogSize is the number of chat lines kept; ChatWrapWidth wraps long
	// messages at that many characters.
	ChatLogSize   int
	ChatWrapWidth int
}

// DefaultConfig returns the settings used by cmd/starmap.
func DefaultConfig() Config {
	return Config{
		Viewport:      DefaultViewportConfig(),
		Backgrounds:   DefaultBackgroundLayers(),
		PickRadius:    16,
		ChatLogSize:   60,
		ChatWrapWidth: 55,
	}
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if err := c.Viewport.Validate(); err != nil {
		return err
	}
	if c.PickRadius <= 0 {
		return errors.New("pick radius must be positive")
	}
	if c.ChatLogSize <= 0 {
		return errors.New("chat log size must be positive")
	}
	if c.ChatWrapWidth <= 0 {
		return errors.New("chat wrap width must be positive")
	}
	for _, l := range c.Backgrounds {
		if l.Rate < 0 {
			return fmt.Errorf("background %q: negative scroll rate", l.Name)
		}
	}
	return nil
}
