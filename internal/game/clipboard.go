package game

import "github.com/atotto/clipboard"

// Clipboard is the system clipboard as the map window uses it.
type Clipboard interface {
	WriteAll(text string) error
	ReadAll() (string, error)
}

// SystemClipboard uses the host clipboard.
type SystemClipboard struct{}

func (SystemClipboard) WriteAll(text string) error { return clipboard.WriteAll(text) }
func (SystemClipboard) ReadAll() (string, error)   { return clipboard.ReadAll() }

// Unsupported reports whether the host has no usable clipboard utility.
func (SystemClipboard) Unsupported() bool { return clipboard.Unsupported }

// MemoryClipboard keeps the clipboard in process. Used headless and in tests.
type MemoryClipboard struct {
	Text string
}

func (c *MemoryClipboard) WriteAll(text string) error {
	c.Text = text
	return nil
}

func (c *MemoryClipboard) ReadAll() (string, error) { return c.Text, nil }
