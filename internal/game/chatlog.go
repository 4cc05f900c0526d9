package game

import "strings"

// ChatEntry is one line in the chat log.
type ChatEntry struct {
	Turn   int
	Sender string // empty for system messages
	Text   string
}

// ChatLog is a ring buffer of chat lines. Long messages are wrapped on entry
// so every entry fits one rendered row.
type ChatLog struct {
	entries []ChatEntry
	head    int
	count   int
	wrap    int
}

// NewChatLog creates a chat log holding at most capacity lines.
func NewChatLog(capacity, wrapWidth int) *ChatLog {
	if capacity < 1 {
		capacity = 1
	}
	return &ChatLog{
		entries: make([]ChatEntry, capacity),
		wrap:    wrapWidth,
	}
}

// Add appends a message, evicting the oldest lines when full.
func (cl *ChatLog) Add(turn int, sender, text string) {
	for _, line := range wrapText(text, cl.wrap) {
		cl.entries[cl.head] = ChatEntry{Turn: turn, Sender: sender, Text: line}
		cl.head = (cl.head + 1) % len(cl.entries)
		if cl.count < len(cl.entries) {
			cl.count++
		}
	}
}

// Recent returns up to n entries in chronological order (oldest first).
// n <= 0 returns everything.
func (cl *ChatLog) Recent(n int) []ChatEntry {
	if n <= 0 || n > cl.count {
		n = cl.count
	}
	size := len(cl.entries)
	result := make([]ChatEntry, n)
	for i := 0; i < n; i++ {
		idx := (cl.head - n + i + size) % size
		result[i] = cl.entries[idx]
	}
	return result
}

func (cl *ChatLog) Len() int { return cl.count }

// Clear drops every entry.
func (cl *ChatLog) Clear() {
	clear(cl.entries)
	cl.head = 0
	cl.count = 0
}

// wrapText splits s into lines no longer than maxWidth where word breaks
// allow. A single word longer than maxWidth gets its own line.
func wrapText(s string, maxWidth int) []string {
	if maxWidth <= 0 || len(s) <= maxWidth {
		return []string{s}
	}
	words := strings.Fields(s)
	if len(words) == 0 {
		return []string{""}
	}
	var result []string
	line := words[0]
	for _, w := range words[1:] {
		if len(line)+1+len(w) > maxWidth {
			result = append(result, line)
			line = w
		} else {
			line += " " + w
		}
	}
	return append(result, line)
}
