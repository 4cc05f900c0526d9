package game

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Garsondee/Star-Map/internal/logging"
)

const consoleSender = "console"

// OpenChatWindow opens the chat input line. Typing keys stop reaching the
// accelerators until the line is closed.
func (w *MapWnd) OpenChatWindow() bool { return w.openTextInput(inputChat) }

// OpenConsoleWindow opens the console input line.
func (w *MapWnd) OpenConsoleWindow() bool { return w.openTextInput(inputConsole) }

func (w *MapWnd) openTextInput(kind textInputKind) bool {
	if w.input != inputNone {
		return false
	}
	w.input = kind
	w.inputLine = ""
	w.accels.DisableAlphaNumAccels()
	w.inputFilter = w.PushEventFilter(w.textInputFilter)
	return true
}

// CloseTextInput closes the chat or console line and gives the typing keys
// back to the accelerators. Returns false if nothing was open.
func (w *MapWnd) CloseTextInput() bool {
	if w.input == inputNone {
		return false
	}
	w.input = inputNone
	w.inputLine = ""
	w.inputFilter.Remove()
	w.inputFilter = FilterHandle{}
	w.EnableAlphaNumAccels()
	return true
}

// textInputFilter sits in front of the map while a text line is open.
// Mouse events and non-typing keys pass through.
func (w *MapWnd) textInputFilter(ev InputEvent) bool {
	switch ev.Kind {
	case EventTextInput:
		w.inputLine += ev.Text
		return true
	case EventKeyPress:
	default:
		return false
	}

	switch {
	case ev.Key == ebiten.KeyEscape && ev.Mods == 0:
		w.CloseTextInput()
	case (ev.Key == ebiten.KeyEnter || ev.Key == ebiten.KeyNumpadEnter) && ev.Mods == 0:
		w.submitTextInput()
	case ev.Key == ebiten.KeyBackspace:
		if _, size := utf8.DecodeLastRuneInString(w.inputLine); size > 0 {
			w.inputLine = w.inputLine[:len(w.inputLine)-size]
		}
	case ev.Key == ebiten.KeyV && ev.Mods == ModCtrl:
		w.pasteIntoInput()
	default:
		return Accel{Key: ev.Key, Mods: ev.Mods}.isAlphaNum()
	}
	return true
}

func (w *MapWnd) pasteIntoInput() {
	text, err := w.clipboard.ReadAll()
	if err != nil {
		w.log.Warn("paste into chat", logging.Err(err))
		return
	}
	if i := strings.IndexAny(text, "\r\n"); i >= 0 {
		text = text[:i]
	}
	w.inputLine += text
}

func (w *MapWnd) submitTextInput() {
	kind, line := w.input, strings.TrimSpace(w.inputLine)
	w.CloseTextInput()
	if line == "" {
		return
	}
	switch kind {
	case inputChat:
		w.sendChat(line)
	case inputConsole:
		w.chatLog.Add(w.turn, consoleSender, "> "+line)
		w.chatLog.Add(w.turn, consoleSender, w.runConsoleCommand(line))
	}
}

func (w *MapWnd) sendChat(text string) {
	if w.chat == nil {
		w.chatLog.Add(w.turn, "", "not connected to chat")
		return
	}
	if err := w.chat.Send(text); err != nil {
		w.log.Warn("send chat message", logging.Err(err))
		w.chatLog.Add(w.turn, "", "message not sent")
	}
}

// HandlePlayerChatMessage shows an incoming chat message.
func (w *MapWnd) HandlePlayerChatMessage(text string) {
	w.chatLog.Add(w.turn, "", text)
}

// PollChat moves every message waiting on the chat transport into the chat
// log without blocking. Returns the number of messages taken.
func (w *MapWnd) PollChat() int {
	if w.chat == nil {
		return 0
	}
	in := w.chat.Incoming()
	n := 0
	for {
		select {
		case msg, ok := <-in:
			if !ok {
				w.log.Info("chat transport closed")
				w.chat = nil
				return n
			}
			w.HandlePlayerChatMessage(msg)
			n++
		default:
			return n
		}
	}
}

// runConsoleCommand executes one console line and returns its output.
func (w *MapWnd) runConsoleCommand(line string) string {
	args := strings.Fields(line)
	switch args[0] {
	case "help":
		return "commands: zoom <factor>, center <x> <y>, names on|off, home, turn"
	case "zoom":
		if len(args) != 2 {
			return "usage: zoom <factor>"
		}
		z, err := strconv.ParseFloat(args[1], 64)
		if err != nil || !finite(z) {
			return fmt.Sprintf("bad zoom %q", args[1])
		}
		w.track(func() { w.viewport.SetZoom(z) })
		w.refreshMetrics()
		return fmt.Sprintf("zoom %.2f", w.viewport.ZoomFactor())
	case "center":
		if len(args) != 3 {
			return "usage: center <x> <y>"
		}
		x, errX := strconv.ParseFloat(args[1], 64)
		y, errY := strconv.ParseFloat(args[2], 64)
		if errX != nil || errY != nil || !finite(x) || !finite(y) {
			return "bad coordinates"
		}
		w.CenterOnMapCoord(Vec2{X: x, Y: y})
		c := w.viewport.Center()
		return fmt.Sprintf("centre %.0f,%.0f", c.X, c.Y)
	case "names":
		if len(args) == 2 && args[1] == "off" {
			w.HideSystemNames()
			return "system names hidden"
		}
		w.ShowSystemNames()
		return "system names shown"
	case "home":
		if !w.ZoomToHomeSystem() {
			return "no home system"
		}
		return "home"
	case "turn":
		return fmt.Sprintf("turn %d", w.turn)
	default:
		return fmt.Sprintf("unknown command %q", args[0])
	}
}
