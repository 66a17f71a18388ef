package editor

import (
	"strings"

	"github.com/gdamore/tcell/v2"
)

// keyName normalizes a tcell key event into the keymap notation used
// in the config, e.g. "ctrl+f", "alt+enter", "backspace".
func keyName(ev *tcell.EventKey) string {
	var parts []string
	mod := ev.Modifiers()
	if mod&tcell.ModCtrl != 0 {
		parts = append(parts, "ctrl")
	}
	if mod&tcell.ModAlt != 0 {
		parts = append(parts, "alt")
	}

	var base string
	switch ev.Key() {
	case tcell.KeyEnter:
		base = "enter"
	case tcell.KeyTab:
		base = "tab"
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		base = "backspace"
	case tcell.KeyDelete:
		base = "del"
	case tcell.KeyUp:
		base = "up"
	case tcell.KeyDown:
		base = "down"
	case tcell.KeyLeft:
		base = "left"
	case tcell.KeyRight:
		base = "right"
	case tcell.KeyHome:
		base = "home"
	case tcell.KeyEnd:
		base = "end"
	case tcell.KeyPgUp:
		base = "pgup"
	case tcell.KeyPgDn:
		base = "pgdown"
	case tcell.KeyEsc:
		base = "esc"
	case tcell.KeyRune:
		r := ev.Rune()
		if r == ' ' {
			base = "space"
		} else {
			base = strings.ToLower(string(r))
		}
	default:
		// Ctrl-letter chords arrive as dedicated key codes.
		if ev.Key() >= tcell.KeyCtrlA && ev.Key() <= tcell.KeyCtrlZ {
			if mod&tcell.ModCtrl == 0 {
				parts = append([]string{"ctrl"}, parts...)
			}
			base = string(rune('a' + ev.Key() - tcell.KeyCtrlA))
		} else if ev.Key() == tcell.KeyCtrlSpace {
			if mod&tcell.ModCtrl == 0 {
				parts = append([]string{"ctrl"}, parts...)
			}
			base = "space"
		} else {
			return ""
		}
	}
	parts = append(parts, base)
	return strings.Join(parts, "+")
}

// HandleKey dispatches one key event through the keymap. Unbound plain
// runes become self-insert; unbound chords are reported and dropped.
// The returned error is whatever the executed command returned.
func (e *Editor) HandleKey(ev *tcell.EventKey) error {
	name := keyName(ev)
	if cmd, ok := e.cfg.Keymap.Global[name]; ok {
		return e.ExecuteCommand(cmd)
	}
	if ev.Key() == tcell.KeyRune && ev.Modifiers()&(tcell.ModCtrl|tcell.ModAlt) == 0 {
		e.inputChar = ev.Rune()
		return e.ExecuteCommand("self-insert-command")
	}
	if name != "" {
		e.SetMessage("%s is undefined", name)
	}
	return nil
}
