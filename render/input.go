package render

import (
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/entangled/event"
)

// KeyCommand maps a key press to a game command
// quit is set for Escape, Ctrl-C and q; t is EventNone for unmapped keys
func KeyCommand(ev *tcell.EventKey) (t event.EventType, quit bool) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return event.EventNone, true
	case tcell.KeyLeft:
		return event.EventRotateLeft, false
	case tcell.KeyRight:
		return event.EventRotateRight, false
	case tcell.KeyEnter:
		return event.EventPlace, false
	case tcell.KeyTab:
		return event.EventNewGame, false
	case tcell.KeyRune:
		switch ev.Rune() {
		case ' ':
			return event.EventSwitch, false
		case 'q', 'Q':
			return event.EventNone, true
		}
	}
	return event.EventNone, false
}
