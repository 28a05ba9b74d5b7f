package render

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"

	"github.com/lixenwraith/entangled/event"
)

func TestKeyCommand(t *testing.T) {
	tests := []struct {
		name string
		ev   *tcell.EventKey
		want event.EventType
		quit bool
	}{
		{"left", tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone), event.EventRotateLeft, false},
		{"right", tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModNone), event.EventRotateRight, false},
		{"enter", tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), event.EventPlace, false},
		{"space", tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone), event.EventSwitch, false},
		{"tab", tcell.NewEventKey(tcell.KeyTab, 0, tcell.ModNone), event.EventNewGame, false},
		{"q", tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone), event.EventNone, true},
		{"escape", tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), event.EventNone, true},
		{"ctrl-c", tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl), event.EventNone, true},
		{"unmapped", tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone), event.EventNone, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, quit := KeyCommand(tt.ev)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.quit, quit)
		})
	}
}

func TestEventLogKeepsRecentOutbound(t *testing.T) {
	log := NewEventLog(2)

	_ = log.OnEvent(nil, event.ToAll(event.EventPlace, 1, nil))
	assert.Empty(t, log.Entries())

	_ = log.OnEvent(nil, event.ToAll(event.EventHexagonRotated, 1, nil))
	_ = log.OnEvent(nil, event.ToAll(event.EventScoreChanged, 1, 4))
	_ = log.OnEvent(nil, event.ToTag("score", event.EventIncreaseScore, 1, 2))
	_ = log.OnEvent(nil, event.ToAll(event.EventHexagonPlaced, 1, nil))

	assert.Equal(t, []string{"increase-score 2", "hexagon-placed"}, log.Entries())
}
