package telegram

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEveryMenuButtonHasAnAlias(t *testing.T) {
	keyboard := MainMenuKeyboard()
	for _, row := range keyboard.Keyboard {
		for _, button := range row {
			_, ok := menuAliases[button.Text]
			assert.True(t, ok, "keyboard button %q has no command alias", button.Text)
		}
	}
}
