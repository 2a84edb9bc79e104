package tuitest

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey_StringMatchesName(t *testing.T) {
	names := []string{"j", "J", "?", "1", "enter", "esc", "space", "tab", "shift+tab", "ctrl+s", "ctrl+z", "shift+down"}

	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, name, Key(name).String())
		})
	}
}

func TestType(t *testing.T) {
	msgs := Type("hé!")
	require.Len(t, msgs, 3)
	assert.Equal(t, "é", msgs[1].(tea.KeyPressMsg).Text)
}

func TestStripANSI(t *testing.T) {
	in := "\x1b[1mTitle\x1b[0m   \nrow  \n\n"
	assert.Equal(t, "Title\nrow", StripANSI(in))
}
