package interaction

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyboardReader_ParseInput(t *testing.T) {
	kr := &KeyboardReader{
		input: make(chan KeyEvent, 10),
		stop:  make(chan struct{}),
	}

	tests := []struct {
		name     string
		input    []byte
		expected *KeyEvent
	}{
		{name: "regular char", input: []byte{'p'}, expected: &KeyEvent{Key: 'p', Type: KeyChar}},
		{name: "space", input: []byte{' '}, expected: &KeyEvent{Key: ' ', Type: KeyChar}},
		{name: "ctrl+c", input: []byte{3}, expected: &KeyEvent{Key: 3, Type: KeyChar}},
		{name: "escape", input: []byte{27}, expected: &KeyEvent{Key: 27, Type: KeyEscape}},
		{name: "arrow right", input: []byte{27, '[', 'C'}, expected: &KeyEvent{Type: KeyArrowRight}},
		{name: "arrow left", input: []byte{27, '[', 'D'}, expected: &KeyEvent{Type: KeyArrowLeft}},
		{name: "enter", input: []byte{'\r'}, expected: &KeyEvent{Key: '\r', Type: KeyEnter}},
		{name: "unknown escape", input: []byte{27, 'O'}, expected: nil},
		{name: "empty", input: []byte{}, expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, kr.parseInput(tt.input))
		})
	}
}

func TestKeyboardReader_CloseIdempotent(t *testing.T) {
	kr := &KeyboardReader{
		input: make(chan KeyEvent, 1),
		stop:  make(chan struct{}),
	}
	assert.NoError(t, kr.Close())
	assert.NoError(t, kr.Close())
}
