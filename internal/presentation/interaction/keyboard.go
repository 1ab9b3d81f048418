package interaction

import (
	"fmt"
	"os"
	"sync"

	"golang.org/x/term"

	"github.com/penwyp/go-crime-hexmap/internal/util"
)

// KeyType classifies a key press
type KeyType int

const (
	KeyChar KeyType = iota
	KeyEscape
	KeyArrowUp
	KeyArrowDown
	KeyArrowLeft
	KeyArrowRight
	KeyEnter
)

// KeyEvent is a single decoded key press
type KeyEvent struct {
	Key  rune
	Type KeyType
}

// KeyboardReader puts the terminal in raw mode and decodes stdin into key
// events.
type KeyboardReader struct {
	input    chan KeyEvent
	stop     chan struct{}
	fd       int
	oldState *term.State
	once     sync.Once
}

// NewKeyboardReader switches stdin to raw mode and starts reading.
func NewKeyboardReader() (*KeyboardReader, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return nil, fmt.Errorf("stdin is not a terminal")
	}

	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("failed to enable raw mode: %w", err)
	}

	kr := &KeyboardReader{
		input:    make(chan KeyEvent, 10),
		stop:     make(chan struct{}),
		fd:       fd,
		oldState: oldState,
	}
	go kr.readLoop()
	return kr, nil
}

func (kr *KeyboardReader) readLoop() {
	buf := make([]byte, 16)
	for {
		n, err := os.Stdin.Read(buf)
		if err != nil {
			util.LogDebug(fmt.Sprintf("Keyboard read stopped: %v", err))
			return
		}
		if n == 0 {
			continue
		}
		event := kr.parseInput(buf[:n])
		if event == nil {
			continue
		}
		select {
		case kr.input <- *event:
		case <-kr.stop:
			return
		}
	}
}

// parseInput decodes one read from the terminal
func (kr *KeyboardReader) parseInput(b []byte) *KeyEvent {
	if len(b) == 0 {
		return nil
	}

	if b[0] == 27 {
		if len(b) == 1 {
			return &KeyEvent{Key: 27, Type: KeyEscape}
		}
		if len(b) >= 3 && b[1] == '[' {
			switch b[2] {
			case 'A':
				return &KeyEvent{Type: KeyArrowUp}
			case 'B':
				return &KeyEvent{Type: KeyArrowDown}
			case 'C':
				return &KeyEvent{Type: KeyArrowRight}
			case 'D':
				return &KeyEvent{Type: KeyArrowLeft}
			}
		}
		return nil
	}

	if b[0] == '\r' || b[0] == '\n' {
		return &KeyEvent{Key: rune(b[0]), Type: KeyEnter}
	}
	return &KeyEvent{Key: rune(b[0]), Type: KeyChar}
}

// Events returns the key event channel
func (kr *KeyboardReader) Events() <-chan KeyEvent {
	return kr.input
}

// Close restores the terminal state
func (kr *KeyboardReader) Close() error {
	var err error
	kr.once.Do(func() {
		close(kr.stop)
		if kr.oldState != nil {
			err = term.Restore(kr.fd, kr.oldState)
		}
	})
	return err
}
