package transport

import (
	"bufio"
	"io"
	"strings"
	"sync"
)

// Pull is a blocking transport over an io.ReadWriter (telnet connection,
// SSH channel).
type Pull struct {
	rw io.ReadWriter
	br *bufio.Reader

	mu     sync.Mutex
	dead   bool
	closed bool
}

func NewPull(rw io.ReadWriter) *Pull {
	return &Pull{rw: rw, br: bufio.NewReader(rw)}
}

func (t *Pull) Send(text string) error {
	_, err := t.rw.Write([]byte(text))
	if err != nil {
		t.markDead()
	}
	return err
}

func (t *Pull) ReceiveLine() (string, error) {
	line, err := t.br.ReadString('\n')
	if err != nil {
		t.markDead()
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (t *Pull) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	t.dead = true
	t.mu.Unlock()

	if c, ok := t.rw.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (t *Pull) IsConnected() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return !t.dead
}

func (t *Pull) markDead() {
	t.mu.Lock()
	t.dead = true
	t.mu.Unlock()
}
