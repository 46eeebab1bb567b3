package transport

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
)

type failingWriter struct {
	io.Reader
}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("broken pipe")
}

func TestPullReceiveLine(t *testing.T) {
	tests := map[string]struct {
		input string
		exp   string
	}{
		"plain":           {input: "look\n", exp: "look"},
		"crlf":            {input: "look\r\n", exp: "look"},
		"inner spaces":    {input: "say hello there\n", exp: "say hello there"},
		"trailing blanks": {input: "look\r\r\n", exp: "look"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			p := NewPull(struct {
				io.Reader
				io.Writer
			}{strings.NewReader(tt.input), &bytes.Buffer{}})

			line, err := p.ReceiveLine()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if line != tt.exp {
				t.Fatalf("expected %q, got %q", tt.exp, line)
			}
		})
	}
}

func TestPullReadErrorMarksDead(t *testing.T) {
	p := NewPull(struct {
		io.Reader
		io.Writer
	}{strings.NewReader(""), &bytes.Buffer{}})

	if _, err := p.ReceiveLine(); err == nil {
		t.Fatal("expected an error at stream end")
	}
	if p.IsConnected() {
		t.Fatal("a failed read must mark the transport dead")
	}
}

func TestPullWriteErrorMarksDead(t *testing.T) {
	p := NewPull(failingWriter{strings.NewReader("")})

	if err := p.Send("hello"); err == nil {
		t.Fatal("expected the write error")
	}
	if p.IsConnected() {
		t.Fatal("a failed write must mark the transport dead")
	}
}

func TestPullCloseIdempotent(t *testing.T) {
	p := NewPull(struct {
		io.Reader
		io.Writer
	}{strings.NewReader(""), &bytes.Buffer{}})

	if err := p.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("second close must be a no-op, got %v", err)
	}
	if p.IsConnected() {
		t.Fatal("a closed transport is not connected")
	}
}

func TestPushDelivery(t *testing.T) {
	p := NewPush()
	if err := p.Send("hello\n"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := <-p.Outbound(); got != "hello\n" {
		t.Fatalf("expected the sent text, got %q", got)
	}
}

func TestPushNeverBlocks(t *testing.T) {
	p := NewPush()

	// Nothing drains the pump; every send must return immediately.
	var err error
	for i := 0; i < pushBuffer*2; i++ {
		err = p.Send(fmt.Sprintf("line %d\n", i))
	}
	if err == nil {
		t.Fatal("expected the overflow to fail")
	}
	if p.IsConnected() {
		t.Fatal("overflow must mark the transport dead")
	}
}

func TestPushReceiveLine(t *testing.T) {
	p := NewPush()
	if _, err := p.ReceiveLine(); !errors.Is(err, ErrPushTransport) {
		t.Fatalf("expected ErrPushTransport, got %v", err)
	}
}

func TestPushCloseIdempotent(t *testing.T) {
	p := NewPush()
	if err := p.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("second close must be a no-op, got %v", err)
	}
	if err := p.Send("hello"); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed after close, got %v", err)
	}

	// The pump's feed is closed so writer goroutines drain and exit.
	if _, ok := <-p.Outbound(); ok {
		t.Fatal("expected the outbound channel closed")
	}
}
