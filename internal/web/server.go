package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dominicmartinelli/pymud3/internal/game"
	"github.com/dominicmartinelli/pymud3/internal/transport"
)

// SessionHub is the session-manager surface the web listener drives:
// attach on a login event, dispatch delivered commands, drop on closure.
// Implemented by player.SessionManager.
type SessionHub interface {
	AttachPush(name string, t transport.Transport) error
	Dispatch(ctx context.Context, name, line string)
	DropByName(name string)
}

// clientMessage is what the browser sends: a login naming the character,
// then commands.
type clientMessage struct {
	Type string `json:"type"` // "login" or "command"
	Name string `json:"name,omitempty"`
	Text string `json:"text,omitempty"`
}

// serverMessage is what the browser receives.
type serverMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Listener serves the browser client page and upgrades /ws connections to
// websocket sessions riding the push transport.
type Listener struct {
	port uint16
	hub  SessionHub

	upgrader websocket.Upgrader
}

func NewListener(port uint16, hub SessionHub) *Listener {
	return &Listener{
		port: port,
		hub:  hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

func (l *Listener) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", l.port),
		Handler: l.Routes(ctx),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	slog.InfoContext(ctx, "listening for websocket clients", "port", l.port)
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serving web client on port %d: %w", l.port, err)
	}
	return nil
}

// Routes builds the HTTP handler: the client page at /, the websocket
// endpoint at /ws.
func (l *Listener) Routes(ctx context.Context) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", l.handleIndex)
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		l.handleSocket(ctx, w, r)
	})
	return mux
}

func (l *Listener) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(indexPage))
}

// handleSocket drives one websocket connection. All output, game lines
// and login errors alike, rides the push transport's buffered pump so the
// websocket only ever has one writer and a slow browser can never stall a
// world broadcast. Input events are dispatched through the same command
// pipeline pull sessions use.
func (l *Listener) handleSocket(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	conn, err := l.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.WarnContext(ctx, "websocket upgrade", "remote", r.RemoteAddr, "error", err)
		return
	}

	push := transport.NewPush()
	go writerPump(conn, push)

	// Closing the websocket unblocks ReadMessage at shutdown.
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	var name string
	defer func() {
		if name != "" {
			l.hub.DropByName(name)
		} else {
			push.Close()
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var msg clientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			_ = push.Send("Malformed message.\n")
			continue
		}

		switch msg.Type {
		case "login":
			if name != "" {
				_ = push.Send("You are already logged in.\n")
				continue
			}
			candidate := game.CanonicalName(msg.Name)
			if err := l.hub.AttachPush(candidate, push); err != nil {
				if errors.Is(err, game.ErrNameInUse) {
					_ = push.Send("That name is already taken. Please choose another.\n")
				} else {
					slog.WarnContext(ctx, "websocket login", "name", candidate, "error", err)
					_ = push.Send("Login failed. Please try again.\n")
				}
				continue
			}
			name = candidate

		case "command":
			if name == "" {
				_ = push.Send("Log in first.\n")
				continue
			}
			l.hub.Dispatch(ctx, name, msg.Text)

		default:
			_ = push.Send("Unknown message type.\n")
		}
	}
}

// writerPump drains the push transport into the websocket. It is the
// connection's only writer after the handshake.
func writerPump(conn *websocket.Conn, push *transport.Push) {
	for text := range push.Outbound() {
		data, err := json.Marshal(serverMessage{Type: "output", Text: text})
		if err != nil {
			continue
		}
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			break
		}
	}
	conn.Close()
}
