package player

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/dominicmartinelli/pymud3/internal/game"
	"github.com/dominicmartinelli/pymud3/internal/transport"
)

const maxLoginAttempts = 3

var errShuttingDown = errors.New("server is shutting down")

// GameWorld is the slice of world operations the session layer needs.
// Implemented by game.World.
type GameWorld interface {
	CreateSession(name string) error
	DropSession(name string) error
}

// Dispatcher runs one command line for a named session and reports whether
// the session should disconnect. Implemented by commands.Handler.
type Dispatcher interface {
	Dispatch(ctx context.Context, name, line string) bool
}

// Subscriber delivers published messages for a subject until the returned
// unsubscribe function is called. Implemented by messaging.NatsServer.
type Subscriber interface {
	Subscribe(subject string, handler func(data []byte)) (func(), error)
}

// SessionManager owns the live sessions on every transport. Pull
// connections run RunSession on their own goroutine; push connections
// attach and are driven one command at a time. Both kinds share the same
// login, dispatch, and disconnect paths.
type SessionManager struct {
	world GameWorld
	cmds  Dispatcher
	bus   Subscriber

	mu       sync.Mutex
	sessions map[string]*Session
	draining bool
}

func NewSessionManager(world GameWorld, cmds Dispatcher, bus Subscriber) *SessionManager {
	return &SessionManager{
		world:    world,
		cmds:     cmds,
		bus:      bus,
		sessions: make(map[string]*Session),
	}
}

// Start blocks until shutdown, then tells every live session the server is
// going down and runs the disconnect protocol for each.
func (m *SessionManager) Start(ctx context.Context) error {
	<-ctx.Done()

	m.mu.Lock()
	m.draining = true
	live := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		live = append(live, s)
	}
	m.mu.Unlock()

	for _, s := range live {
		_ = s.transport.Send("\nThe server is shutting down. Goodbye!\n")
		m.drop(s)
	}
	return nil
}

// RunSession drives one pull-transport connection from login to
// disconnect. It returns when the peer goes away, the player quits, or the
// server shuts down; the disconnect protocol runs on every path out.
func (m *SessionManager) RunSession(ctx context.Context, rw io.ReadWriter) error {
	t := transport.NewPull(rw)

	// Closing the transport unblocks ReceiveLine at shutdown.
	stop := context.AfterFunc(ctx, func() { t.Close() })
	defer stop()

	if err := t.Send(banner()); err != nil {
		return nil
	}

	sess, err := m.login(ctx, t)
	if err != nil || sess == nil {
		t.Close()
		return err
	}
	defer m.drop(sess)

	for t.IsConnected() {
		line, err := t.ReceiveLine()
		if err != nil {
			return nil
		}
		if m.cmds.Dispatch(ctx, sess.name, line) {
			return nil
		}
	}
	return nil
}

// login prompts for a name until a session is created or the attempts run
// out. A nil session with a nil error means the peer should be dropped
// without fuss.
func (m *SessionManager) login(ctx context.Context, t transport.Transport) (*Session, error) {
	for attempt := 0; attempt < maxLoginAttempts; attempt++ {
		if err := t.Send("By what name do you wish to be known? "); err != nil {
			return nil, nil
		}
		line, err := t.ReceiveLine()
		if err != nil {
			return nil, nil
		}

		name := game.CanonicalName(line)
		sess, err := m.Attach(name, t)
		if errors.Is(err, game.ErrNameInUse) {
			if err := t.Send("That name is already taken. Please choose another.\n"); err != nil {
				return nil, nil
			}
			continue
		}
		if err != nil {
			return nil, err
		}
		slog.InfoContext(ctx, "session started", "session", sess.id, "player", name)
		return sess, nil
	}

	_ = t.Send("Too many attempts. Goodbye.\n")
	return nil, nil
}

// Attach joins a named player to the world over the given transport. The
// session subscribes to its delivery subjects before the world admits it,
// so the welcome messages published during admission arrive; on a name
// clash the subscriptions are torn down and game.ErrNameInUse returned.
// Used directly by the push transport, whose login arrives as an event.
func (m *SessionManager) Attach(name string, t transport.Transport) (*Session, error) {
	m.mu.Lock()
	if m.draining {
		m.mu.Unlock()
		return nil, errShuttingDown
	}
	m.mu.Unlock()

	sess := newSession(name, t)

	if err := sess.subscribe(m.bus); err != nil {
		return nil, err
	}
	if err := m.world.CreateSession(name); err != nil {
		sess.unsubscribe()
		return nil, err
	}

	// Shutdown may have started while the world admitted the session. The
	// draining re-check shares the insert's critical section, so Start's
	// snapshot can never miss a session it would have had to drop.
	m.mu.Lock()
	if m.draining {
		m.mu.Unlock()
		if err := m.world.DropSession(name); err != nil && !errors.Is(err, game.ErrPlayerNotFound) {
			slog.Warn("dropping session", "session", sess.id, "player", name, "error", err)
		}
		sess.unsubscribe()
		return nil, errShuttingDown
	}
	m.sessions[sess.key()] = sess
	m.mu.Unlock()
	return sess, nil
}

// AttachPush joins a push-driven session, whose login arrives as an event
// rather than a prompt.
func (m *SessionManager) AttachPush(name string, t transport.Transport) error {
	_, err := m.Attach(name, t)
	return err
}

// Dispatch runs one push-delivered command for a named session, handling a
// disconnect request the same way the pull loop does.
func (m *SessionManager) Dispatch(ctx context.Context, name, line string) {
	if m.cmds.Dispatch(ctx, name, line) {
		m.DropByName(name)
	}
}

// DropByName runs the disconnect protocol for a named session, if one is
// live. Idempotent: a session already dropped is a no-op.
func (m *SessionManager) DropByName(name string) {
	m.mu.Lock()
	sess := m.sessions[sessionKey(name)]
	m.mu.Unlock()
	if sess != nil {
		m.drop(sess)
	}
}

// drop is the disconnect protocol: detach from the world (which persists
// the profile), tear down subscriptions, close the transport, and forget
// the session. Reachable from read failure, quit, push closure, and
// shutdown; only the first call does the work.
func (m *SessionManager) drop(sess *Session) {
	sess.once.Do(func() {
		if err := m.world.DropSession(sess.name); err != nil && !errors.Is(err, game.ErrPlayerNotFound) {
			slog.Warn("dropping session", "session", sess.id, "player", sess.name, "error", err)
		}
		sess.unsubscribe()
		sess.transport.Close()

		m.mu.Lock()
		delete(m.sessions, sess.key())
		m.mu.Unlock()

		slog.Info("session ended", "session", sess.id, "player", sess.name)
	})
}
