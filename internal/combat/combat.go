package combat

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// Arena resolves one registered pair for one round: look both names up,
// verify they can still fight, run the exchange, and report whether the
// pair should stay registered. Implementations do their own locking; the
// manager never holds its lock across this call.
type Arena interface {
	ResolvePair(ctx context.Context, a, b string) (keep bool)
}

// Pair is one registered engagement. Names keep their display casing;
// identity is the sorted case-insensitive tuple.
type Pair struct {
	A, B string
}

func pairKey(a, b string) string {
	names := []string{strings.ToLower(a), strings.ToLower(b)}
	sort.Strings(names)
	return names[0] + "|" + names[1]
}

// Manager tracks active combat pairs and resolves them every tick.
// Combatants are tracked by name, not by reference: either side may be
// replaced or removed between rounds, so each round re-resolves both.
type Manager struct {
	mu    sync.Mutex
	arena Arena
	pairs map[string]Pair
}

// NewManager creates a Manager with no registered pairs.
func NewManager() *Manager {
	return &Manager{
		pairs: make(map[string]Pair),
	}
}

// SetArena wires the world that resolves rounds. Must be called before the
// first Tick.
func (m *Manager) SetArena(a Arena) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.arena = a
}

// Engage registers a pair. Registering an existing pair is a no-op.
func (m *Manager) Engage(a, b string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pairs[pairKey(a, b)] = Pair{A: a, B: b}
}

// Disengage removes a pair if it is registered.
func (m *Manager) Disengage(a, b string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.pairs, pairKey(a, b))
}

// InCombat reports whether name is a member of any registered pair.
func (m *Manager) InCombat(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := strings.ToLower(name)
	for _, p := range m.pairs {
		if strings.ToLower(p.A) == n || strings.ToLower(p.B) == n {
			return true
		}
	}
	return false
}

// OpponentOf returns the other member of the first pair containing name.
func (m *Manager) OpponentOf(name string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := strings.ToLower(name)
	for _, p := range m.pairs {
		if strings.ToLower(p.A) == n {
			return p.B, true
		}
		if strings.ToLower(p.B) == n {
			return p.A, true
		}
	}
	return "", false
}

// DropAll removes every pair containing name. Used when a session
// disconnects mid-fight.
func (m *Manager) DropAll(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := strings.ToLower(name)
	for key, p := range m.pairs {
		if strings.ToLower(p.A) == n || strings.ToLower(p.B) == n {
			delete(m.pairs, key)
		}
	}
}

// Pairs returns a snapshot of the registered pairs.
func (m *Manager) Pairs() []Pair {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Pair, 0, len(m.pairs))
	for _, p := range m.pairs {
		out = append(out, p)
	}
	return out
}

// Tick resolves one round for every registered pair. The pair set is
// snapshotted first so the arena can engage or disengage pairs while the
// round runs; pairs the arena resolves are removed after the sweep.
func (m *Manager) Tick(ctx context.Context) error {
	snapshot := m.Pairs()

	var drop []Pair
	for _, p := range snapshot {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if !m.arena.ResolvePair(ctx, p.A, p.B) {
			drop = append(drop, p)
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range drop {
		delete(m.pairs, pairKey(p.A, p.B))
	}
	return nil
}
