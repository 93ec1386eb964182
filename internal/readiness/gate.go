// Package readiness decides when a session has enough data for first paint.
package readiness

// State is the gate state. The only transition is Loading to Ready.
type State int

const (
	Loading State = iota
	Ready
)

// String implements fmt.Stringer.
func (s State) String() string {
	if s == Ready {
		return "ready"
	}
	return "loading"
}

// Gate counts the distinct required collections that have delivered at least
// one batch. Once every required collection has arrived the gate opens and
// stays open for the rest of the session; a new session needs a new Gate.
//
// Gate is not safe for concurrent use. It is owned by the session event loop.
type Gate struct {
	required map[string]struct{}
	arrived  map[string]struct{}
	state    State
	onReady  func()
}

// NewGate returns a gate that waits for every distinct name in required.
// With no required names the gate is ready immediately.
func NewGate(required ...string) *Gate {
	g := &Gate{
		required: make(map[string]struct{}, len(required)),
		arrived:  make(map[string]struct{}, len(required)),
	}
	for _, name := range required {
		g.required[name] = struct{}{}
	}
	if len(g.required) == 0 {
		g.state = Ready
	}
	return g
}

// OnReady sets the hook invoked once, on the loading to ready transition.
func (g *Gate) OnReady(fn func()) {
	g.onReady = fn
}

// RecordArrival notes that name delivered a batch. Only the first arrival of
// a required collection advances the counter. It reports whether this call
// opened the gate.
func (g *Gate) RecordArrival(name string) bool {
	if g.state == Ready {
		return false
	}
	if _, ok := g.required[name]; !ok {
		return false
	}
	if _, seen := g.arrived[name]; seen {
		return false
	}

	g.arrived[name] = struct{}{}
	if len(g.arrived) < len(g.required) {
		return false
	}

	g.state = Ready
	if g.onReady != nil {
		g.onReady()
	}
	return true
}

// Ready reports whether the gate is open.
func (g *Gate) Ready() bool { return g.state == Ready }

// State returns the current state.
func (g *Gate) State() State { return g.state }

// Arrived returns how many required collections have delivered.
func (g *Gate) Arrived() int { return len(g.arrived) }

// Target returns the number of distinct required collections.
func (g *Gate) Target() int { return len(g.required) }

// Pending lists required collections that have not delivered yet, in no
// particular order.
func (g *Gate) Pending() []string {
	out := make([]string, 0, len(g.required)-len(g.arrived))
	for name := range g.required {
		if _, ok := g.arrived[name]; !ok {
			out = append(out, name)
		}
	}
	return out
}
