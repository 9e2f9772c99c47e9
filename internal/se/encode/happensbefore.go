package encode

import "github.com/kolkov/libse/internal/se/event"

// hbGraph is the fork-join happens-before partial order over every event in
// a recording (spec.md §5): program order within a thread, plus a spawn
// edge from the point a thread was begun to its first event, and a join
// edge from its last event to the point it was ended. There is
// deliberately no edge at all between events of two threads that never
// spawned/joined each other directly or transitively — that absence of an
// edge is what lets the encoder's load-from disjunction model a race.
type hbGraph struct {
	adj map[uint64][]uint64
	ids map[uint64]*event.Event
}

func newHBGraph() *hbGraph {
	return &hbGraph{adj: make(map[uint64][]uint64), ids: make(map[uint64]*event.Event)}
}

func (g *hbGraph) addEvent(ev *event.Event) {
	if _, ok := g.ids[ev.ID()]; !ok {
		g.ids[ev.ID()] = ev
	}
}

func (g *hbGraph) addEdge(from, to *event.Event) {
	if from == nil || to == nil {
		return
	}
	g.adj[from.ID()] = append(g.adj[from.ID()], to.ID())
}

// addProgramOrderIsolatingSiblings adds program-order edges for a
// recorder's flattened log, which may contain the spawn/join markers of
// thread bodies it begot (spec.md §4.H, §5): those markers exist so a
// child's first/last event can be
// wired to its own spawn/join point, not to impose an ordering between two
// sibling thread bodies that merely happen to have been recorded one after
// another. A join marker connects forward to the next *real* (non-sync)
// event in the log, however many further sibling spawn/join pairs sit in
// between, and a spawn marker's only predecessor is the nearest real event
// behind it — this is what keeps "begin_thread(T0)...end_thread(T0);
// begin_thread(T1)...end_thread(T1)" from serializing T0 entirely before
// T1, which the cooperative, single-recorder-at-a-time recording model
// would otherwise imply by textual accident (spec.md §5's "the engine
// explores thread interleavings symbolically via the encoder, not via real
// concurrency").
func (g *hbGraph) addProgramOrderIsolatingSiblings(log []*event.Event, joinIDs, spawnIDs map[uint64]bool) {
	var lastReal *event.Event
	var pendingJoins []*event.Event

	for _, ev := range log {
		g.addEvent(ev)
		switch {
		case joinIDs[ev.ID()]:
			pendingJoins = append(pendingJoins, ev)
		case spawnIDs[ev.ID()]:
			if lastReal != nil {
				g.addEdge(lastReal, ev)
			}
		default:
			if lastReal != nil {
				g.addEdge(lastReal, ev)
			}
			for _, j := range pendingJoins {
				g.addEdge(j, ev)
			}
			pendingJoins = pendingJoins[:0]
			lastReal = ev
		}
	}
}

// happensBefore reports whether a happens-before b, i.e. whether b is
// reachable from a in the graph. a == b is never happens-before.
func (g *hbGraph) happensBefore(a, b *event.Event) bool {
	if a == nil || b == nil || a.ID() == b.ID() {
		return false
	}
	visited := make(map[uint64]bool)
	var stack []uint64
	stack = append(stack, g.adj[a.ID()]...)
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if id == b.ID() {
			return true
		}
		if visited[id] {
			continue
		}
		visited[id] = true
		stack = append(stack, g.adj[id]...)
	}
	return false
}
