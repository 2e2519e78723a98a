package domain

// Graph is the dependency graph induced by a rule set: an edge runs from a
// rule's trigger option key to every option key its actions affect.
type Graph struct {
	edges map[string]map[string]bool
}

// BuildGraph assembles the dependency graph of the given rules. Inactive
// rules are included: toggling a rule back on must not be what introduces a
// cycle.
func BuildGraph(rules []Rule) *Graph {
	g := &Graph{edges: make(map[string]map[string]bool)}
	for _, r := range rules {
		g.addRule(r)
	}
	return g
}

func (g *Graph) addRule(r Rule) {
	for _, target := range r.TargetKeys() {
		if g.edges[r.TriggerOptionKey] == nil {
			g.edges[r.TriggerOptionKey] = make(map[string]bool)
		}
		g.edges[r.TriggerOptionKey][target] = true
	}
}

// HasCycle reports whether any directed cycle exists, including self-loops.
func (g *Graph) HasCycle() bool {
	const (
		unvisited = 0
		inStack   = 1
		done      = 2
	)
	state := make(map[string]int, len(g.edges))

	var visit func(node string) bool
	visit = func(node string) bool {
		state[node] = inStack
		for next := range g.edges[node] {
			switch state[next] {
			case inStack:
				return true
			case unvisited:
				if visit(next) {
					return true
				}
			}
		}
		state[node] = done
		return false
	}

	for node := range g.edges {
		if state[node] == unvisited && visit(node) {
			return true
		}
	}
	return false
}

// WouldCreateCycle reports whether adding candidate to the existing rules
// closes a directed cycle. A candidate targeting its own trigger key is a
// self-loop and always rejected.
func WouldCreateCycle(existing []Rule, candidate Rule) bool {
	g := BuildGraph(existing)
	g.addRule(candidate)
	return g.HasCycle()
}
