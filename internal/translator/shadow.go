package translator

import "sort"

// propagateShadowModifies lists in every procedure the variables written by
// translator bookkeeping in the procedures it reaches: type state changes, havoc
// after external calls and Wei accounting. The resolver only carries user
// declared writes across calls.
func (t *Translator) propagateShadowModifies() {
	direct := make(map[string][]string, len(t.procedures))
	names := make([]string, 0, len(t.procedures))
	for name, proc := range t.procedures {
		names = append(names, name)
		for _, m := range proc.Modifies {
			if !m.UserDefined {
				direct[name] = append(direct[name], m.Variable)
			}
		}
	}
	sort.Strings(names)

	for _, name := range names {
		proc := t.procedures[name]
		for _, callee := range t.reachable(name) {
			for _, v := range direct[callee] {
				proc.AddModifies(v, false)
			}
		}
	}
}

// reachable returns the procedures transitively called by name, sorted.
func (t *Translator) reachable(name string) []string {
	seen := make(map[string]bool)
	queue := append([]string{}, t.callGraph[name]...)
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if seen[next] {
			continue
		}
		seen[next] = true
		queue = append(queue, t.callGraph[next]...)
	}

	out := make([]string, 0, len(seen))
	for callee := range seen {
		out = append(out, callee)
	}
	sort.Strings(out)
	return out
}
