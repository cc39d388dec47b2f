package emit

import (
	"slices"
	"sort"

	"mirror-generator/internal/diagnostic"
	"mirror-generator/internal/schema"
)

// Order returns the named types of m so that every type comes after the
// types it references. Among available types the earliest declared wins.
func Order(m *schema.Model) ([]*schema.NamedType, error) {
	types := m.Types()

	index := make(map[string]int, len(types))
	for i, t := range types {
		index[t.Name] = i
	}

	deps := func(i int) []int {
		var out []int
		for _, name := range types[i].References() {
			out = append(out, index[name])
		}

		return out
	}

	order, remaining := topoSort(len(types), deps)

	if len(remaining) > 0 {
		cycle := findCycle(remaining, deps)

		names := make([]string, len(cycle))
		for i, idx := range cycle {
			names[i] = types[idx].Name
		}

		return nil, &diagnostic.CyclicSchemaError{Cycle: names}
	}

	out := make([]*schema.NamedType, len(order))
	for i, idx := range order {
		out[i] = types[idx]
	}

	return out, nil
}

// topoSort returns node indices in dependency order and the indices left
// over because they sit on or behind a cycle. depsFn(i) yields the nodes
// that must come before i. When several nodes are ready the smallest index
// is taken.
func topoSort(n int, depsFn func(i int) []int) (order, remaining []int) {
	indeg := make([]int, n)
	out := make([][]int, n)

	for i := range n {
		for _, d := range depsFn(i) {
			indeg[i]++
			out[d] = append(out[d], i)
		}
	}

	for i := range out {
		sort.Ints(out[i])
	}

	var ready []int

	for i := range n {
		if indeg[i] == 0 {
			ready = append(ready, i)
		}
	}

	order = make([]int, 0, n)

	for len(ready) > 0 {
		i := ready[0]
		ready = ready[1:]

		order = append(order, i)
		for _, j := range out[i] {
			indeg[j]--
			if indeg[j] == 0 {
				// Insert while keeping ready sorted.
				k := sort.SearchInts(ready, j)
				ready = slices.Insert(ready, k, j)
			}
		}
	}

	for i := range n {
		if indeg[i] > 0 {
			remaining = append(remaining, i)
		}
	}

	return order, remaining
}

// findCycle walks dependencies from the smallest remaining node until a node
// repeats, and returns that cycle with its first node repeated at the end.
// Every remaining node has a remaining dependency, so the walk cannot stop.
func findCycle(remaining []int, depsFn func(i int) []int) []int {
	left := make(map[int]bool, len(remaining))
	for _, i := range remaining {
		left[i] = true
	}

	var (
		path []int
		seen = map[int]int{}
	)

	for cur := remaining[0]; ; {
		if at, ok := seen[cur]; ok {
			return append(path[at:], cur)
		}

		seen[cur] = len(path)
		path = append(path, cur)

		deps := depsFn(cur)
		slices.Sort(deps)

		next := -1

		for _, d := range deps {
			if left[d] {
				next = d
				break
			}
		}

		if next < 0 {
			return append(path, cur)
		}

		cur = next
	}
}
