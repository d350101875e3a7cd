package domain

import "sort"

// ResolvedSegment is a directed leg between two fixes with optional airway
// name and constraints carried over from the route string.
type ResolvedSegment struct {
	Start    Fix       `json:"start"`
	End      Fix       `json:"end"`
	Name     string    `json:"name,omitempty"`
	Altitude *Altitude `json:"altitude,omitempty"`
	Speed    *Speed    `json:"speed,omitempty"`
}

// Reversed returns the segment with start and end swapped.
func (s ResolvedSegment) Reversed() ResolvedSegment {
	return ResolvedSegment{
		Start:    s.End,
		End:      s.Start,
		Name:     s.Name,
		Altitude: s.Altitude,
		Speed:    s.Speed,
	}
}

// Segment converts to the public waypoint representation.
func (s ResolvedSegment) Segment() Segment {
	return Segment{
		Start:    s.Start.Point(),
		End:      s.End.Point(),
		Name:     s.Name,
		Altitude: s.Altitude,
		Speed:    s.Speed,
	}
}

// ResolvedRoute is a named set of resolved segments, such as one airway
// candidate or one SID/STAR variant.
type ResolvedRoute struct {
	Name     string            `json:"name"`
	Segments []ResolvedSegment `json:"segments"`
}

// Contains reports whether the fix is an endpoint of any segment.
func (r ResolvedRoute) Contains(f Fix) bool {
	for _, s := range r.Segments {
		if s.Start.Equal(f) || s.End.Equal(f) {
			return true
		}
	}
	return false
}

// Between finds a sub-route connecting two fixes, if one exists. Segments
// are treated as bidirectional; legs traversed backwards are reversed in
// the result. Depth-first search over the segment graph.
func (r ResolvedRoute) Between(start, end Fix) (ResolvedRoute, bool) {
	type edge struct {
		next    Fix
		segment int
		forward bool
	}
	graph := make(map[string][]edge, len(r.Segments)*2)
	for i, s := range r.Segments {
		graph[s.Start.Key()] = append(graph[s.Start.Key()], edge{s.End, i, true})
		graph[s.End.Key()] = append(graph[s.End.Key()], edge{s.Start, i, false})
	}

	target := end.Key()
	visited := make(map[int]bool, len(r.Segments))
	type step struct {
		segment int
		forward bool
	}
	var path []step

	var dfs func(current Fix) bool
	dfs = func(current Fix) bool {
		if current.Key() == target {
			return true
		}
		for _, e := range graph[current.Key()] {
			if visited[e.segment] {
				continue
			}
			visited[e.segment] = true
			path = append(path, step{e.segment, e.forward})
			if dfs(e.next) {
				return true
			}
			path = path[:len(path)-1]
			delete(visited, e.segment)
		}
		return false
	}

	if !dfs(start) {
		return ResolvedRoute{}, false
	}

	segments := make([]ResolvedSegment, 0, len(path))
	for _, st := range path {
		seg := r.Segments[st.segment]
		if st.forward {
			segments = append(segments, seg)
		} else {
			rev := seg.Reversed()
			rev.Name = r.Name
			segments = append(segments, rev)
		}
	}
	return ResolvedRoute{Name: r.Name, Segments: segments}, true
}

// OrderSegments chains an unordered bag of legs into walk order. Chains are
// started from fixes with no incoming leg; leftover cycles are walked from
// their lexicographically smallest fix so the result is deterministic.
func OrderSegments(segments []ResolvedSegment) []ResolvedSegment {
	outEdges := make(map[string][]ResolvedSegment)
	indegree := make(map[string]int)
	fixes := make(map[string]Fix)

	for _, s := range segments {
		sk, ek := s.Start.Key(), s.End.Key()
		outEdges[sk] = append(outEdges[sk], s)
		fixes[sk], fixes[ek] = s.Start, s.End
		if _, ok := indegree[sk]; !ok {
			indegree[sk] = 0
		}
		indegree[ek]++
	}
	for _, edges := range outEdges {
		sort.Slice(edges, func(i, j int) bool { return edges[i].End.Key() < edges[j].End.Key() })
	}

	var starts []string
	for key, deg := range indegree {
		if deg == 0 {
			starts = append(starts, key)
		}
	}
	sort.Strings(starts)

	ordered := make([]ResolvedSegment, 0, len(segments))
	walk := func(from string) {
		current := from
		for {
			edges := outEdges[current]
			if len(edges) == 0 {
				return
			}
			seg := edges[0]
			outEdges[current] = edges[1:]
			ordered = append(ordered, seg)
			current = seg.End.Key()
		}
	}

	for _, start := range starts {
		walk(start)
	}
	for {
		var remaining []string
		for key, edges := range outEdges {
			if len(edges) > 0 {
				remaining = append(remaining, key)
			}
		}
		if len(remaining) == 0 {
			break
		}
		sort.Strings(remaining)
		walk(remaining[0])
	}
	return ordered
}

// EntryFixes returns the fixes a leg graph can be entered through: positive
// out-degree, zero in-degree, airports excluded.
func EntryFixes(segments []ResolvedSegment) []Fix {
	return boundaryFixes(segments, func(in, out int) bool { return in == 0 && out > 0 })
}

// ExitFixes returns the fixes a leg graph terminates at: positive in-degree,
// zero out-degree, airports excluded.
func ExitFixes(segments []ResolvedSegment) []Fix {
	return boundaryFixes(segments, func(in, out int) bool { return out == 0 && in > 0 })
}

func boundaryFixes(segments []ResolvedSegment, keep func(in, out int) bool) []Fix {
	indegree := make(map[string]int)
	outdegree := make(map[string]int)
	fixes := make(map[string]Fix)

	for _, s := range segments {
		if !s.Start.IsNone() {
			fixes[s.Start.Key()] = s.Start
			outdegree[s.Start.Key()]++
		}
		if !s.End.IsNone() {
			fixes[s.End.Key()] = s.End
			indegree[s.End.Key()]++
		}
	}

	var out []Fix
	for key, f := range fixes {
		if f.Kind == FixAirport {
			continue
		}
		if keep(indegree[key], outdegree[key]) {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key() < out[j].Key() })
	return out
}
