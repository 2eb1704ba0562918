package automaton

import "sort"

// DFA is a deterministic automaton. State 0 is always SinkState: it has no
// outgoing transitions and never accepts. A missing entry in a state's
// transition table is equivalent to an explicit transition to SinkState.
type DFA struct {
	transitions []map[byte]StateID
	start       StateID
	accept      []bool
}

// States reports the number of states in the automaton.
func (d *DFA) States() int { return len(d.transitions) }

// Match reports whether input is accepted by walking the deterministic
// transition table byte by byte; an undefined transition rejects
// immediately since it is equivalent to falling into the non-accepting
// sink.
func (d *DFA) Match(input []byte) bool {
	cur := d.start
	for _, c := range input {
		next, ok := d.transitions[cur][c]
		if !ok {
			return false
		}
		cur = next
	}
	return d.accept[cur]
}

type groupPair struct{ src, dst int }

// ToMinDFA performs Hopcroft-style partition refinement, producing the
// unique minimal DFA equivalent to d. State 0 of the result is always the
// sink partition, seeded before refinement begins so it never merges with
// any other group; the remaining reachable, live (non-dead) states start
// partitioned by accept/non-accept and are refined until stable. Partition
// pairs are enumerated in sorted (srcPartition, dstPartition) order so the
// resulting state numbering is reproducible across runs for the same
// pattern.
func (d *DFA) ToMinDFA(cfg BuildConfig) (*MinDFA, error) {
	total := len(d.transitions)

	reachable := map[StateID]bool{d.start: true}
	queue := []StateID{d.start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range d.transitions[cur] {
			if !reachable[next] {
				reachable[next] = true
				queue = append(queue, next)
			}
		}
	}

	dead := make([]bool, total)
	for i := 0; i < total; i++ {
		dead[i] = !d.reachesAccept(StateID(i))
	}

	groupOf := map[StateID]int{SinkState: 0}
	for i := 0; i < total; i++ {
		sid := StateID(i)
		if sid == SinkState || !reachable[sid] || dead[i] {
			continue
		}
		if d.accept[i] {
			groupOf[sid] = 1
		} else {
			groupOf[sid] = 2
		}
	}

	for {
		changed := false
		for c := 0; c < 256; c++ {
			byteVal := byte(c)
			groups := make(map[groupPair][]StateID)

			for state := range groupOf {
				next := SinkState
				if n, ok := d.transitions[state][byteVal]; ok {
					next = n
				}
				// A target state with no tracked partition (the true sink,
				// or a dead state excluded from live partitioning) behaves
				// like the sink for refinement purposes.
				nextGroup := groupOf[next]
				key := groupPair{groupOf[state], nextGroup}
				groups[key] = append(groups[key], state)
			}

			keys := make([]groupPair, 0, len(groups))
			for k := range groups {
				keys = append(keys, k)
			}
			sort.Slice(keys, func(i, j int) bool {
				if keys[i].src != keys[j].src {
					return keys[i].src < keys[j].src
				}
				return keys[i].dst < keys[j].dst
			})

			newGroupOf := make(map[StateID]int, len(groupOf))
			for idx, k := range keys {
				for _, s := range groups[k] {
					newGroupOf[s] = idx
				}
			}

			if !groupsEqual(groupOf, newGroupOf) {
				groupOf = newGroupOf
				changed = true
				break
			}
		}
		if !changed {
			break
		}
	}

	maxGroup := 0
	for _, g := range groupOf {
		if g > maxGroup {
			maxGroup = g
		}
	}

	minTransitions := make([]map[byte]StateID, maxGroup+1)
	for i := range minTransitions {
		minTransitions[i] = make(map[byte]StateID)
	}
	minAccept := make([]bool, maxGroup+1)
	var minStart StateID

	for state, group := range groupOf {
		for c, next := range d.transitions[state] {
			// groupOf[next] defaults to 0 when next is untracked (dead or
			// the sink), which is exactly the partition such transitions
			// should collapse into.
			minTransitions[group][c] = StateID(groupOf[next])
		}
		if d.accept[state] {
			minAccept[group] = true
		}
		if state == d.start {
			minStart = StateID(group)
		}
	}

	return &MinDFA{transitions: minTransitions, start: minStart, accept: minAccept}, nil
}

// reachesAccept reports whether any accepting state is reachable from s via
// the DFA's transition graph, including s itself.
func (d *DFA) reachesAccept(s StateID) bool {
	visited := map[StateID]bool{s: true}
	stack := []StateID{s}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if d.accept[cur] {
			return true
		}
		for _, next := range d.transitions[cur] {
			if !visited[next] {
				visited[next] = true
				stack = append(stack, next)
			}
		}
	}
	return false
}

func groupsEqual(a, b map[StateID]int) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		bv, ok := b[k]
		if !ok || bv != v {
			return false
		}
	}
	return true
}
