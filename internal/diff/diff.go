// Package diff computes edit scripts between two item lists and replays
// them onto a sub-adapter through the regular notification path.
package diff

import (
	"slices"

	"github.com/pstuifzand/tui-listadapter/internal/model"
)

// Compute returns the edit script that turns old into new. Items matched by
// the longest common subsequence stay in place; with move detection the
// remaining items of equal identity are moved instead of removed and
// inserted again.
func Compute(old, new []model.Item, opts ...Option) Script {
	o := newOptions(opts)
	s := Script{OldLen: len(old), NewLen: len(new)}

	newOf := make([]int, len(old))
	oldOf := make([]int, len(new))
	for i := range newOf {
		newOf[i] = -1
	}
	for j := range oldOf {
		oldOf[j] = -1
	}
	for _, p := range commonSubsequence(len(old), len(new), func(i, j int) bool {
		return o.identity(old[i], new[j])
	}) {
		newOf[p[0]] = p[1]
		oldOf[p[1]] = p[0]
	}

	moved := make([]bool, len(old))
	if o.detectMoves {
		pairMoves(old, new, newOf, oldOf, moved, o.identity)
	}

	// removals, high to low, coalesced into ranges
	for i := len(old) - 1; i >= 0; {
		if newOf[i] >= 0 {
			i--
			continue
		}
		end := i
		for i >= 0 && newOf[i] < 0 {
			i--
		}
		s.Ops = append(s.Ops, Op{Kind: OpRemove, Pos: i + 1, Count: end - i})
	}

	type token struct {
		target  int
		settled bool
	}
	current := make([]token, 0, len(old))
	for i, j := range newOf {
		if j >= 0 {
			current = append(current, token{target: j, settled: !moved[i]})
		}
	}

	// moves in target order; each moved item lands before the first settled
	// item that belongs after it
	for j := range new {
		i := oldOf[j]
		if i < 0 || !moved[i] {
			continue
		}
		k := slices.IndexFunc(current, func(t token) bool { return t.target == j })
		current = slices.Delete(current, k, k+1)
		dest := slices.IndexFunc(current, func(t token) bool { return t.settled && t.target > j })
		if dest < 0 {
			dest = len(current)
		}
		current = slices.Insert(current, dest, token{target: j, settled: true})
		if dest != k {
			s.Ops = append(s.Ops, Op{Kind: OpMove, Pos: k, To: dest})
		}
	}

	// insertions, low to high; the list now holds new[0:j] in front
	for j := 0; j < len(new); {
		if oldOf[j] >= 0 {
			j++
			continue
		}
		start := j
		for j < len(new) && oldOf[j] < 0 {
			j++
		}
		s.Ops = append(s.Ops, Op{Kind: OpInsert, Pos: start, Count: j - start})
	}

	// content changes at final positions
	for j := range new {
		i := oldOf[j]
		if i < 0 {
			continue
		}
		s.Matches = append(s.Matches, Match{Old: i, New: j})
		if o.content(old[i], new[j]) {
			continue
		}
		var payload any
		if o.payload != nil {
			payload = o.payload(old[i], new[j])
		}
		if n := len(s.Ops); payload == nil && n > 0 {
			last := &s.Ops[n-1]
			if last.Kind == OpChange && last.Payload == nil && last.Pos+last.Count == j {
				last.Count++
				continue
			}
		}
		s.Ops = append(s.Ops, Op{Kind: OpChange, Pos: j, Count: 1, Payload: payload})
	}
	return s
}

// pairMoves matches items outside the common subsequence by identity, in
// list order
func pairMoves(old, new []model.Item, newOf, oldOf []int, moved []bool, eq func(a, b model.Item) bool) {
	var pending []int
	for j := range new {
		if oldOf[j] < 0 {
			pending = append(pending, j)
		}
	}
	for i := range old {
		if newOf[i] >= 0 {
			continue
		}
		for k, j := range pending {
			if eq(old[i], new[j]) {
				newOf[i] = j
				oldOf[j] = i
				moved[i] = true
				pending = slices.Delete(pending, k, k+1)
				break
			}
		}
	}
}

// commonSubsequence returns the index pairs of a longest common subsequence
// of two sequences of length n and m, ascending in both indexes
func commonSubsequence(n, m int, eq func(i, j int) bool) [][2]int {
	prefix := 0
	for prefix < n && prefix < m && eq(prefix, prefix) {
		prefix++
	}
	suffix := 0
	for suffix < n-prefix && suffix < m-prefix && eq(n-1-suffix, m-1-suffix) {
		suffix++
	}

	pairs := make([][2]int, 0, prefix+suffix)
	for i := range prefix {
		pairs = append(pairs, [2]int{i, i})
	}
	middle := myers(n-prefix-suffix, m-prefix-suffix, func(i, j int) bool {
		return eq(prefix+i, prefix+j)
	})
	for _, p := range middle {
		pairs = append(pairs, [2]int{prefix + p[0], prefix + p[1]})
	}
	for k := suffix; k > 0; k-- {
		pairs = append(pairs, [2]int{n - k, m - k})
	}
	return pairs
}

// myers is the O(ND) greedy shortest edit search. It keeps the furthest
// reaching x per diagonal for every round and walks the rounds backwards to
// recover the diagonal moves.
func myers(n, m int, eq func(i, j int) bool) [][2]int {
	if n == 0 || m == 0 {
		return nil
	}
	limit := n + m
	offset := limit
	v := make([]int, 2*limit+2)
	var trace [][]int

search:
	for d := 0; d <= limit; d++ {
		trace = append(trace, slices.Clone(v))
		for k := -d; k <= d; k += 2 {
			var x int
			if k == -d || (k != d && v[offset+k-1] < v[offset+k+1]) {
				x = v[offset+k+1]
			} else {
				x = v[offset+k-1] + 1
			}
			y := x - k
			for x < n && y < m && eq(x, y) {
				x++
				y++
			}
			v[offset+k] = x
			if x >= n && y >= m {
				break search
			}
		}
	}

	var pairs [][2]int
	x, y := n, m
	for d := len(trace) - 1; d > 0; d-- {
		prev := trace[d]
		k := x - y
		var prevK int
		if k == -d || (k != d && prev[offset+k-1] < prev[offset+k+1]) {
			prevK = k + 1
		} else {
			prevK = k - 1
		}
		prevX := prev[offset+prevK]
		prevY := prevX - prevK
		for x > prevX && y > prevY {
			x--
			y--
			pairs = append(pairs, [2]int{x, y})
		}
		x, y = prevX, prevY
	}
	for x > 0 && y > 0 {
		x--
		y--
		pairs = append(pairs, [2]int{x, y})
	}
	slices.Reverse(pairs)
	return pairs
}
