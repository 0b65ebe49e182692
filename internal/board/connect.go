// internal/board/connect.go
//
// Grid-connectivity predicates used by the replay automaton:
//   - isAdjacent: straight-line reachability through done cells (TLAK's
//     two-cell execution step).
//   - isConnectedForKeyword: reachability from the last gathering move,
//     with the conductor bend / no-backtrack rule.
//   - isOnLoloPath: strict lower-left↔upper-right diagonal membership.

package board

import "fmt"

// unitStep returns the unit direction from a toward b. The two positions
// must be distinct and row- or column-aligned; anything else is an
// internal invariant breach.
func unitStep(a, b RC) (dr, dc int) {
	switch {
	case a.Row == b.Row && a.Col != b.Col:
		if b.Col > a.Col {
			return 0, 1
		}
		return 0, -1
	case a.Col == b.Col && a.Row != b.Row:
		if b.Row > a.Row {
			return 1, 0
		}
		return -1, 0
	}
	panic(fmt.Sprintf("board: no unit step from %v to %v", a, b))
}

// walk steps from start (exclusive) toward target in direction (dr, dc).
// Every intermediate cell must satisfy pass; leaving the grid fails.
// Reaching target succeeds.
func walk(g *Grid[Cell], start, target RC, dr, dc int, pass func(Cell) bool) bool {
	pos := RC{Row: start.Row + dr, Col: start.Col + dc}
	for pos != target {
		if !g.InBounds(pos) {
			return false
		}
		if !pass(g.At(pos)) {
			return false
		}
		pos.Row += dr
		pos.Col += dc
	}
	return true
}

// isAdjacent reports whether b is reachable from a by a straight walk
// whose intermediate cells are all done. Identical or unaligned
// positions are never adjacent.
func isAdjacent(g *Grid[Cell], a, b RC) bool {
	if a == b || (a.Row != b.Row && a.Col != b.Col) {
		return false
	}
	dr, dc := unitStep(a, b)
	return walk(g, a, b, dr, dc, Cell.TraversibleForAdjacency)
}

// isConnectedForKeyword reports whether candidate may extend the chain of
// gathering moves. The first move of a keyword is trivially accepted.
// Otherwise candidate must be aligned with the last move's cell rc1, and
// the walking direction rc1 → candidate is constrained by the move before
// that (rc0): through an ordinary rc1 the rc0 → rc1 direction must
// continue unchanged; an active conductor at rc1 permits any turn except
// directly backtracking toward rc0. The walk itself passes through done
// cells and active conductors.
func isConnectedForKeyword(g *Grid[Cell], prior []Move, candidate RC) bool {
	if len(prior) == 0 {
		return true
	}
	rc1 := prior[len(prior)-1].Pos
	if candidate == rc1 || (candidate.Row != rc1.Row && candidate.Col != rc1.Col) {
		return false
	}
	dr, dc := unitStep(rc1, candidate)
	if len(prior) >= 2 {
		rc0 := prior[len(prior)-2].Pos
		if rc0 != rc1 {
			pdr, pdc := unitStep(rc0, rc1)
			if g.At(rc1).isActiveConductor() {
				if dr == -pdr && dc == -pdc {
					return false
				}
			} else if dr != pdr || dc != pdc {
				return false
			}
		}
	}
	return walk(g, rc1, candidate, dr, dc, Cell.TraversibleForKeyword)
}

// isOnLoloPath reports whether target lies strictly on the diagonal
// through anchor running from lower-left to upper-right: equal absolute
// row and column deltas, one negative and one positive. Same row, same
// column, the anchor itself, and the opposite diagonal are all false.
func isOnLoloPath(anchor, target RC) bool {
	dr := target.Row - anchor.Row
	dc := target.Col - anchor.Col
	return dr != 0 && dr == -dc
}
