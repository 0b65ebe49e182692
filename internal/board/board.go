// internal/board/board.go
//
// Board: the player-facing move log over an immutable initial grid.
// Responsibilities:
//   - Parse the fixed-width puzzle text into the initial grid (ragged
//     input fails construction).
//   - Record player actions; each step snapshots the grid after the
//     action for O(1) undo and current-state queries.
//   - Expose display queries against the latest snapshot.
//
// Mutation methods accept any structurally valid move and never judge
// legality; all rule checking happens at validation time, which replays
// only the Move values against a fresh copy of the initial grid (the
// snapshots are display/undo plumbing, never consulted by the validator).

package board

import (
	"errors"
	"fmt"
	"strings"
)

// Board owns the immutable initial grid and the append/pop-only move log.
type Board struct {
	initial Grid[Cell]
	steps   []step
}

// step pairs a move with the grid as it stood after applying it.
type step struct {
	move Move
	grid Grid[Cell]
}

// New parses puzzle text into a Board. One line per row; all lines must
// have equal length.
func New(text string) (*Board, error) {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(strings.Trim(text, "\n"), "\n")
	if len(lines) == 0 || lines[0] == "" {
		return nil, errors.New("board: empty puzzle text")
	}
	width := len([]rune(lines[0]))
	g := NewGrid(width, len(lines), Cell{})
	for row, line := range lines {
		runes := []rune(line)
		if len(runes) != width {
			return nil, fmt.Errorf("board: ragged puzzle text: line %d has %d cells, want %d", row, len(runes), width)
		}
		for col, ch := range runes {
			g.Set(RC{Row: row, Col: col}, cellFromGlyph(ch))
		}
	}
	return &Board{initial: g}, nil
}

// Width is the number of columns.
func (b *Board) Width() int { return b.initial.Width() }

// Height is the number of rows.
func (b *Board) Height() int { return b.initial.Height() }

// current is the latest snapshot, or the initial grid before any move.
func (b *Board) current() *Grid[Cell] {
	if len(b.steps) == 0 {
		return &b.initial
	}
	return &b.steps[len(b.steps)-1].grid
}

// At returns the cell at (row, col) as of the latest move.
// Out-of-range coordinates are a fatal precondition violation.
func (b *Board) At(row, col int) Cell {
	return b.current().At(RC{Row: row, Col: col})
}

// Moves returns the recorded move sequence, oldest first.
func (b *Board) Moves() []Move {
	out := make([]Move, len(b.steps))
	for i, s := range b.steps {
		out[i] = s.move
	}
	return out
}

// MoveCount is the number of recorded moves.
func (b *Board) MoveCount() int { return len(b.steps) }

// push clones the current grid, applies mutate to the target cell, and
// appends the resulting snapshot.
func (b *Board) push(m Move, mutate func(*Cell)) {
	g := b.current().Clone()
	mutate(g.Ref(m.Pos))
	b.steps = append(b.steps, step{move: m, grid: g})
}

// Blacken records a blacken action at (row, col).
func (b *Board) Blacken(row, col int) {
	b.push(Move{Kind: MoveBlacken, Pos: RC{Row: row, Col: col}}, (*Cell).Blacken)
}

// MarkPath records a mark-path action at (row, col).
func (b *Board) MarkPath(row, col int) {
	b.push(Move{Kind: MoveMarkPath, Pos: RC{Row: row, Col: col}}, (*Cell).MarkPath)
}

// ChangeLetter records a letter change at (row, col). A rejected change
// is a silent no-op: it is never recorded and so can never later be
// judged illegal — it simply never happened.
func (b *Board) ChangeLetter(row, col int, ch rune) bool {
	rc := RC{Row: row, Col: col}
	g := b.current().Clone()
	if !g.Ref(rc).TryChangeLetter(ch) {
		return false
	}
	b.steps = append(b.steps, step{
		move: Move{Kind: MoveChangeLetter, Pos: rc, Letter: ch},
		grid: g,
	})
	return true
}

// Undo pops the last move, if any.
func (b *Board) Undo() {
	if len(b.steps) > 0 {
		b.steps = b.steps[:len(b.steps)-1]
	}
}
