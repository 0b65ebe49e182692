// internal/board/cell.go
//
// Per-cell state and the letter-class predicates built on it.
// A cell's letter decides its class:
//   - no letter          → gap: permanently inert, always counted done.
//   - the blank glyph    → blank: interactive, not a keyword letter.
//   - the conductor glyph → conductor: passable while gathering, never a keyword letter.
//   - anything else      → regular letter; wildcard-written letters stay rewritable.
//
// Mutation is limited to Blacken, MarkPath and TryChangeLetter; everything
// else is a pure read.

package board

import "unicode"

// Glyphs used in puzzle text. Every other ASCII letter is a regular
// keyword letter, case-normalized to uppercase on ingestion.
const (
	GapGlyph       rune = '-'
	BlankGlyph     rune = '_'
	ConductorGlyph rune = 'X'
	WildcardGlyph  rune = '*'
)

// Cell is the state of a single board position.
// The zero value is a gap.
type Cell struct {
	letter          rune // 0 for a gap
	blackened       bool
	markedForPath   bool
	wasEverWildcard bool
	markCount       int
}

// cellFromGlyph builds the initial cell for one puzzle-text character.
func cellFromGlyph(ch rune) Cell {
	if ch == GapGlyph {
		return Cell{}
	}
	c := Cell{letter: unicode.ToUpper(ch)}
	if ch == WildcardGlyph {
		c.wasEverWildcard = true
	}
	return c
}

// IsInteractive reports whether the cell can ever be the target of a move.
// Only gaps are non-interactive.
func (c Cell) IsInteractive() bool { return c.letter != 0 }

// Letter returns the cell's keyword letter. Gaps and blanks have none;
// conductors do carry their glyph as a letter (gathering one yields an
// unknown keyword rather than a non-letter rejection).
func (c Cell) Letter() (rune, bool) {
	if c.letter == 0 || c.letter == BlankGlyph {
		return 0, false
	}
	return c.letter, true
}

// LetterOrBlank returns the cell's letter, treating the blank glyph as a
// matchable letter. Only gaps have none. Used by TA, which must also
// match against blanks.
func (c Cell) LetterOrBlank() (rune, bool) {
	if c.letter == 0 {
		return 0, false
	}
	return c.letter, true
}

// IsBlackened reports whether the cell has been blackened.
func (c Cell) IsBlackened() bool { return c.blackened }

// IsMarked reports whether the cell was ever marked as a path transit.
func (c Cell) IsMarked() bool { return c.markedForPath }

// WasEverWildcard reports whether the cell ever carried the wildcard
// glyph. Such cells stay rewritable even after being changed away from
// the wildcard glyph, until blackened.
func (c Cell) WasEverWildcard() bool { return c.wasEverWildcard }

// MarkCount is a render-only interaction counter: it increments on every
// blacken or mark-path action and has no semantic effect.
func (c Cell) MarkCount() int { return c.markCount }

// IsDone reports whether the cell needs no further interaction:
// gaps always, everything else once blackened. A blank always carries
// the blank glyph as its letter, so it is only ever done via blackening.
func (c Cell) IsDone() bool { return c.letter == 0 || c.blackened }

// TraversibleForAdjacency reports whether a straight adjacency walk may
// pass through this cell.
func (c Cell) TraversibleForAdjacency() bool { return c.IsDone() }

// TraversibleForKeyword reports whether a keyword-connectivity walk may
// pass through this cell. Active (non-blackened) conductors are passable
// in addition to done cells.
func (c Cell) TraversibleForKeyword() bool {
	return c.IsDone() || c.isActiveConductor()
}

func (c Cell) isActiveConductor() bool {
	return c.letter == ConductorGlyph && !c.blackened
}

// isBlank reports whether the cell still carries the blank glyph.
func (c Cell) isBlank() bool { return c.letter == BlankGlyph }

// Blacken marks the cell blackened and bumps the interaction counter.
func (c *Cell) Blacken() {
	c.blackened = true
	c.markCount++
}

// MarkPath flags the cell as a path transit and bumps the counter.
func (c *Cell) MarkPath() {
	c.markedForPath = true
	c.markCount++
}

// TryChangeLetter rewrites the cell's letter, uppercased. It fails on the
// gap glyph and on blackened cells; writing the wildcard glyph makes the
// cell rewritable forever after. Failed attempts must not be recorded as
// moves, so callers check the return.
func (c *Cell) TryChangeLetter(ch rune) bool {
	if c.blackened || ch == GapGlyph {
		return false
	}
	c.letter = unicode.ToUpper(ch)
	if ch == WildcardGlyph {
		c.wasEverWildcard = true
	}
	return true
}

// DisplayLetter is the glyph to render for this cell; gaps render as the
// gap glyph.
func (c Cell) DisplayLetter() rune {
	if c.letter == 0 {
		return GapGlyph
	}
	return c.letter
}
