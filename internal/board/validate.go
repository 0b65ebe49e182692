// internal/board/validate.go
//
// The validation automaton. Validate replays the recorded moves, in
// order, against a private copy of the initial grid and reports either a
// structured terminal verdict or the exact move at which the sequence
// became illegal. The automaton alternates between gathering letters into
// a candidate keyword and fulfilling a matched keyword's post-match
// obligation.
//
// The replay is a reducer: (state, move) → (state, error kind), applied
// left to right and short-circuiting on the first error. It never touches
// the Board's own snapshots, so validation is a pure, idempotent read.

package board

import "strings"

// Recognized keywords and their execution obligations:
//   LOK  — blacken any one cell.
//   TLAK — blacken two cells, the second adjacent to the first.
//   TA   — pick a letter (blanks count) and blacken every cell bearing it.
//   BE   — write a letter into one blank cell; blackening is forbidden.
//   LOLO — blacken an anchor and every cell left on its diagonal.
//
// Invariant on this table: no keyword is a strict prefix of another,
// otherwise gathering would be ambiguous. Nothing at runtime defends
// against it; the table test pins it.
var keywords = []string{"LOK", "TLAK", "TA", "BE", "LOLO"}

func keywordWithPrefix(s string) bool {
	for _, k := range keywords {
		if strings.HasPrefix(k, s) {
			return true
		}
	}
	return false
}

func isKeyword(s string) bool {
	for _, k := range keywords {
		if k == s {
			return true
		}
	}
	return false
}

// ErrKind enumerates the ways a single move can be illegal.
type ErrKind int

const (
	ErrAlreadyBlackened ErrKind = iota
	ErrBlackenNotConnectedForKeyword
	ErrGatheringNonLetter
	ErrUnknownKeyword
	ErrTLAKNotAdjacent
	ErrTAInvalidLetter
	ErrTALetterMismatch
	ErrBECannotBlacken
	ErrLOLONotOnPath
	ErrCannotMarkWhileExecuting
	ErrPathNotConnectedForKeyword
	ErrCellCannotChangeLetterInThisState
	ErrCannotChangeToThisLetter
	ErrBECannotChangeNonBlankCell
	ErrBECannotChangeToThisLetter
)

var errKindNames = map[ErrKind]string{
	ErrAlreadyBlackened:                  "AlreadyBlackened",
	ErrBlackenNotConnectedForKeyword:     "BlackenNotConnectedForKeyword",
	ErrGatheringNonLetter:                "GatheringNonLetter",
	ErrUnknownKeyword:                    "UnknownKeyword",
	ErrTLAKNotAdjacent:                   "TLAKNotAdjacent",
	ErrTAInvalidLetter:                   "TAInvalidLetter",
	ErrTALetterMismatch:                  "TALetterMismatch",
	ErrBECannotBlacken:                   "BECannotBlacken",
	ErrLOLONotOnPath:                     "LOLONotOnPath",
	ErrCannotMarkWhileExecuting:          "CannotMarkWhileExecuting",
	ErrPathNotConnectedForKeyword:        "PathNotConnectedForKeyword",
	ErrCellCannotChangeLetterInThisState: "CellCannotChangeLetterInThisState",
	ErrCannotChangeToThisLetter:          "CannotChangeToThisLetter",
	ErrBECannotChangeNonBlankCell:        "BECannotChangeNonBlankCell",
	ErrBECannotChangeToThisLetter:        "BECannotChangeToThisLetter",
}

func (k ErrKind) String() string {
	if s, ok := errKindNames[k]; ok {
		return s
	}
	return "UnknownError"
}

// VerdictKind classifies the overall outcome of a validation run.
type VerdictKind int

const (
	// Correct: every move legal, automaton idle, every interactive cell done.
	Correct VerdictKind = iota
	// Incomplete: all moves legal but some interactive cell never reached done.
	Incomplete
	// NotIdle: all moves legal but the run ends mid-execution of a keyword.
	NotIdle
	// PartialKeyword: the run ends with a non-empty unmatched gathered prefix.
	PartialKeyword
	// ErrorOnMove: the first illegal move, with its index and kind.
	ErrorOnMove
)

func (k VerdictKind) String() string {
	switch k {
	case Correct:
		return "correct"
	case Incomplete:
		return "incomplete"
	case NotIdle:
		return "not_idle"
	case PartialKeyword:
		return "partial_keyword"
	case ErrorOnMove:
		return "error_on_move"
	}
	return "unknown"
}

// Verdict is the structured outcome of a validation run.
// MoveIndex and Err are only meaningful when Kind is ErrorOnMove.
type Verdict struct {
	Kind      VerdictKind
	MoveIndex int
	Err       ErrKind
}

// phase discriminates the automaton states.
type phase int

const (
	phaseGather phase = iota
	phaseLOK
	phaseTLAK
	phaseTA
	phaseBE
	phaseLOLO
)

// autoState is the automaton state threaded through the replay loop.
// It is reconstructed fresh on every validation run, never persisted.
type autoState struct {
	phase    phase
	partial  []rune // gathered keyword prefix
	gathered []Move // blacken/mark moves of the current gathering run

	anchor    RC // TLAK first cell / LOLO diagonal anchor
	hasAnchor bool

	taLetter    rune // letter TA committed to
	hasTALetter bool
}

func idleState() autoState { return autoState{phase: phaseGather} }

// Validate replays the full move sequence and produces the outcome.
// It is a pure function of (initial grid, move sequence).
func (b *Board) Validate() Verdict {
	g := b.initial.Clone()
	st := idleState()
	for i, s := range b.steps {
		if kind, ok := applyMove(&g, &st, s.move); !ok {
			return Verdict{Kind: ErrorOnMove, MoveIndex: i, Err: kind}
		}
	}
	if st.phase != phaseGather {
		return Verdict{Kind: NotIdle}
	}
	if len(st.partial) > 0 {
		return Verdict{Kind: PartialKeyword}
	}
	for it := g.Cells(); ; {
		_, c, ok := it.Next()
		if !ok {
			break
		}
		if c.IsInteractive() && !c.IsDone() {
			return Verdict{Kind: Incomplete}
		}
	}
	return Verdict{Kind: Correct}
}

// applyMove is the reducer step. It mutates the replay grid and state and
// reports the error kind when the move is illegal.
func applyMove(g *Grid[Cell], st *autoState, m Move) (ErrKind, bool) {
	cell := g.Ref(m.Pos)

	// A blackened cell can never again be the target of any move,
	// whatever the automaton state.
	if cell.IsBlackened() {
		return ErrAlreadyBlackened, false
	}

	switch m.Kind {
	case MoveBlacken:
		return applyBlacken(g, st, m, cell)
	case MoveMarkPath:
		if st.phase != phaseGather {
			return ErrCannotMarkWhileExecuting, false
		}
		if !isConnectedForKeyword(g, st.gathered, m.Pos) {
			return ErrPathNotConnectedForKeyword, false
		}
		cell.MarkPath()
		st.gathered = append(st.gathered, m)
		return 0, true
	case MoveChangeLetter:
		return applyChangeLetter(st, m, cell)
	}
	return 0, true
}

func applyBlacken(g *Grid[Cell], st *autoState, m Move, cell *Cell) (ErrKind, bool) {
	switch st.phase {
	case phaseGather:
		if !isConnectedForKeyword(g, st.gathered, m.Pos) {
			return ErrBlackenNotConnectedForKeyword, false
		}
		letter, ok := cell.Letter()
		if !ok {
			return ErrGatheringNonLetter, false
		}
		st.partial = append(st.partial, letter)
		st.gathered = append(st.gathered, m)
		word := string(st.partial)
		if !keywordWithPrefix(word) {
			return ErrUnknownKeyword, false
		}
		if isKeyword(word) {
			// The keyword is complete: blacken every accumulated blacken
			// target at once (marked transits stay unblackened) and move
			// to the keyword's execution state.
			for _, gm := range st.gathered {
				if gm.Kind == MoveBlacken {
					g.Ref(gm.Pos).Blacken()
				}
			}
			*st = executionState(word)
		}
		return 0, true

	case phaseLOK:
		cell.Blacken()
		*st = idleState()
		return 0, true

	case phaseTLAK:
		if st.hasAnchor {
			if !isAdjacent(g, st.anchor, m.Pos) {
				return ErrTLAKNotAdjacent, false
			}
			cell.Blacken()
			*st = idleState()
			return 0, true
		}
		cell.Blacken()
		st.anchor = m.Pos
		st.hasAnchor = true
		return 0, true

	case phaseTA:
		letter, ok := cell.LetterOrBlank()
		if !ok {
			return ErrTAInvalidLetter, false
		}
		if st.hasTALetter && st.taLetter != letter {
			return ErrTALetterMismatch, false
		}
		cell.Blacken()
		if taLetterRemains(g, letter) {
			st.taLetter = letter
			st.hasTALetter = true
		} else {
			*st = idleState()
		}
		return 0, true

	case phaseBE:
		return ErrBECannotBlacken, false

	case phaseLOLO:
		anchor := m.Pos
		if st.hasAnchor {
			if !isOnLoloPath(st.anchor, m.Pos) {
				return ErrLOLONotOnPath, false
			}
			anchor = st.anchor
		}
		cell.Blacken()
		if loloCellRemains(g, anchor) {
			st.anchor = anchor
			st.hasAnchor = true
		} else {
			*st = idleState()
		}
		return 0, true
	}
	return 0, true
}

func applyChangeLetter(st *autoState, m Move, cell *Cell) (ErrKind, bool) {
	if st.phase == phaseBE {
		// BE writes into a cell that does not carry a letter yet, and the
		// written letter must be a real one.
		if !cell.isBlank() {
			return ErrBECannotChangeNonBlankCell, false
		}
		if m.Letter == GapGlyph || m.Letter == BlankGlyph {
			return ErrBECannotChangeToThisLetter, false
		}
		if !cell.TryChangeLetter(m.Letter) {
			return ErrBECannotChangeToThisLetter, false
		}
		*st = idleState()
		return 0, true
	}
	// Gathering or any other execution state: only ever-wildcard cells
	// may be rewritten, and the automaton state is untouched.
	if !cell.WasEverWildcard() {
		return ErrCellCannotChangeLetterInThisState, false
	}
	if !cell.TryChangeLetter(m.Letter) {
		return ErrCannotChangeToThisLetter, false
	}
	return 0, true
}

// executionState maps a just-matched keyword to its execution state.
func executionState(word string) autoState {
	switch word {
	case "LOK":
		return autoState{phase: phaseLOK}
	case "TLAK":
		return autoState{phase: phaseTLAK}
	case "TA":
		return autoState{phase: phaseTA}
	case "BE":
		return autoState{phase: phaseBE}
	case "LOLO":
		return autoState{phase: phaseLOLO}
	}
	panic("board: no execution state for keyword " + word)
}

// taLetterRemains reports whether any non-blackened cell still carries
// letter (blanks match the blank glyph).
func taLetterRemains(g *Grid[Cell], letter rune) bool {
	for it := g.Cells(); ; {
		_, c, ok := it.Next()
		if !ok {
			return false
		}
		if c.IsBlackened() {
			continue
		}
		if l, ok := c.LetterOrBlank(); ok && l == letter {
			return true
		}
	}
}

// loloCellRemains reports whether any not-done cell is left on the
// diagonal through anchor.
func loloCellRemains(g *Grid[Cell], anchor RC) bool {
	for it := g.Cells(); ; {
		rc, c, ok := it.Next()
		if !ok {
			return false
		}
		if isOnLoloPath(anchor, rc) && !c.IsDone() {
			return true
		}
	}
}
