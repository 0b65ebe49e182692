// internal/board/move.go
//
// Player actions. A Move is a tagged variant over blacken / mark-path /
// change-letter, carrying the target position uniformly; change-letter
// additionally carries the new letter.

package board

import "fmt"

// MoveKind discriminates the Move variants.
type MoveKind int

const (
	MoveBlacken MoveKind = iota
	MoveMarkPath
	MoveChangeLetter
)

func (k MoveKind) String() string {
	switch k {
	case MoveBlacken:
		return "blacken"
	case MoveMarkPath:
		return "mark"
	case MoveChangeLetter:
		return "letter"
	}
	return fmt.Sprintf("MoveKind(%d)", int(k))
}

// Move is a single player action against a board position.
type Move struct {
	Kind   MoveKind
	Pos    RC
	Letter rune // only set for MoveChangeLetter
}

func (m Move) String() string {
	if m.Kind == MoveChangeLetter {
		return fmt.Sprintf("%s %v %c", m.Kind, m.Pos, m.Letter)
	}
	return fmt.Sprintf("%s %v", m.Kind, m.Pos)
}
