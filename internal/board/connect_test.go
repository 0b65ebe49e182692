package board

import "testing"

// gridFromText parses puzzle text straight into a grid for predicate tests.
func gridFromText(t *testing.T, text string) Grid[Cell] {
	t.Helper()
	b, err := New(text)
	if err != nil {
		t.Fatalf("New(%q) failed: %v", text, err)
	}
	return b.initial
}

func TestIsAdjacent(t *testing.T) {
	g := gridFromText(t, "A-B\nC-D")

	cases := []struct {
		name string
		a, b RC
		want bool
	}{
		{"same cell", RC{0, 0}, RC{0, 0}, false},
		{"diagonal", RC{0, 0}, RC{1, 2}, false},
		{"immediate neighbour", RC{0, 0}, RC{0, 1}, true},
		{"across a gap", RC{0, 0}, RC{0, 2}, true},
		{"across a live letter", RC{0, 0}, RC{1, 0}, true},
	}
	for _, tc := range cases {
		if got := isAdjacent(&g, tc.a, tc.b); got != tc.want {
			t.Errorf("%s: isAdjacent(%v,%v) = %v, want %v", tc.name, tc.a, tc.b, got, tc.want)
		}
	}

	// A blackened cell becomes traversible, a live letter is not.
	g2 := gridFromText(t, "AQB")
	if isAdjacent(&g2, RC{0, 0}, RC{0, 2}) {
		t.Errorf("walk passed through a live letter")
	}
	g2.Ref(RC{0, 1}).Blacken()
	if !isAdjacent(&g2, RC{0, 0}, RC{0, 2}) {
		t.Errorf("walk blocked by a blackened (done) cell")
	}
}

func TestConnectedFirstMoveTrivial(t *testing.T) {
	g := gridFromText(t, "AB")
	if !isConnectedForKeyword(&g, nil, RC{0, 1}) {
		t.Errorf("first letter of a keyword must be accepted anywhere")
	}
}

func TestConnectedRequiresAlignment(t *testing.T) {
	g := gridFromText(t, "AB\nCD")
	prior := []Move{{Kind: MoveBlacken, Pos: RC{0, 0}}}
	if isConnectedForKeyword(&g, prior, RC{1, 1}) {
		t.Errorf("diagonal candidate accepted")
	}
	if isConnectedForKeyword(&g, prior, RC{0, 0}) {
		t.Errorf("zero-length walk accepted")
	}
	if !isConnectedForKeyword(&g, prior, RC{0, 1}) {
		t.Errorf("aligned neighbour rejected")
	}
}

func TestConnectedStraightThroughOrdinaryCell(t *testing.T) {
	// Two prior moves through an ordinary cell lock the direction.
	g := gridFromText(t, "AB-\n-C-")
	prior := []Move{
		{Kind: MoveBlacken, Pos: RC{0, 0}},
		{Kind: MoveBlacken, Pos: RC{0, 1}},
	}
	if !isConnectedForKeyword(&g, prior, RC{0, 2}) {
		t.Errorf("continuing straight rejected")
	}
	if isConnectedForKeyword(&g, prior, RC{1, 1}) {
		t.Errorf("turn at an ordinary cell accepted")
	}
	if isConnectedForKeyword(&g, prior, RC{0, 0}) {
		t.Errorf("backtrack through an ordinary cell accepted")
	}
}

func TestConnectedBendsAtConductor(t *testing.T) {
	g := gridFromText(t, "AX-\n-B-")
	prior := []Move{
		{Kind: MoveBlacken, Pos: RC{0, 0}},
		{Kind: MoveMarkPath, Pos: RC{0, 1}},
	}
	if !isConnectedForKeyword(&g, prior, RC{1, 1}) {
		t.Errorf("90° bend at an active conductor rejected")
	}
	if !isConnectedForKeyword(&g, prior, RC{0, 2}) {
		t.Errorf("continuing straight through a conductor rejected")
	}
	if isConnectedForKeyword(&g, prior, RC{0, 0}) {
		t.Errorf("direct backtrack at a conductor accepted")
	}

	// Once blackened the conductor is an ordinary done cell again: the
	// incoming direction must continue.
	g.Ref(RC{0, 1}).Blacken()
	if isConnectedForKeyword(&g, prior, RC{1, 1}) {
		t.Errorf("bend allowed at a blackened conductor")
	}
}

func TestConnectedWalkTraversibility(t *testing.T) {
	g := gridFromText(t, "A-QXB")
	prior := []Move{{Kind: MoveBlacken, Pos: RC{0, 0}}}
	// Q blocks the walk; gap and conductor would pass.
	if isConnectedForKeyword(&g, prior, RC{0, 4}) {
		t.Errorf("walk passed through a live letter")
	}
	g.Ref(RC{0, 2}).Blacken()
	if !isConnectedForKeyword(&g, prior, RC{0, 4}) {
		t.Errorf("walk blocked despite gap+done+conductor path")
	}
}

func TestIsOnLoloPath(t *testing.T) {
	anchor := RC{2, 2}
	cases := []struct {
		target RC
		want   bool
	}{
		{RC{1, 3}, true},  // above and right
		{RC{0, 4}, true},  // further out
		{RC{3, 1}, true},  // below and left
		{RC{2, 2}, false}, // the anchor itself
		{RC{2, 4}, false}, // same row
		{RC{0, 2}, false}, // same column
		{RC{1, 1}, false}, // opposite diagonal
		{RC{0, 3}, false}, // unequal deltas
	}
	for _, tc := range cases {
		if got := isOnLoloPath(anchor, tc.target); got != tc.want {
			t.Errorf("isOnLoloPath(%v,%v) = %v, want %v", anchor, tc.target, got, tc.want)
		}
	}
}
