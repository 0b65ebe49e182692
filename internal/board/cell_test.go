package board

import "testing"

func TestCellClasses(t *testing.T) {
	gap := cellFromGlyph(GapGlyph)
	blank := cellFromGlyph(BlankGlyph)
	conductor := cellFromGlyph(ConductorGlyph)
	wild := cellFromGlyph(WildcardGlyph)
	letter := cellFromGlyph('q')

	if gap.IsInteractive() {
		t.Errorf("gap is interactive")
	}
	for name, c := range map[string]Cell{"blank": blank, "conductor": conductor, "wildcard": wild, "letter": letter} {
		if !c.IsInteractive() {
			t.Errorf("%s is not interactive", name)
		}
	}

	// Gathering letters: gaps and blanks have none, conductors and
	// regular letters do. Lowercase input is uppercased on ingestion.
	if _, ok := gap.Letter(); ok {
		t.Errorf("gap has a keyword letter")
	}
	if _, ok := blank.Letter(); ok {
		t.Errorf("blank has a keyword letter")
	}
	if l, ok := letter.Letter(); !ok || l != 'Q' {
		t.Errorf("letter cell yields %q ok=%v, want Q", l, ok)
	}
	if l, ok := conductor.Letter(); !ok || l != ConductorGlyph {
		t.Errorf("conductor yields %q ok=%v, want its glyph", l, ok)
	}

	// TA matching: only gaps are excluded.
	if _, ok := gap.LetterOrBlank(); ok {
		t.Errorf("gap matchable by TA")
	}
	if l, ok := blank.LetterOrBlank(); !ok || l != BlankGlyph {
		t.Errorf("blank not matchable by TA (%q, %v)", l, ok)
	}

	if !wild.WasEverWildcard() {
		t.Errorf("wildcard cell not flagged")
	}
}

func TestCellDoneAndTraversibility(t *testing.T) {
	gap := cellFromGlyph(GapGlyph)
	if !gap.IsDone() || !gap.TraversibleForAdjacency() || !gap.TraversibleForKeyword() {
		t.Errorf("gap must be done and traversible everywhere")
	}

	blank := cellFromGlyph(BlankGlyph)
	if blank.IsDone() {
		t.Errorf("untouched blank counted done")
	}
	blank.Blacken()
	if !blank.IsDone() || !blank.TraversibleForAdjacency() {
		t.Errorf("blackened blank not done")
	}

	conductor := cellFromGlyph(ConductorGlyph)
	if conductor.TraversibleForAdjacency() {
		t.Errorf("active conductor traversible for adjacency")
	}
	if !conductor.TraversibleForKeyword() {
		t.Errorf("active conductor blocks keyword walks")
	}
	conductor.Blacken()
	if !conductor.TraversibleForAdjacency() || !conductor.TraversibleForKeyword() {
		t.Errorf("blackened conductor no longer traversible")
	}
}

func TestTryChangeLetter(t *testing.T) {
	wild := cellFromGlyph(WildcardGlyph)
	if !wild.TryChangeLetter('k') {
		t.Fatalf("wildcard rewrite rejected")
	}
	if l, _ := wild.Letter(); l != 'K' {
		t.Fatalf("rewrite not uppercased: %q", l)
	}
	if !wild.WasEverWildcard() {
		t.Fatalf("wildcard history lost after rewrite")
	}

	if wild.TryChangeLetter(GapGlyph) {
		t.Fatalf("rewrite to the gap glyph accepted")
	}

	wild.Blacken()
	if wild.TryChangeLetter('Z') {
		t.Fatalf("rewrite of a blackened cell accepted")
	}

	// Writing the wildcard glyph makes any cell rewritable forever.
	plain := cellFromGlyph('Q')
	if plain.WasEverWildcard() {
		t.Fatalf("plain letter flagged as wildcard")
	}
	if !plain.TryChangeLetter(WildcardGlyph) || !plain.WasEverWildcard() {
		t.Fatalf("writing the wildcard glyph did not flag the cell")
	}
}

func TestMarkCount(t *testing.T) {
	c := cellFromGlyph('A')
	c.MarkPath()
	c.MarkPath()
	c.Blacken()
	if c.MarkCount() != 3 {
		t.Fatalf("MarkCount = %d, want 3", c.MarkCount())
	}
	if !c.IsMarked() {
		t.Fatalf("mark flag lost")
	}
}
