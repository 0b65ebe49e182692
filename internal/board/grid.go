// internal/board/grid.go
//
// Fixed-size 2D grid with row/column addressing.
// Responsibilities:
//   - Row-major backing store, template-filled construction.
//   - Get/set by RC pair; out-of-range indexing is a programmer error and panics.
//   - Reading-order (row by row, left to right) restartable enumeration.
//
// Positions are always derived from validated board coordinates upstream,
// so there is no recoverable "index out of range" result here.

package board

import "fmt"

// RC is a row/column pair addressing a grid cell.
// Row 0 is the top line of the puzzle text, column 0 the leftmost glyph.
type RC struct {
	Row int
	Col int
}

func (rc RC) String() string { return fmt.Sprintf("(%d,%d)", rc.Row, rc.Col) }

// Grid is a fixed-size 2D container backed by a single row-major slice.
// It never resizes after construction.
type Grid[T any] struct {
	width  int
	height int
	cells  []T
}

// NewGrid builds a width×height grid with every cell set to template.
func NewGrid[T any](width, height int, template T) Grid[T] {
	cells := make([]T, width*height)
	for i := range cells {
		cells[i] = template
	}
	return Grid[T]{width: width, height: height, cells: cells}
}

// Width is the number of columns.
func (g *Grid[T]) Width() int { return g.width }

// Height is the number of rows.
func (g *Grid[T]) Height() int { return g.height }

// InBounds reports whether rc addresses a cell of the grid.
func (g *Grid[T]) InBounds(rc RC) bool {
	return rc.Row >= 0 && rc.Row < g.height && rc.Col >= 0 && rc.Col < g.width
}

func (g *Grid[T]) index(rc RC) int {
	if !g.InBounds(rc) {
		panic(fmt.Sprintf("board: grid index %v out of range (%dx%d)", rc, g.width, g.height))
	}
	return rc.Row*g.width + rc.Col
}

// At returns a copy of the cell at rc. Panics if rc is out of range.
func (g *Grid[T]) At(rc RC) T { return g.cells[g.index(rc)] }

// Ref returns a pointer to the cell at rc for in-place mutation.
func (g *Grid[T]) Ref(rc RC) *T { return &g.cells[g.index(rc)] }

// Set overwrites the cell at rc.
func (g *Grid[T]) Set(rc RC, v T) { g.cells[g.index(rc)] = v }

// Clone returns an independent deep copy of the grid.
func (g *Grid[T]) Clone() Grid[T] {
	cells := make([]T, len(g.cells))
	copy(cells, g.cells)
	return Grid[T]{width: g.width, height: g.height, cells: cells}
}

// Cells returns a fresh reading-order iterator over (position, cell) pairs.
// Every cell is yielded exactly once, ascending row then column. Obtain a
// new iterator (or Reset) to restart.
func (g *Grid[T]) Cells() *GridIter[T] {
	return &GridIter[T]{g: g}
}

// GridIter walks a grid in reading order.
type GridIter[T any] struct {
	g *Grid[T]
	i int
}

// Next yields the next (position, cell) pair, or ok=false when exhausted.
func (it *GridIter[T]) Next() (RC, T, bool) {
	if it.i >= len(it.g.cells) {
		var zero T
		return RC{}, zero, false
	}
	rc := RC{Row: it.i / it.g.width, Col: it.i % it.g.width}
	v := it.g.cells[it.i]
	it.i++
	return rc, v, true
}

// Reset rewinds the iterator to the first cell.
func (it *GridIter[T]) Reset() { it.i = 0 }
