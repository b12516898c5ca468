// board/board.go
package board

import "github.com/wfunc/tetris/tetromino"

// Board is a fixed-size grid of cell values; 0 is empty, 1-7 identifies
// the piece type that settled there. Dimensions never change after
// creation.
type Board struct {
	cols  int
	rows  int
	cells [][]int
}

// New creates an all-empty cols x rows board.
func New(cols, rows int) *Board {
	b := &Board{
		cols:  cols,
		rows:  rows,
		cells: make([][]int, rows),
	}
	for y := range b.cells {
		b.cells[y] = make([]int, cols)
	}
	return b
}

func (b *Board) Cols() int { return b.cols }
func (b *Board) Rows() int { return b.rows }

// Cell returns the value at (x, y). Only valid for in-range coordinates.
func (b *Board) Cell(x, y int) int {
	return b.cells[y][x]
}

// SetCell writes a value directly; used by tests and state restore.
func (b *Board) SetCell(x, y, v int) {
	b.cells[y][x] = v
}

// Collides reports whether any nonzero cell of the shape, offset by
// (px, py), lands outside the horizontal bounds, below the bottom, or on
// an occupied cell. Cells above row 0 are never out of bounds: pieces
// may spawn partly above the board.
func (b *Board) Collides(shape tetromino.Matrix, px, py int) bool {
	for y, row := range shape {
		for x, v := range row {
			if v == 0 {
				continue
			}
			bx := px + x
			by := py + y
			if bx < 0 || bx >= b.cols || by >= b.rows {
				return true
			}
			if by >= 0 && b.cells[by][bx] != 0 {
				return true
			}
		}
	}
	return false
}

// Merge writes every nonzero shape cell into the board at the offset
// position. The caller must have verified the placement does not
// collide; Merge performs no bounds checking.
func (b *Board) Merge(shape tetromino.Matrix, px, py int) {
	for y, row := range shape {
		for x, v := range row {
			if v != 0 {
				b.cells[py+y][px+x] = v
			}
		}
	}
}

// Sweep removes every full row, inserting a fresh empty row at the top
// for each, and returns the number of rows cleared. Rows above a cleared
// row shift down one position per clear; rows below are unaffected.
func (b *Board) Sweep() int {
	cleared := 0
	for y := b.rows - 1; y >= 0; y-- {
		full := true
		for x := 0; x < b.cols; x++ {
			if b.cells[y][x] == 0 {
				full = false
				break
			}
		}
		if !full {
			continue
		}
		// 整行下移一格，顶端补空行，同一下标要重查
		row := b.cells[y]
		copy(b.cells[1:y+1], b.cells[0:y])
		for x := range row {
			row[x] = 0
		}
		b.cells[0] = row
		cleared++
		y++
	}
	return cleared
}

// Reset zeroes every cell in place.
func (b *Board) Reset() {
	for _, row := range b.cells {
		for x := range row {
			row[x] = 0
		}
	}
}

// Grid returns a deep copy of the cells for read-only snapshots.
func (b *Board) Grid() [][]int {
	out := make([][]int, b.rows)
	for y, row := range b.cells {
		out[y] = make([]int, b.cols)
		copy(out[y], row)
	}
	return out
}
