package board

import (
	"testing"

	"github.com/wfunc/tetris/tetromino"
)

var dot = tetromino.Matrix{{1}}

func TestNewBoardIsEmpty(t *testing.T) {
	b := New(10, 20)
	if b.Cols() != 10 || b.Rows() != 20 {
		t.Fatalf("board is %dx%d, want 10x20", b.Cols(), b.Rows())
	}
	for y := 0; y < b.Rows(); y++ {
		for x := 0; x < b.Cols(); x++ {
			if b.Cell(x, y) != 0 {
				t.Fatalf("cell (%d,%d) = %d, want 0", x, y, b.Cell(x, y))
			}
		}
	}
}

func TestCollidesBounds(t *testing.T) {
	b := New(10, 20)

	cases := []struct {
		name string
		x, y int
		want bool
	}{
		{"inside", 4, 10, false},
		{"left of board", -1, 10, true},
		{"right of board", 10, 10, true},
		{"below bottom", 4, 20, true},
		{"on bottom row", 4, 19, false},
		{"above top is allowed", 4, -3, false},
	}
	for _, c := range cases {
		if got := b.Collides(dot, c.x, c.y); got != c.want {
			t.Errorf("%s: Collides(%d,%d) = %v, want %v", c.name, c.x, c.y, got, c.want)
		}
	}
}

func TestCollidesOccupiedCell(t *testing.T) {
	b := New(10, 20)
	b.SetCell(4, 10, 3)

	if !b.Collides(dot, 4, 10) {
		t.Error("expected collision on an occupied cell")
	}
	if b.Collides(dot, 4, 9) {
		t.Error("unexpected collision above an occupied cell")
	}

	// 形状里的空格不参与碰撞: 空列压在已占格上, 实列落在空格上
	hollow := tetromino.Matrix{
		{0, 1},
		{0, 1},
	}
	if b.Collides(hollow, 4, 9) {
		t.Error("zero cells of the shape must not collide")
	}
	if !b.Collides(hollow, 3, 9) {
		t.Error("occupied cells of the shape must collide")
	}
}

func TestMergeWritesOnlyOccupiedCells(t *testing.T) {
	b := New(10, 20)
	b.SetCell(2, 5, 7)

	shape := tetromino.Matrix{
		{0, 3},
		{3, 3},
	}
	b.Merge(shape, 2, 4)

	if b.Cell(3, 4) != 3 || b.Cell(2, 5) != 3 || b.Cell(3, 5) != 3 {
		t.Error("merge did not write the shape cells")
	}
	if b.Cell(2, 4) != 0 {
		t.Errorf("merge wrote a zero shape cell: got %d", b.Cell(2, 4))
	}
}

// 第3、7行全满，其余行不满: 两行都要被清掉，3行以上整体下移2格
func TestSweepTwoNonAdjacentRows(t *testing.T) {
	b := New(10, 20)

	fillRow(b, 3)
	fillRow(b, 7)
	b.SetCell(0, 0, 1) // above both cleared rows: moves down 2
	b.SetCell(2, 5, 2) // between them: moves down 1
	b.SetCell(4, 10, 3) // below both: unaffected

	if got := b.Sweep(); got != 2 {
		t.Fatalf("Sweep returned %d, want 2", got)
	}

	if b.Cell(0, 2) != 1 {
		t.Error("marker above both rows did not shift down 2")
	}
	if b.Cell(2, 6) != 2 {
		t.Error("marker between the rows did not shift down 1")
	}
	if b.Cell(4, 10) != 3 {
		t.Error("marker below the cleared rows must not move")
	}
	for y := 0; y < 2; y++ {
		for x := 0; x < b.Cols(); x++ {
			if b.Cell(x, y) != 0 {
				t.Fatalf("new top row %d not empty at x=%d", y, x)
			}
		}
	}
}

func TestSweepAdjacentRows(t *testing.T) {
	b := New(10, 20)
	fillRow(b, 18)
	fillRow(b, 19)
	b.SetCell(5, 17, 4)

	if got := b.Sweep(); got != 2 {
		t.Fatalf("Sweep returned %d, want 2", got)
	}
	if b.Cell(5, 19) != 4 {
		t.Error("row above two adjacent clears should land on the bottom row")
	}
}

func TestSweepAllRowsFull(t *testing.T) {
	b := New(10, 20)
	for y := 0; y < b.Rows(); y++ {
		fillRow(b, y)
	}

	if got := b.Sweep(); got != 20 {
		t.Fatalf("Sweep returned %d, want 20", got)
	}
	for y := 0; y < b.Rows(); y++ {
		for x := 0; x < b.Cols(); x++ {
			if b.Cell(x, y) != 0 {
				t.Fatalf("cell (%d,%d) not cleared", x, y)
			}
		}
	}
}

func TestSweepNothingFull(t *testing.T) {
	b := New(10, 20)
	b.SetCell(0, 19, 1)
	if got := b.Sweep(); got != 0 {
		t.Errorf("Sweep returned %d, want 0", got)
	}
	if b.Cell(0, 19) != 1 {
		t.Error("Sweep moved cells although nothing was cleared")
	}
}

func TestResetAndGridCopy(t *testing.T) {
	b := New(10, 20)
	b.SetCell(3, 3, 5)

	grid := b.Grid()
	grid[3][3] = 0
	if b.Cell(3, 3) != 5 {
		t.Error("Grid must return a copy, not the live cells")
	}

	b.Reset()
	if b.Cell(3, 3) != 0 {
		t.Error("Reset did not zero the cells")
	}
	if b.Cols() != 10 || b.Rows() != 20 {
		t.Error("Reset changed the board dimensions")
	}
}

func fillRow(b *Board, y int) {
	for x := 0; x < b.Cols(); x++ {
		b.SetCell(x, y, 1)
	}
}
