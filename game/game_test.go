package game

import (
	"testing"
	"time"

	"github.com/wfunc/tetris/tetromino"
)

var dot = tetromino.Matrix{{1}}

// fillRowExcept fills board row y, leaving the given column empty
// (pass -1 to fill the whole row).
func fillRowExcept(s *Session, y, gap int) {
	for x := 0; x < s.cfg.Cols; x++ {
		if x == gap {
			continue
		}
		s.board.SetCell(x, y, 1)
	}
}

func TestNewSessionSpawnsCenteredAndRunning(t *testing.T) {
	s := NewSession(Config{}, 1)
	if !s.Running() {
		t.Fatal("fresh session should be running")
	}
	if s.Score() != 0 || s.Lines() != 0 || s.Level() != 1 {
		t.Errorf("fresh session score/lines/level = %d/%d/%d, want 0/0/1",
			s.Score(), s.Lines(), s.Level())
	}
	if s.DropInterval() != BaseDropInterval {
		t.Errorf("fresh drop interval = %v, want %v", s.DropInterval(), BaseDropInterval)
	}
	wantX := (s.cfg.Cols - s.piece.Matrix.Size()) / 2
	if s.piece.X != wantX || s.piece.Y != 0 {
		t.Errorf("spawn position (%d,%d), want (%d,0)", s.piece.X, s.piece.Y, wantX)
	}
}

func TestScoringTableAtLevelOne(t *testing.T) {
	wants := []int{0, 40, 100, 300, 1200}
	for n := 1; n <= 4; n++ {
		s := NewSession(Config{}, 1)

		// 底部 n 行只缺第 0 列，落下一根竖条补满
		shape := make(tetromino.Matrix, 4)
		for i := range shape {
			shape[i] = make([]int, 4)
		}
		for i := 0; i < n; i++ {
			shape[3-i][0] = 1
			fillRowExcept(s, s.cfg.Rows-1-i, 0)
		}
		s.piece = Piece{Matrix: shape, X: 0, Y: 0}

		s.HardDrop()

		if s.Score() != wants[n] {
			t.Errorf("clearing %d rows: score %d, want %d", n, s.Score(), wants[n])
		}
		if s.Lines() != n {
			t.Errorf("clearing %d rows: lines %d, want %d", n, s.Lines(), n)
		}
	}
}

func TestScoringScalesWithLevel(t *testing.T) {
	s := NewSession(Config{}, 1)
	s.level = 3

	fillRowExcept(s, s.cfg.Rows-1, 0)
	s.piece = Piece{Matrix: dot, X: 0, Y: 0}
	s.HardDrop()

	if s.Score() != 40*3 {
		t.Errorf("single clear at level 3 scored %d, want %d", s.Score(), 40*3)
	}
}

func TestLevelProgressionAndDropInterval(t *testing.T) {
	s := NewSession(Config{}, 1)

	s.lines = 9
	s.applyClear(1)
	if s.Level() != 2 {
		t.Errorf("after 10 lines level = %d, want 2", s.Level())
	}
	if s.DropInterval() != 920*time.Millisecond {
		t.Errorf("level 2 interval = %v, want 920ms", s.DropInterval())
	}

	s.lines = 19
	s.applyClear(1)
	if s.Level() != 3 {
		t.Errorf("after 20 lines level = %d, want 3", s.Level())
	}
	if s.DropInterval() != 840*time.Millisecond {
		t.Errorf("level 3 interval = %v, want 840ms", s.DropInterval())
	}

	// 间隔只会变短，且不低于下限
	s.lines = 199
	s.applyClear(1)
	if s.DropInterval() != FloorDropInterval {
		t.Errorf("high level interval = %v, want floor %v", s.DropInterval(), FloorDropInterval)
	}
}

func TestTickAccumulatesAndDropsOnce(t *testing.T) {
	s := NewSession(Config{}, 1)
	y0 := s.piece.Y

	s.Tick(999 * time.Millisecond)
	if s.piece.Y != y0 {
		t.Fatal("piece dropped before the interval elapsed")
	}

	s.Tick(2 * time.Millisecond)
	if s.piece.Y != y0+1 {
		t.Fatalf("piece at row %d after interval elapsed, want %d", s.piece.Y, y0+1)
	}
	if s.counter != 0 {
		t.Errorf("accumulator = %v after drop, want 0", s.counter)
	}
}

func TestTickNeverCatchesUp(t *testing.T) {
	s := NewSession(Config{}, 1)
	y0 := s.piece.Y

	// 一次超长的 delta 也只掉一行
	s.Tick(10 * time.Second)
	if s.piece.Y != y0+1 {
		t.Errorf("piece at row %d after huge delta, want %d", s.piece.Y, y0+1)
	}
}

func TestHardDropRestsOnBottom(t *testing.T) {
	s := NewSession(Config{}, 1)
	s.piece = Piece{Matrix: dot, X: 3, Y: 0}

	s.HardDrop()

	if s.board.Cell(3, s.cfg.Rows-1) != 1 {
		t.Error("hard-dropped piece not merged on the bottom row")
	}
	if s.piece.Y != 0 {
		t.Error("a new piece should have spawned at the top")
	}
}

func TestHardDropRestsOnStack(t *testing.T) {
	s := NewSession(Config{}, 1)
	s.board.SetCell(3, s.cfg.Rows-1, 2)
	s.piece = Piece{Matrix: dot, X: 3, Y: 0}

	s.HardDrop()

	if s.board.Cell(3, s.cfg.Rows-2) != 1 {
		t.Error("hard drop must rest exactly one row above the stack")
	}
}

func TestSoftDropLocksOnCollision(t *testing.T) {
	s := NewSession(Config{}, 1)
	s.piece = Piece{Matrix: dot, X: 3, Y: s.cfg.Rows - 1}

	s.SoftDrop()

	if s.board.Cell(3, s.cfg.Rows-1) != 1 {
		t.Error("piece resting on the bottom should lock on soft drop")
	}
	if s.piece.Y != 0 {
		t.Error("a new piece should have spawned after locking")
	}
}

func TestMoveRevertsAtWalls(t *testing.T) {
	s := NewSession(Config{}, 1)
	s.piece = Piece{Matrix: dot, X: 0, Y: 5}

	s.MoveLeft()
	if s.piece.X != 0 {
		t.Errorf("move into the left wall shifted the piece to %d", s.piece.X)
	}

	s.MoveRight()
	if s.piece.X != 1 {
		t.Errorf("legal right move left the piece at %d, want 1", s.piece.X)
	}

	s.piece.X = s.cfg.Cols - 1
	s.MoveRight()
	if s.piece.X != s.cfg.Cols-1 {
		t.Errorf("move into the right wall shifted the piece to %d", s.piece.X)
	}
}

func TestRotateKicksOffTheWall(t *testing.T) {
	s := NewSession(Config{}, 1)
	// 竖条贴着左墙 (矩阵第1列对应棋盘第0列)
	s.piece = Piece{Matrix: tetromino.Instantiate(tetromino.TypeI), X: -1, Y: 0}

	s.RotateCW()

	if s.piece.X != 0 {
		t.Errorf("kick moved the piece to x=%d, want 0", s.piece.X)
	}
	for x := 0; x < 4; x++ {
		if s.piece.Matrix[1][x] != int(tetromino.TypeI) {
			t.Fatal("matrix was not rotated to the horizontal orientation")
		}
	}
}

func TestRotateRejectsWhenNoKickFits(t *testing.T) {
	s := NewSession(Config{}, 1)
	s.piece = Piece{Matrix: tetromino.Instantiate(tetromino.TypeI), X: -1, Y: 0}
	// 横放只能落在第1行，把这一行除第0列外全堵死
	fillRowExcept(s, 1, 0)

	before := s.piece.Matrix.Clone()
	s.RotateCW()

	if s.piece.X != -1 {
		t.Errorf("rejected rotation moved the piece to x=%d", s.piece.X)
	}
	for y := range before {
		for x := range before[y] {
			if s.piece.Matrix[y][x] != before[y][x] {
				t.Fatal("rejected rotation left the matrix changed")
			}
		}
	}
}

func TestSpawnCollisionEndsGame(t *testing.T) {
	s := NewSession(Config{}, 1)
	for y := 0; y < 4; y++ {
		fillRowExcept(s, y, -1)
	}
	before := s.board.Grid()

	s.spawn()

	if s.Running() {
		t.Fatal("spawning into occupied cells must end the game")
	}
	after := s.board.Grid()
	for y := range before {
		for x := range before[y] {
			if before[y][x] != after[y][x] {
				t.Fatal("failed spawn modified the board")
			}
		}
	}

	// 结束后除 Reset 外所有指令都被忽略
	px, py := s.piece.X, s.piece.Y
	s.MoveLeft()
	s.MoveRight()
	s.RotateCW()
	s.SoftDrop()
	s.HardDrop()
	s.Tick(10 * time.Second)
	if s.piece.X != px || s.piece.Y != py {
		t.Error("commands moved the piece after game over")
	}
	if s.Score() != 0 {
		t.Error("commands changed the score after game over")
	}
}

func TestResetRestoresInitialState(t *testing.T) {
	s := NewSession(Config{}, 1)
	for y := 0; y < 4; y++ {
		fillRowExcept(s, y, -1)
	}
	s.spawn()
	if s.Running() {
		t.Fatal("setup: game should be over")
	}

	s.Reset()

	if !s.Running() {
		t.Error("Reset must leave the session running")
	}
	if s.Score() != 0 || s.Lines() != 0 || s.Level() != 1 {
		t.Error("Reset did not restore score/lines/level")
	}
	if s.DropInterval() != BaseDropInterval {
		t.Error("Reset did not restore the drop interval")
	}
	for y := 0; y < s.cfg.Rows; y++ {
		for x := 0; x < s.cfg.Cols; x++ {
			if s.board.Cell(x, y) != 0 {
				t.Fatal("Reset did not clear the board")
			}
		}
	}
}

func TestSnapshotIsDetachedCopy(t *testing.T) {
	s := NewSession(Config{}, 1)
	sn := s.Snapshot()

	if sn.Over {
		t.Error("snapshot of a running session reports game over")
	}
	if len(sn.Board) != s.cfg.Rows || len(sn.Board[0]) != s.cfg.Cols {
		t.Fatalf("snapshot board is %dx%d", len(sn.Board[0]), len(sn.Board))
	}
	if sn.Next.Size() == 0 {
		t.Error("snapshot has no next-piece preview")
	}

	sn.Board[0][0] = 9
	sn.Piece[0][0] = 9
	if s.board.Cell(0, 0) == 9 || s.piece.Matrix[0][0] == 9 {
		t.Error("mutating the snapshot leaked into the session")
	}
}

func TestSnapshotComposite(t *testing.T) {
	s := NewSession(Config{}, 1)
	s.piece = Piece{Matrix: dot, X: 4, Y: 10}
	s.board.SetCell(0, 19, 2)

	grid := s.Snapshot().Composite()
	if grid[10][4] != 1 {
		t.Error("composite grid is missing the active piece")
	}
	if grid[19][0] != 2 {
		t.Error("composite grid is missing settled cells")
	}
}

func TestPlayUntilGameOver(t *testing.T) {
	s := NewSession(Config{}, 123)
	for i := 0; i < 1000 && s.Running(); i++ {
		s.HardDrop()
	}
	if s.Running() {
		t.Fatal("stacking hard drops forever never ended the game")
	}
	for y := 0; y < s.cfg.Rows; y++ {
		for x := 0; x < s.cfg.Cols; x++ {
			if v := s.board.Cell(x, y); v < 0 || v > 7 {
				t.Fatalf("cell (%d,%d) holds invalid value %d", x, y, v)
			}
		}
	}
}
