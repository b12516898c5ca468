// game/game.go
package game

import (
	"time"

	"github.com/wfunc/tetris/bag"
	"github.com/wfunc/tetris/board"
	"github.com/wfunc/tetris/tetromino"
)

// Reference tuning values.
const (
	DefaultCols = 10
	DefaultRows = 20

	// 下落间隔: base - (level-1)*step, 不低于 floor
	BaseDropInterval  = 1000 * time.Millisecond
	StepDropInterval  = 80 * time.Millisecond
	FloorDropInterval = 120 * time.Millisecond

	linesPerLevel = 10
)

// scoreTable maps rows-cleared-at-once (0-4) to base points; the award
// is multiplied by the current level.
var scoreTable = [5]int{0, 40, 100, 300, 1200}

// Config sizes a session. Zero values fall back to the defaults.
type Config struct {
	Cols int
	Rows int
}

func (c Config) withDefaults() Config {
	if c.Cols <= 0 {
		c.Cols = DefaultCols
	}
	if c.Rows <= 0 {
		c.Rows = DefaultRows
	}
	return c
}

// Piece is the currently falling piece: its shape matrix and the board
// coordinates of the matrix's top-left cell.
type Piece struct {
	Matrix tetromino.Matrix
	X, Y   int
}

// Session is one independent game: it owns the board, the active piece
// and the spawn queue, and applies gravity, commands, line clears and
// scoring. The session itself does no locking; a multi-threaded host
// must serialize Tick against commands.
type Session struct {
	cfg     Config
	board   *board.Board
	queue   *bag.Queue
	piece   Piece
	score   int
	lines   int
	level   int
	drop    time.Duration
	counter time.Duration
	running bool
}

// NewSession creates a running session with a freshly spawned piece.
// The seed fixes the spawn sequence, so replays are reproducible.
func NewSession(cfg Config, seed int64) *Session {
	cfg = cfg.withDefaults()
	s := &Session{
		cfg:   cfg,
		board: board.New(cfg.Cols, cfg.Rows),
		queue: bag.New(seed),
	}
	s.start()
	return s
}

// start puts the session in its initial running state.
func (s *Session) start() {
	s.score = 0
	s.lines = 0
	s.level = 1
	s.drop = BaseDropInterval
	s.counter = 0
	s.running = true
	s.spawn()
}

// Reset clears the board and queue and restarts from scratch.
func (s *Session) Reset() {
	s.board.Reset()
	s.queue.Reset()
	s.start()
}

// Running reports whether the session is still in play.
func (s *Session) Running() bool {
	return s.running
}

// spawn dequeues the next type, centers it horizontally with its top row
// at row 0 and makes it the active piece. If the fresh piece already
// collides the session is over; the board is left untouched.
func (s *Session) spawn() {
	m := tetromino.Instantiate(s.queue.Dequeue())
	s.piece = Piece{
		Matrix: m,
		X:      (s.cfg.Cols - m.Size()) / 2,
		Y:      0,
	}
	if s.board.Collides(s.piece.Matrix, s.piece.X, s.piece.Y) {
		s.running = false
	}
}

// Tick advances the drop timer. When the accumulated delta exceeds the
// current drop interval one soft-drop step is applied and the
// accumulator zeroed; even a very large delta drops at most one row.
// After game over Tick is a no-op.
func (s *Session) Tick(delta time.Duration) {
	if !s.running {
		return
	}
	s.counter += delta
	if s.counter > s.drop {
		s.SoftDrop()
	}
}

// SoftDrop moves the active piece down one row. If that collides the
// piece locks in its last legal position: merge, sweep, score, respawn.
func (s *Session) SoftDrop() {
	if !s.running {
		return
	}
	s.counter = 0
	s.piece.Y++
	if s.board.Collides(s.piece.Matrix, s.piece.X, s.piece.Y) {
		s.piece.Y--
		s.lock()
	}
}

// HardDrop drops the active piece to the lowest legal resting row and
// locks it there.
func (s *Session) HardDrop() {
	if !s.running {
		return
	}
	s.counter = 0
	for !s.board.Collides(s.piece.Matrix, s.piece.X, s.piece.Y+1) {
		s.piece.Y++
	}
	s.lock()
}

// MoveLeft shifts the piece one column left; a colliding move reverts.
func (s *Session) MoveLeft() { s.move(-1) }

// MoveRight shifts the piece one column right; a colliding move reverts.
func (s *Session) MoveRight() { s.move(1) }

func (s *Session) move(dx int) {
	if !s.running {
		return
	}
	s.piece.X += dx
	if s.board.Collides(s.piece.Matrix, s.piece.X, s.piece.Y) {
		s.piece.X -= dx
	}
}

// RotateCW rotates the active piece clockwise, kicking if necessary.
func (s *Session) RotateCW() { s.rotate(tetromino.Clockwise) }

// RotateCCW rotates the active piece counter-clockwise, kicking if
// necessary.
func (s *Session) RotateCCW() { s.rotate(tetromino.CounterClockwise) }

// rotate applies a 90 degree rotation and then searches nearby columns
// to keep the piece legal: cumulative horizontal offsets +1, -2, +3, -4,
// ... are tried until one fits. Once the offset magnitude would exceed
// the matrix width the rotation is rejected and the piece is left
// exactly as it was.
func (s *Session) rotate(dir tetromino.Direction) {
	if !s.running {
		return
	}
	cand := s.piece.Matrix.Rotate(dir)
	startX := s.piece.X
	offset := 1
	for s.board.Collides(cand, s.piece.X, s.piece.Y) {
		s.piece.X += offset
		if offset > 0 {
			offset = -(offset + 1)
		} else {
			offset = -(offset - 1)
		}
		if abs(offset) > cand.Size() {
			s.piece.X = startX
			return
		}
	}
	s.piece.Matrix = cand
}

// lock merges the piece where it rests, sweeps full rows, applies
// scoring and leveling, and spawns the next piece (which may end the
// game).
func (s *Session) lock() {
	s.board.Merge(s.piece.Matrix, s.piece.X, s.piece.Y)
	if n := s.board.Sweep(); n > 0 {
		s.applyClear(n)
	}
	s.spawn()
}

// applyClear awards points for n simultaneously cleared rows at the
// level in effect when they were cleared, then recomputes level and
// drop interval.
func (s *Session) applyClear(n int) {
	if n > len(scoreTable)-1 {
		n = len(scoreTable) - 1
	}
	s.score += scoreTable[n] * s.level
	s.lines += n
	s.level = s.lines/linesPerLevel + 1

	d := BaseDropInterval - time.Duration(s.level-1)*StepDropInterval
	if d < FloorDropInterval {
		d = FloorDropInterval
	}
	s.drop = d
}

// Score returns the accumulated score.
func (s *Session) Score() int { return s.score }

// Lines returns the total cleared line count.
func (s *Session) Lines() int { return s.lines }

// Level returns the current level (>= 1).
func (s *Session) Level() int { return s.level }

// DropInterval returns the current timer-driven drop interval.
func (s *Session) DropInterval() time.Duration { return s.drop }

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
