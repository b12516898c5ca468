// game/snapshot.go
package game

import "github.com/wfunc/tetris/tetromino"

// Snapshot is the read-only state handed to rendering and input
// adapters; everything in it is a copy, so holding one never aliases
// live session state.
type Snapshot struct {
	Board  [][]int          `json:"board"`
	Piece  tetromino.Matrix `json:"piece"`
	PieceX int              `json:"piece_x"`
	PieceY int              `json:"piece_y"`
	Next   tetromino.Matrix `json:"next"`
	Score  int              `json:"score"`
	Lines  int              `json:"lines"`
	Level  int              `json:"level"`
	Over   bool             `json:"game_over"`
}

// Snapshot captures the current session state.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		Board:  s.board.Grid(),
		Piece:  s.piece.Matrix.Clone(),
		PieceX: s.piece.X,
		PieceY: s.piece.Y,
		Next:   tetromino.Instantiate(s.queue.Peek()),
		Score:  s.score,
		Lines:  s.lines,
		Level:  s.level,
		Over:   !s.running,
	}
}

// Composite returns the board grid with the active piece stamped in,
// which is what most renderers actually draw. Cells above row 0 are
// simply not drawn.
func (sn Snapshot) Composite() [][]int {
	out := make([][]int, len(sn.Board))
	for y, row := range sn.Board {
		out[y] = make([]int, len(row))
		copy(out[y], row)
	}
	for y, row := range sn.Piece {
		for x, v := range row {
			if v == 0 {
				continue
			}
			by := sn.PieceY + y
			bx := sn.PieceX + x
			if by >= 0 && by < len(out) && bx >= 0 && bx < len(out[by]) {
				out[by][bx] = v
			}
		}
	}
	return out
}
