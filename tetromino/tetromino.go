// tetromino/tetromino.go
package tetromino

// Type 标识7种方块，值同时是格子的颜色编号 (1-7)
type Type int

const (
	TypeI Type = iota + 1
	TypeO
	TypeT
	TypeS
	TypeZ
	TypeJ
	TypeL
)

// TypeCount is the number of distinct tetromino types.
const TypeCount = 7

// Types lists all tetromino types in catalog order.
var Types = [TypeCount]Type{TypeI, TypeO, TypeT, TypeS, TypeZ, TypeJ, TypeL}

// Matrix is a square cell grid; 0 is empty, 1-7 is the owning type.
type Matrix [][]int

// Direction selects a rotation sense.
type Direction int

const (
	Clockwise Direction = iota
	CounterClockwise
)

// 基础形状表。矩阵一律是正方形 (4x4/3x3/2x2)，这样同一个
// 转置+翻转变换对所有方块都成立。
var catalog = map[Type]Matrix{
	TypeI: {
		{0, 1, 0, 0},
		{0, 1, 0, 0},
		{0, 1, 0, 0},
		{0, 1, 0, 0},
	},
	TypeO: {
		{2, 2},
		{2, 2},
	},
	TypeT: {
		{0, 0, 0},
		{3, 3, 3},
		{0, 3, 0},
	},
	TypeS: {
		{0, 4, 4},
		{4, 4, 0},
		{0, 0, 0},
	},
	TypeZ: {
		{5, 5, 0},
		{0, 5, 5},
		{0, 0, 0},
	},
	TypeJ: {
		{0, 6, 0},
		{0, 6, 0},
		{6, 6, 0},
	},
	TypeL: {
		{0, 7, 0},
		{0, 7, 0},
		{0, 7, 7},
	},
}

func (t Type) String() string {
	switch t {
	case TypeI:
		return "I"
	case TypeO:
		return "O"
	case TypeT:
		return "T"
	case TypeS:
		return "S"
	case TypeZ:
		return "Z"
	case TypeJ:
		return "J"
	case TypeL:
		return "L"
	}
	return "?"
}

// Valid reports whether t is one of the 7 catalog types.
func (t Type) Valid() bool {
	return t >= TypeI && t <= TypeL
}

// Instantiate returns a fresh, independently mutable copy of the base
// matrix for t. The catalog's stored matrices are never handed out.
func Instantiate(t Type) Matrix {
	base, ok := catalog[t]
	if !ok {
		// 7种类型是编译期常量，走到这里只能是配置错误
		panic("tetromino: unknown type " + t.String())
	}
	return base.Clone()
}

// Clone returns a deep copy of m.
func (m Matrix) Clone() Matrix {
	out := make(Matrix, len(m))
	for i, row := range m {
		out[i] = make([]int, len(row))
		copy(out[i], row)
	}
	return out
}

// Size returns the matrix width (matrices are square).
func (m Matrix) Size() int {
	return len(m)
}

// Rotate returns a new matrix rotated 90 degrees in the given direction.
// The receiver is left untouched, so a failed wall kick can simply
// discard the candidate instead of rotating back.
func (m Matrix) Rotate(dir Direction) Matrix {
	n := len(m)
	out := make(Matrix, n)
	for y := range out {
		out[y] = make([]int, n)
	}
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			if dir == Clockwise {
				out[x][n-1-y] = m[y][x]
			} else {
				out[n-1-x][y] = m[y][x]
			}
		}
	}
	return out
}
