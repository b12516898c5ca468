// bag/bag.go
package bag

import (
	"math/rand"

	"github.com/wfunc/tetris/tetromino"
)

// MinQueued is the minimum number of queued pieces before a dequeue,
// so the "next piece" preview is always resolvable.
const MinQueued = 5

// Queue produces an unbiased infinite sequence of piece types using the
// classic 7-bag randomizer: types are drawn 7 at a time as a uniform
// permutation, so no type is absent for more than 12 consecutive spawns.
type Queue struct {
	rng   *rand.Rand
	items []tetromino.Type
}

// New creates a queue with an explicit seed. The same seed always
// produces the same spawn sequence.
func New(seed int64) *Queue {
	return &Queue{
		rng:   rand.New(rand.NewSource(seed)),
		items: make([]tetromino.Type, 0, 2*tetromino.TypeCount),
	}
}

// drawBag returns a uniformly random permutation of all 7 types.
// Fisher-Yates 洗牌，不偏向任何一种方块
func (q *Queue) drawBag() []tetromino.Type {
	b := make([]tetromino.Type, tetromino.TypeCount)
	copy(b, tetromino.Types[:])
	for i := len(b) - 1; i > 0; i-- {
		j := q.rng.Intn(i + 1)
		b[i], b[j] = b[j], b[i]
	}
	return b
}

// Refill appends freshly drawn bags, in bag order, until the queue holds
// at least MinQueued entries. Bags are never truncated mid-draw.
func (q *Queue) Refill() {
	for len(q.items) < MinQueued {
		q.items = append(q.items, q.drawBag()...)
	}
}

// Dequeue removes and returns the front piece type, refilling first.
// It cannot fail: the catalog is a compile-time constant of 7 types.
func (q *Queue) Dequeue() tetromino.Type {
	q.Refill()
	t := q.items[0]
	q.items = q.items[1:]
	return t
}

// Peek returns the front piece type without consuming it.
func (q *Queue) Peek() tetromino.Type {
	q.Refill()
	return q.items[0]
}

// Len returns the number of queued pieces.
func (q *Queue) Len() int {
	return len(q.items)
}

// Reset drops all queued pieces. The next consume draws fresh bags from
// the same random stream.
func (q *Queue) Reset() {
	q.items = q.items[:0]
}
