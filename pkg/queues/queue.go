package queues

// Queue is a FIFO with an optional bound. When full, pushing drops the oldest
// element, which makes it usable as a recent-items replay buffer.
type Queue[T any] struct {
	items []T
	limit int
}

func NewQueue[T any]() *Queue[T] {
	return &Queue[T]{}
}

// NewBounded returns a queue that never holds more than limit elements.
func NewBounded[T any](limit int) *Queue[T] {
	return &Queue[T]{limit: limit}
}

func (q *Queue[T]) Push(x T) {
	q.items = append(q.items, x)
	if q.limit > 0 && len(q.items) > q.limit {
		q.items = q.items[1:]
	}
}

func (q *Queue[T]) Peek() T {
	return q.items[0]
}

func (q *Queue[T]) Pop() T {
	x := q.items[0]
	q.items = q.items[1:]
	return x
}

func (q *Queue[T]) IsEmpty() bool {
	return len(q.items) == 0
}

func (q *Queue[T]) Len() int {
	return len(q.items)
}

// Items returns a copy of the queued elements in FIFO order.
func (q *Queue[T]) Items() []T {
	out := make([]T, len(q.items))
	copy(out, q.items)
	return out
}
