package queues

import "testing"

func TestQueueFIFO(t *testing.T) {
	q := NewQueue[int]()
	if !q.IsEmpty() {
		t.Fatal("new queue not empty")
	}
	q.Push(1)
	q.Push(2)
	q.Push(3)
	if q.Peek() != 1 {
		t.Errorf("Peek = %d, want 1", q.Peek())
	}
	for want := 1; want <= 3; want++ {
		if got := q.Pop(); got != want {
			t.Errorf("Pop = %d, want %d", got, want)
		}
	}
	if !q.IsEmpty() {
		t.Error("queue not empty after draining")
	}
}

func TestBoundedQueueDropsOldest(t *testing.T) {
	q := NewBounded[int](3)
	for i := 1; i <= 5; i++ {
		q.Push(i)
	}
	if q.Len() != 3 {
		t.Fatalf("Len = %d, want 3", q.Len())
	}
	got := q.Items()
	want := []int{3, 4, 5}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Items[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}
