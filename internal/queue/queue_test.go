package queue

import (
	"testing"
)

func song(title string, dur int) Song {
	return Song{URL: "https://example.com/" + title, Title: title, Duration: dur, RequestedBy: "tester"}
}

func TestEnqueueFIFO(t *testing.T) {
	q := New()
	if pos := q.Enqueue(song("a", 10)); pos != 1 {
		t.Fatalf("first enqueue position = %d, want 1", pos)
	}
	if pos := q.Enqueue(song("b", 20)); pos != 2 {
		t.Fatalf("second enqueue position = %d, want 2", pos)
	}
	if next := q.PeekNext(); next == nil || next.Title != "a" {
		t.Fatalf("PeekNext = %v, want a", next)
	}

	q.EnqueueFront(song("c", 30))
	if next := q.PeekNext(); next == nil || next.Title != "c" {
		t.Fatalf("PeekNext after EnqueueFront = %v, want c", next)
	}

	got := q.Pending()
	want := []string{"c", "a", "b"}
	for i, s := range got {
		if s.Title != want[i] {
			t.Fatalf("pending[%d] = %q, want %q", i, s.Title, want[i])
		}
	}
}

func TestAdvanceEmpty(t *testing.T) {
	q := New()
	if s := q.Advance(); s != nil {
		t.Fatalf("Advance on empty queue = %v, want nil", s)
	}
	if !q.IsEmpty() {
		t.Fatal("queue should still be empty")
	}
	if h := q.History(0); len(h) != 0 {
		t.Fatalf("history mutated by empty Advance: %v", h)
	}
}

func TestAdvanceOrder(t *testing.T) {
	q := New()
	q.Enqueue(song("a", 10))
	q.Enqueue(song("b", 20))

	if s := q.Advance(); s == nil || s.Title != "a" {
		t.Fatalf("first Advance = %v, want a", s)
	}
	if cur := q.Current(); cur == nil || cur.Title != "a" {
		t.Fatalf("Current = %v, want a", cur)
	}
	if s := q.Advance(); s == nil || s.Title != "b" {
		t.Fatalf("second Advance = %v, want b", s)
	}
	if h := q.History(0); len(h) != 1 || h[0].Title != "a" {
		t.Fatalf("history = %v, want [a]", h)
	}
	if s := q.Advance(); s != nil {
		t.Fatalf("exhausted Advance = %v, want nil", s)
	}
}

func TestLoopCurrent(t *testing.T) {
	q := New()
	q.Enqueue(song("a", 10))
	if s := q.Advance(); s == nil || s.Title != "a" {
		t.Fatalf("setup Advance = %v, want a", s)
	}

	q.LoopCurrent = true
	if s := q.Advance(); s == nil || s.Title != "a" {
		t.Fatalf("looped Advance = %v, want a again", s)
	}
	if s := q.Advance(); s == nil || s.Title != "a" {
		t.Fatalf("second looped Advance = %v, want a again", s)
	}

	q.LoopCurrent = false
	if s := q.Advance(); s != nil {
		t.Fatalf("Advance after loop off = %v, want nil", s)
	}
}

func TestLoopQueueRestoresHistoryTail(t *testing.T) {
	q := New()
	q.LoopQueue = true
	q.Enqueue(song("a", 10))
	q.Enqueue(song("b", 20))

	q.Advance() // a
	q.Advance() // b
	// Pending exhausted: loop-queue restores only the most recent history
	// entry, which is b.
	if s := q.Advance(); s == nil || s.Title != "b" {
		t.Fatalf("loop-queue Advance = %v, want b", s)
	}
}

func TestRemoveAt(t *testing.T) {
	tests := []struct {
		name   string
		index  int
		want   string
		remain int
	}{
		{"head", 0, "a", 2},
		{"tail", 2, "c", 2},
		{"negative", -1, "", 3},
		{"past end", 3, "", 3},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			q := New()
			q.Enqueue(song("a", 1))
			q.Enqueue(song("b", 2))
			q.Enqueue(song("c", 3))

			got := q.RemoveAt(tc.index)
			if tc.want == "" {
				if got != nil {
					t.Fatalf("RemoveAt(%d) = %v, want nil", tc.index, got)
				}
			} else if got == nil || got.Title != tc.want {
				t.Fatalf("RemoveAt(%d) = %v, want %q", tc.index, got, tc.want)
			}
			if q.Len() != tc.remain {
				t.Fatalf("len after remove = %d, want %d", q.Len(), tc.remain)
			}
		})
	}
}

func TestClear(t *testing.T) {
	q := New()
	q.Enqueue(song("a", 61))
	q.Enqueue(song("b", 59))
	q.Advance()

	q.Clear()
	if !q.IsEmpty() {
		t.Fatal("IsEmpty after Clear = false, want true")
	}
	h, m, s := q.TotalDuration()
	if h != 0 || m != 0 || s != 0 {
		t.Fatalf("TotalDuration after Clear = (%d,%d,%d), want (0,0,0)", h, m, s)
	}
	if len(q.History(0)) != 0 {
		t.Fatal("history not cleared")
	}
}

func TestResetCurrent(t *testing.T) {
	q := New()
	q.Enqueue(song("a", 10))
	q.Enqueue(song("b", 20))
	q.Advance()

	q.ResetCurrent()
	if q.Current() != nil {
		t.Fatal("Current after ResetCurrent != nil")
	}
	if q.Len() != 1 {
		t.Fatalf("pending disturbed by ResetCurrent: len = %d", q.Len())
	}
}

func TestTotalDurationExcludesCurrent(t *testing.T) {
	q := New()
	q.Enqueue(song("a", 180))
	q.Enqueue(song("b", 200))
	q.Advance() // a becomes current

	h, m, s := q.TotalDuration()
	if h != 0 || m != 3 || s != 20 {
		t.Fatalf("TotalDuration = (%d,%d,%d), want (0,3,20)", h, m, s)
	}
}

func TestShufflePreservesSongs(t *testing.T) {
	q := New()
	titles := map[string]bool{}
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		q.Enqueue(song(name, 1))
		titles[name] = true
	}
	q.Shuffle()
	got := q.Pending()
	if len(got) != len(titles) {
		t.Fatalf("shuffle changed length: %d", len(got))
	}
	for _, s := range got {
		if !titles[s.Title] {
			t.Fatalf("unexpected song after shuffle: %q", s.Title)
		}
		delete(titles, s.Title)
	}
}

func TestHistoryBounded(t *testing.T) {
	q := New()
	for i := 0; i < historyLimit+10; i++ {
		q.Enqueue(song("s", 1))
	}
	for q.Advance() != nil {
	}
	if n := len(q.History(0)); n != historyLimit {
		t.Fatalf("history length = %d, want %d", n, historyLimit)
	}
}
