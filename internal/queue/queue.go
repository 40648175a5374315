package queue

import (
	"math/rand/v2"
)

// Song is a queued track. Immutable once constructed; a Song lives in exactly
// one place at a time (pending, current or history).
type Song struct {
	URL         string
	Title       string
	Duration    int // seconds
	RequestedBy string
}

// historyLimit bounds the play history so long-running sessions don't grow
// without end.
const historyLimit = 50

// Queue holds the pending songs, the currently playing song and the play
// history for one guild session. It is a plain data structure; callers are
// responsible for serializing access.
type Queue struct {
	pending []Song
	current *Song
	history []Song

	LoopCurrent bool
	LoopQueue   bool
}

func New() *Queue {
	return &Queue{}
}

// Enqueue appends a song and returns its 1-indexed position among pending
// songs.
func (q *Queue) Enqueue(s Song) int {
	q.pending = append(q.pending, s)
	return len(q.pending)
}

// EnqueueFront inserts a song ahead of all pending songs.
func (q *Queue) EnqueueFront(s Song) {
	q.pending = append([]Song{s}, q.pending...)
}

// Advance moves the current song to history and promotes the head of pending
// to current. With LoopCurrent set, the finished song is re-inserted at the
// front of pending first, so the same song plays again. With LoopQueue set and
// pending exhausted, current is restored from the history tail. Returns the
// new current song, or nil when nothing is left to play.
func (q *Queue) Advance() *Song {
	if q.current == nil && len(q.pending) == 0 {
		return nil
	}

	if q.current != nil {
		if q.LoopCurrent {
			q.EnqueueFront(*q.current)
		}
		q.pushHistory(*q.current)
		q.current = nil
	}

	if len(q.pending) > 0 {
		s := q.pending[0]
		q.pending = q.pending[1:]
		q.current = &s
	} else if q.LoopQueue && len(q.history) > 0 {
		s := q.history[len(q.history)-1]
		q.current = &s
	}

	return q.current
}

func (q *Queue) pushHistory(s Song) {
	q.history = append(q.history, s)
	if len(q.history) > historyLimit {
		q.history = q.history[len(q.history)-historyLimit:]
	}
}

// PeekNext returns the next pending song without mutating the queue.
func (q *Queue) PeekNext() *Song {
	if len(q.pending) == 0 {
		return nil
	}
	s := q.pending[0]
	return &s
}

// RemoveAt removes the pending song at the given 0-indexed position.
// Out-of-range indexes are a no-op returning nil.
func (q *Queue) RemoveAt(index int) *Song {
	if index < 0 || index >= len(q.pending) {
		return nil
	}
	s := q.pending[index]
	q.pending = append(q.pending[:index], q.pending[index+1:]...)
	return &s
}

// Shuffle randomizes the pending order in place. Current and history are
// untouched.
func (q *Queue) Shuffle() {
	rand.Shuffle(len(q.pending), func(i, j int) {
		q.pending[i], q.pending[j] = q.pending[j], q.pending[i]
	})
}

// Clear empties pending and history and drops the current song.
func (q *Queue) Clear() {
	q.pending = nil
	q.history = nil
	q.current = nil
}

// ResetCurrent drops only the current song, keeping pending and history.
// Used when the voice connection goes away mid-track.
func (q *Queue) ResetCurrent() {
	q.current = nil
}

// Current returns the currently playing song, or nil.
func (q *Queue) Current() *Song {
	if q.current == nil {
		return nil
	}
	s := *q.current
	return &s
}

// Pending returns a copy of the pending songs in order.
func (q *Queue) Pending() []Song {
	out := make([]Song, len(q.pending))
	copy(out, q.pending)
	return out
}

// History returns up to limit of the most recently played songs, oldest
// first. limit <= 0 returns everything retained.
func (q *Queue) History(limit int) []Song {
	h := q.history
	if limit > 0 && len(h) > limit {
		h = h[len(h)-limit:]
	}
	out := make([]Song, len(h))
	copy(out, h)
	return out
}

// Len returns the number of pending songs.
func (q *Queue) Len() int {
	return len(q.pending)
}

// IsEmpty reports whether there is neither a pending nor a current song.
func (q *Queue) IsEmpty() bool {
	return len(q.pending) == 0 && q.current == nil
}

// TotalDuration sums the pending songs' durations, current excluded.
func (q *Queue) TotalDuration() (hours, minutes, seconds int) {
	total := 0
	for _, s := range q.pending {
		total += s.Duration
	}
	return total / 3600, (total % 3600) / 60, total % 60
}
