// Package votes coordinates skip voting for one playback session. The ballot
// tracks distinct voters against a threshold computed at playback start; it
// holds no channel-membership data, callers enforce that voters share the
// session's voice channel.
package votes

type Result int

const (
	AlreadyVoted Result = iota
	Accepted
	ThresholdReached
)

// Outcome is the result of one vote, with the running tally.
type Outcome struct {
	Result Result
	Count  int
	Needed int
}

type Ballot struct {
	voters map[string]struct{}
	needed int
}

func NewBallot() *Ballot {
	return &Ballot{voters: make(map[string]struct{})}
}

// Threshold computes the votes needed given the non-bot member count of the
// session's voice channel: half the listeners, never fewer than two.
func Threshold(listeners int) int {
	needed := (listeners + 1) / 2
	if needed < 2 {
		needed = 2
	}
	return needed
}

// Reset clears all voters and sets the threshold for the next track.
func (b *Ballot) Reset(needed int) {
	b.voters = make(map[string]struct{})
	b.needed = needed
}

// Clear drops all votes, keeping the threshold.
func (b *Ballot) Clear() {
	b.voters = make(map[string]struct{})
}

// Needed returns the current threshold.
func (b *Ballot) Needed() int {
	return b.needed
}

// Count returns the number of registered voters.
func (b *Ballot) Count() int {
	return len(b.voters)
}

// Register records one user's vote. Reaching the threshold clears the ballot
// so the next track starts fresh.
func (b *Ballot) Register(userID string) Outcome {
	if _, dup := b.voters[userID]; dup {
		return Outcome{Result: AlreadyVoted, Count: len(b.voters), Needed: b.needed}
	}
	b.voters[userID] = struct{}{}
	count := len(b.voters)
	if count >= b.needed {
		b.Clear()
		return Outcome{Result: ThresholdReached, Count: count, Needed: b.needed}
	}
	return Outcome{Result: Accepted, Count: count, Needed: b.needed}
}
