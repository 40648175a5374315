package player

import "errors"

// Expected, locally recoverable conditions. Each maps to one actionable
// user-facing message in the command layer; none of them mutates session
// state.
var (
	ErrNotInVoiceChannel     = errors.New("you need to be in a voice channel")
	ErrNotConnected          = errors.New("not connected to a voice channel")
	ErrSearchNotFound        = errors.New("no songs found")
	ErrStreamResolution      = errors.New("could not resolve an audio stream")
	ErrTransportConnect      = errors.New("could not connect to the voice channel")
	ErrNothingPlaying        = errors.New("nothing is playing")
	ErrNotPaused             = errors.New("nothing is paused")
	ErrDuplicateVote         = errors.New("you already voted to skip this song")
	ErrNotInSameVoiceChannel = errors.New("you need to be in the same voice channel to vote")
	ErrVolumeOutOfRange      = errors.New("volume must be between 0 and 200")
)
