package playlist

// Song is one durable playlist entry. Playlists are reusable across
// requesters, so unlike a queued song there is no requester field.
type Song struct {
	URL      string `json:"url"`
	Title    string `json:"title"`
	Duration int    `json:"durationSeconds"`
}

// Playlist is a named, ordered song list belonging to one user. Name is
// unique per owner.
type Playlist struct {
	Name  string `json:"name"`
	Owner string `json:"owner"`
	Songs []Song `json:"songs"`
}
