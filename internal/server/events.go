package server

const (
	eventArtistCreated     = "artist_created"
	eventArtistReset       = "artist_reset"
	eventUsernameFinished  = "username_finished"
	eventSessionClaimed    = "session_claimed"
	eventPixelArtPublished = "pixel_art_published"
	eventSessionsExpired   = "sessions_expired"
)

type EventPayload struct {
	ArtistID         uint   `json:"artist_id,omitempty"`
	PreviousArtistID uint   `json:"previous_artist_id,omitempty"`
	PixelArtID       uint   `json:"pixel_art_id,omitempty"`
	Username         string `json:"username,omitempty"`
	Address          string `json:"address,omitempty"`
	SessionID        string `json:"session_id,omitempty"`
	Count            int64  `json:"count,omitempty"`
	Severed          int64  `json:"severed,omitempty"`
}
