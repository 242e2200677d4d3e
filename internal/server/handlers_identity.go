package server

import (
	"errors"
	"log"
	"net/http"

	"pixel-gallery/internal/db"
	"pixel-gallery/internal/web"

	"github.com/gin-gonic/gin"
)

type loginResponse struct {
	Artists      []web.ArtistSummary `json:"artists"`
	ArtistID     uint                `json:"artist_id"`
	Username     string              `json:"username"`
	SessionToken string              `json:"session_token,omitempty"`
}

type claimResponse struct {
	Message      string `json:"message"`
	ArtistID     uint   `json:"artist_id"`
	Username     string `json:"username"`
	SessionToken string `json:"session_token"`
}

type artistsResponse struct {
	Artists []web.ArtistSummary `json:"artists"`
}

// handleLogin creates an artist for new callers, replaces an artist that
// never picked a username, and otherwise resumes the caller's artist.
func (s *Server) handleLogin(c *gin.Context) {
	ident, err := s.identify(c)
	if err != nil {
		log.Printf("resolve identity failed remote=%s error=%v", c.ClientIP(), err)
		writeError(c, http.StatusInternalServerError, "failed to resolve session")
		return
	}
	meta := s.requestMeta(c)
	var artist *db.Artist
	token := ""
	switch {
	case ident == nil:
		artist, token, err = s.createAccount(meta)
		if err != nil {
			log.Printf("create artist failed remote=%s error=%v", meta.Address, err)
			writeError(c, http.StatusInternalServerError, "failed to create artist")
			return
		}
		log.Printf("artist created artist_id=%d remote=%s", artist.ID, meta.Address)
	case ident.Artist.Username == "":
		previousID := ident.Artist.ID
		artist, token, err = s.resetAccount(ident.Artist, meta)
		if err != nil {
			log.Printf("reset artist failed artist_id=%d error=%v", previousID, err)
			writeError(c, http.StatusInternalServerError, "failed to reset artist")
			return
		}
		log.Printf("artist reset previous_id=%d artist_id=%d", previousID, artist.ID)
	default:
		artist = &ident.Artist
		if err := s.clearComposer(artist); err != nil {
			log.Printf("clear composer failed artist_id=%d error=%v", artist.ID, err)
			writeError(c, http.StatusInternalServerError, "failed to resume artist")
			return
		}
	}
	if token != "" {
		s.sessions.SetCookie(c.Writer, token)
	} else {
		token = tokenFromRequest(c.Request)
	}
	artists, err := s.artistSummaries()
	if err != nil {
		log.Printf("list artists failed error=%v", err)
		writeError(c, http.StatusInternalServerError, "failed to list artists")
		return
	}
	writeJSON(c, http.StatusOK, loginResponse{
		Artists:      artists,
		ArtistID:     artist.ID,
		Username:     artist.Username,
		SessionToken: token,
	})
}

// handleLoginAs moves the caller onto an existing artist. The artist's
// recovery key must accompany the request.
func (s *Server) handleLoginAs(c *gin.Context) {
	var req idURI
	if !bindURI(c, &req, nil, "artist id must be a positive integer") {
		return
	}
	target, err := s.findArtist(req.ID)
	if err != nil {
		if errors.Is(err, errNotFound) {
			notRegistered(c)
			return
		}
		log.Printf("load artist failed artist_id=%d error=%v", req.ID, err)
		writeError(c, http.StatusInternalServerError, "failed to load artist")
		return
	}
	if err := verifyRecoveryKey(target.RecoveryKeyHash, c.Query("key")); err != nil {
		log.Printf("claim rejected artist_id=%d remote=%s", target.ID, c.ClientIP())
		writeError(c, http.StatusForbidden, err.Error())
		return
	}
	previous, err := s.identify(c)
	if err != nil {
		log.Printf("resolve identity failed remote=%s error=%v", c.ClientIP(), err)
		writeError(c, http.StatusInternalServerError, "failed to resolve session")
		return
	}
	token, err := s.claimArtist(target, previous, s.requestMeta(c))
	if err != nil {
		log.Printf("claim artist failed artist_id=%d error=%v", target.ID, err)
		writeError(c, http.StatusInternalServerError, "failed to claim artist")
		return
	}
	log.Printf("artist claimed artist_id=%d remote=%s", target.ID, target.IPAddress)
	s.sessions.SetCookie(c.Writer, token)
	writeJSON(c, http.StatusOK, claimResponse{
		Message:      "Logged in as: " + target.Username,
		ArtistID:     target.ID,
		Username:     target.Username,
		SessionToken: token,
	})
}

// handleGetData runs the expiry sweep before listing artists, so a caller
// idle past the TTL is not refreshed back to life.
func (s *Server) handleGetData(c *gin.Context) {
	if err := s.sweep(); err != nil {
		log.Printf("session sweep failed error=%v", err)
	}
	if _, err := s.identify(c); err != nil {
		log.Printf("resolve identity failed remote=%s error=%v", c.ClientIP(), err)
	}
	artists, err := s.artistSummaries()
	if err != nil {
		log.Printf("list artists failed error=%v", err)
		writeError(c, http.StatusInternalServerError, "failed to list artists")
		return
	}
	writeJSON(c, http.StatusOK, artistsResponse{Artists: artists})
}
