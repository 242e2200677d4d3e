package server

import (
	"errors"
	"log"
	"net/http"

	"pixel-gallery/internal/compose"
	"pixel-gallery/internal/db"

	"github.com/gin-gonic/gin"
)

type composerResponse struct {
	Message            string `json:"message"`
	UsernameUnfinished string `json:"username_unfinished"`
	UnicodeString      string `json:"unicode_string"`
	Unicode            string `json:"unicode"`
	UnicodeError       string `json:"unicode_error,omitempty"`
	Username           string `json:"username,omitempty"`
	RecoveryKey        string `json:"recovery_key,omitempty"`
}

func composerState(artist db.Artist) compose.State {
	return compose.State{
		Unfinished: artist.UsernameUnfinished,
		Pending:    artist.UnicodeString,
	}
}

func newComposerResponse(message string, state compose.State, res compose.Result) composerResponse {
	resp := composerResponse{
		Message:            message,
		UsernameUnfinished: state.Unfinished,
		UnicodeString:      state.Pending,
		Unicode:            res.Outcome.String(),
	}
	if res.Err != nil {
		resp.UnicodeError = res.Err.Error()
	}
	return resp
}

func logFlush(artistID uint, res compose.Result) {
	if res.Outcome == compose.Invalid {
		log.Printf("unicode conversion failed artist_id=%d error=%v", artistID, res.Err)
	}
}

func composerStatus(err error) int {
	switch {
	case errors.Is(err, compose.ErrTooLong),
		errors.Is(err, compose.ErrEmptyInput),
		errors.Is(err, compose.ErrEmptyUsername):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// composerStep binds the letter, resolves the caller and hands both to step.
func (s *Server) composerStep(c *gin.Context, step func(artist *db.Artist, letter string)) {
	var req letterURI
	if !bindURI(c, &req, letterMessages, "letter is required") {
		return
	}
	ident, ok := s.requireIdentity(c)
	if !ok {
		return
	}
	step(&ident.Artist, req.Letter)
}

func (s *Server) saveComposerOrFail(c *gin.Context, artist *db.Artist, state compose.State) bool {
	if err := s.saveComposer(artist, state); err != nil {
		log.Printf("save username buffer failed artist_id=%d error=%v", artist.ID, err)
		writeError(c, http.StatusInternalServerError, "failed to save username")
		return false
	}
	return true
}

func (s *Server) handleUnicodeStart(c *gin.Context) {
	s.composerStep(c, func(artist *db.Artist, letter string) {
		next, res, err := composerState(*artist).Start(letter)
		if err != nil {
			writeError(c, composerStatus(err), err.Error())
			return
		}
		logFlush(artist.ID, res)
		if !s.saveComposerOrFail(c, artist, next) {
			return
		}
		writeJSON(c, http.StatusOK, newComposerResponse("Current username: "+next.Unfinished, next, res))
	})
}

func (s *Server) handleUnicodeContinue(c *gin.Context) {
	s.composerStep(c, func(artist *db.Artist, letter string) {
		next, err := composerState(*artist).Continue(letter)
		if err != nil {
			writeError(c, composerStatus(err), err.Error())
			return
		}
		if !s.saveComposerOrFail(c, artist, next) {
			return
		}
		writeJSON(c, http.StatusOK, newComposerResponse("Current string: "+next.Pending, next, compose.Result{}))
	})
}

func (s *Server) handleLetter(c *gin.Context) {
	s.composerStep(c, func(artist *db.Artist, letter string) {
		next, res, err := composerState(*artist).Letter(letter)
		if err != nil {
			writeError(c, composerStatus(err), err.Error())
			return
		}
		logFlush(artist.ID, res)
		if !s.saveComposerOrFail(c, artist, next) {
			return
		}
		writeJSON(c, http.StatusOK, newComposerResponse("Current string: "+next.Pending, next, res))
	})
}

// handleFinishUsername commits the composed name. The first finish issues a
// recovery key, which is only ever shown in this response.
func (s *Server) handleFinishUsername(c *gin.Context) {
	ident, ok := s.requireIdentity(c)
	if !ok {
		return
	}
	artist := &ident.Artist
	name, next, res, err := composerState(*artist).Finish()
	logFlush(artist.ID, res)
	if err != nil {
		c.AbortWithStatusJSON(composerStatus(err), newComposerResponse(err.Error(), composerState(*artist), res))
		return
	}
	recoveryKey := ""
	recoveryHash := ""
	if artist.RecoveryKeyHash == "" {
		recoveryKey, err = newRecoveryKey()
		if err == nil {
			recoveryHash, err = s.hashRecoveryKey(recoveryKey)
		}
		if err != nil {
			log.Printf("issue recovery key failed artist_id=%d error=%v", artist.ID, err)
			writeError(c, http.StatusInternalServerError, "failed to issue recovery key")
			return
		}
	}
	if err := s.saveUsername(artist, name, next, recoveryHash); err != nil {
		log.Printf("save username failed artist_id=%d error=%v", artist.ID, err)
		writeError(c, http.StatusInternalServerError, "failed to save username")
		return
	}
	log.Printf("username finished artist_id=%d", artist.ID)
	s.broadcastArtists()
	resp := newComposerResponse("Account created: "+name, next, res)
	resp.Username = name
	resp.RecoveryKey = recoveryKey
	writeJSON(c, http.StatusOK, resp)
}
