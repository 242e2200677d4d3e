package server

import (
	"log"
	"net/http"

	"pixel-gallery/internal/canvas"

	"github.com/gin-gonic/gin"
)

func (s *Server) bindPixel(c *gin.Context) (pixelURI, bool) {
	var req pixelURI
	if !bindURI(c, &req, pixelMessages, "cell and color must be integers") {
		return req, false
	}
	if err := s.validateColor(req.Color); err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return req, false
	}
	return req, true
}

func (s *Server) handleSetPixel(c *gin.Context) {
	req, ok := s.bindPixel(c)
	if !ok {
		return
	}
	ident, ok := s.requireIdentity(c)
	if !ok {
		return
	}
	artist := &ident.Artist
	current := loadCanvas(artist.PixelCanvas256)
	if err := current.Set(req.Cell, req.Color); err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.saveCanvas(artist, current); err != nil {
		log.Printf("save canvas failed artist_id=%d error=%v", artist.ID, err)
		writeError(c, http.StatusInternalServerError, "failed to save canvas")
		return
	}
	writeCanvasString(c, artist.PixelCanvas256)
}

func (s *Server) handleFillPixel(c *gin.Context) {
	req, ok := s.bindPixel(c)
	if !ok {
		return
	}
	ident, ok := s.requireIdentity(c)
	if !ok {
		return
	}
	artist := &ident.Artist
	current := loadCanvas(artist.PixelCanvas256)
	changed, err := current.Fill(req.Cell, req.Color)
	if err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}
	if changed == 0 {
		writeCanvasString(c, current.String())
		return
	}
	if err := s.saveCanvas(artist, current); err != nil {
		log.Printf("save canvas failed artist_id=%d error=%v", artist.ID, err)
		writeError(c, http.StatusInternalServerError, "failed to save canvas")
		return
	}
	writeCanvasString(c, artist.PixelCanvas256)
}

func (s *Server) handleResetCanvas(c *gin.Context) {
	ident, ok := s.requireIdentity(c)
	if !ok {
		return
	}
	artist := &ident.Artist
	if err := s.saveCanvas(artist, canvas.Blank()); err != nil {
		log.Printf("reset canvas failed artist_id=%d error=%v", artist.ID, err)
		writeError(c, http.StatusInternalServerError, "failed to reset canvas")
		return
	}
	writeCanvasText(c, artist.PixelCanvas256)
}

func (s *Server) handleMyCanvas(c *gin.Context) {
	ident, err := s.identify(c)
	if err != nil {
		log.Printf("resolve identity failed remote=%s error=%v", c.ClientIP(), err)
		writeError(c, http.StatusInternalServerError, "failed to resolve session")
		return
	}
	if ident == nil {
		writeCanvasText(c, canvas.BlankText())
		return
	}
	writeCanvasText(c, loadCanvas(ident.Artist.PixelCanvas256).String())
}

func (s *Server) handlePublish(c *gin.Context) {
	ident, ok := s.requireIdentity(c)
	if !ok {
		return
	}
	artist := &ident.Artist
	artist.PixelCanvas256 = loadCanvas(artist.PixelCanvas256).String()
	art, err := s.publishCanvas(artist)
	if err != nil {
		log.Printf("publish failed artist_id=%d error=%v", artist.ID, err)
		writeError(c, http.StatusInternalServerError, "failed to publish pixel art")
		return
	}
	log.Printf("pixel art published artist_id=%d pixel_art_id=%d", artist.ID, art.ID)
	s.broadcastPublished(pixelArtSummary(*art))
	writeCanvasString(c, artist.PixelCanvas256)
}
