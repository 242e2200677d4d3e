package server

import (
	"log"
	"net/http"

	"pixel-gallery/internal/web"

	"github.com/a-h/templ"
	"github.com/gin-gonic/gin"
)

func (s *Server) handleHome(c *gin.Context) {
	req := parsePageRequest(c, galleryPerPage, maxGalleryPerPage)
	arts, page, err := s.galleryPage(&req, "/")
	if err != nil {
		log.Printf("home pixel arts failed error=%v", err)
		writeError(c, http.StatusInternalServerError, "failed to load gallery")
		return
	}
	artists, err := s.artistSummaries()
	if err != nil {
		log.Printf("home artists failed error=%v", err)
		writeError(c, http.StatusInternalServerError, "failed to load gallery")
		return
	}
	data := web.GalleryData{
		Artists:    artists,
		PixelArts:  pixelArtSummaries(arts),
		Pagination: *page,
	}
	if ident, err := s.identify(c); err == nil && ident != nil {
		data.Registered = true
		data.Username = ident.Artist.Username
	}
	templ.Handler(web.Home(data)).ServeHTTP(c.Writer, c.Request)
}
