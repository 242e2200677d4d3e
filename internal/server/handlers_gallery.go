package server

import (
	"errors"
	"log"
	"net/http"

	"pixel-gallery/internal/web"

	"github.com/gin-gonic/gin"
)

type pixelArtsResponse struct {
	PixelArts  []web.PixelArtSummary `json:"pixel_arts"`
	Pagination *web.PaginationData   `json:"pagination,omitempty"`
}

func (s *Server) handlePixelArts(c *gin.Context) {
	var req *pageRequest
	if paginationRequested(c) {
		parsed := parsePageRequest(c, galleryPerPage, maxGalleryPerPage)
		req = &parsed
	}
	arts, page, err := s.galleryPage(req, "/get_pixel_arts")
	if err != nil {
		log.Printf("list pixel arts failed error=%v", err)
		writeError(c, http.StatusInternalServerError, "failed to list pixel arts")
		return
	}
	writeJSON(c, http.StatusOK, pixelArtsResponse{
		PixelArts:  pixelArtSummaries(arts),
		Pagination: page,
	})
}

func (s *Server) handlePixelArt(c *gin.Context) {
	var req idURI
	if !bindURI(c, &req, nil, "pixel art id must be a positive integer") {
		return
	}
	art, err := s.findPixelArt(req.ID)
	if err != nil {
		if errors.Is(err, errNotFound) {
			writeError(c, http.StatusNotFound, "pixel art not found")
			return
		}
		log.Printf("load pixel art failed pixel_art_id=%d error=%v", req.ID, err)
		writeError(c, http.StatusInternalServerError, "failed to load pixel art")
		return
	}
	writeJSON(c, http.StatusOK, pixelArtSummary(*art))
}

func (s *Server) handlePixelArtImage(c *gin.Context) {
	var req idURI
	if !bindURI(c, &req, nil, "pixel art id must be a positive integer") {
		return
	}
	var query imageQuery
	if !bindQuery(c, &query, bindMessages{
		"Scale": {
			"min": "scale must be between 1 and 64",
			"max": "scale must be between 1 and 64",
		},
	}, "scale must be an integer") {
		return
	}
	scale := query.Scale
	if scale == 0 {
		scale = defaultImageScale
	}
	art, err := s.findPixelArt(req.ID)
	if err != nil {
		if errors.Is(err, errNotFound) {
			writeError(c, http.StatusNotFound, "pixel art not found")
			return
		}
		log.Printf("load pixel art failed pixel_art_id=%d error=%v", req.ID, err)
		writeError(c, http.StatusInternalServerError, "failed to load pixel art")
		return
	}
	data, err := s.encodeCanvasPNG(loadCanvas(art.PixelCanvas256), scale)
	if err != nil {
		log.Printf("render pixel art failed pixel_art_id=%d error=%v", art.ID, err)
		writeError(c, http.StatusInternalServerError, "failed to render pixel art")
		return
	}
	c.Header("Cache-Control", "public, max-age=86400")
	c.Data(http.StatusOK, "image/png", data)
}
