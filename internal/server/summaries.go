package server

import (
	"log"
	"time"

	"pixel-gallery/internal/canvas"
	"pixel-gallery/internal/db"
	"pixel-gallery/internal/web"
)

const creationDateLayout = "02-01-2006"

// loadCanvas parses a stored canvas. Corrupt rows read as blank so the artist
// can keep drawing.
func loadCanvas(text string) canvas.Canvas {
	c, err := canvas.Parse(text)
	if err != nil {
		log.Printf("stored canvas unreadable, using blank error=%v", err)
		return canvas.Blank()
	}
	return c
}

func (s *Server) artistSummaries() ([]web.ArtistSummary, error) {
	artists, err := s.registeredArtists()
	if err != nil {
		return nil, err
	}
	summaries := make([]web.ArtistSummary, 0, len(artists))
	for _, artist := range artists {
		summaries = append(summaries, web.ArtistSummary{
			ID:       artist.ID,
			Username: artist.Username,
		})
	}
	return summaries, nil
}

func pixelArtSummary(art db.PixelArt) web.PixelArtSummary {
	return web.PixelArtSummary{
		ID:           art.ID,
		Canvas:       loadCanvas(art.PixelCanvas256).Cells(),
		Username:     art.Username,
		CreationDate: art.CreationDate.UTC().Format(creationDateLayout),
		CreatedAt:    art.CreationDate.UTC().Format(time.RFC3339),
	}
}

func pixelArtSummaries(arts []db.PixelArt) []web.PixelArtSummary {
	summaries := make([]web.PixelArtSummary, 0, len(arts))
	for _, art := range arts {
		summaries = append(summaries, pixelArtSummary(art))
	}
	return summaries
}
