package server

import (
	"bytes"
	"image/png"

	"pixel-gallery/internal/canvas"
)

func (s *Server) encodeCanvasPNG(c canvas.Canvas, scale int) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, s.palette.Image(c, scale)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
