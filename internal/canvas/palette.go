package canvas

import (
	"fmt"
	"image"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/draw"
)

// DefaultPalette maps color codes 0..15 to the swatches the drawing page shows.
var DefaultPalette = []string{
	"#ffffff", "#000000", "#7f7f7f", "#c3c3c3",
	"#880015", "#ed1c24", "#ff7f27", "#fff200",
	"#22b14c", "#b5e61d", "#00a2e8", "#99d9ea",
	"#3f48cc", "#7092be", "#a349a4", "#c8bfe7",
}

type Palette []color.RGBA

// ParsePalette reads "#rrggbb" entries.
func ParsePalette(hexes []string) (Palette, error) {
	if len(hexes) == 0 {
		return nil, fmt.Errorf("palette is empty")
	}
	out := make(Palette, 0, len(hexes))
	for _, raw := range hexes {
		value := strings.TrimPrefix(strings.TrimSpace(raw), "#")
		if len(value) != 6 {
			return nil, fmt.Errorf("palette entry %q must be #rrggbb", raw)
		}
		n, err := strconv.ParseUint(value, 16, 32)
		if err != nil {
			return nil, fmt.Errorf("palette entry %q: %w", raw, err)
		}
		out = append(out, color.RGBA{R: uint8(n >> 16), G: uint8(n >> 8), B: uint8(n), A: 0xff})
	}
	return out, nil
}

// Valid reports whether code has a swatch.
func (p Palette) Valid(code int) bool {
	return code >= 0 && code < len(p)
}

func (p Palette) color(code int) color.RGBA {
	if !p.Valid(code) {
		return color.RGBA{}
	}
	return p[code]
}

// Image renders the canvas with one pixel per cell and then scales it up
// with nearest-neighbour sampling so cells stay crisp.
func (p Palette) Image(c Canvas, scale int) image.Image {
	if scale < 1 {
		scale = 1
	}
	src := image.NewRGBA(image.Rect(0, 0, Width, Height))
	for i, code := range c {
		src.SetRGBA(i%Width, i/Width, p.color(code))
	}
	if scale == 1 {
		return src
	}
	dst := image.NewRGBA(image.Rect(0, 0, Width*scale, Height*scale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}
