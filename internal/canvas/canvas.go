// Package canvas holds the fixed 16x16 pixel grid artists draw on and the
// text encoding it is stored under.
package canvas

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

const (
	Width  = 16
	Height = 16
	Size   = Width * Height
)

var (
	ErrCellOutOfRange = errors.New("cell index out of range")
	ErrBadLength      = fmt.Errorf("canvas must contain exactly %d cells", Size)
)

// Canvas is a row-major grid of color codes. Cell (x, y) lives at y*Width+x.
type Canvas [Size]int

// Blank returns an all-zero canvas.
func Blank() Canvas {
	return Canvas{}
}

// BlankText is the stored form of a blank canvas.
func BlankText() string {
	return Blank().String()
}

// Parse decodes the stored JSON array form. Both compact and spaced arrays
// are accepted.
func Parse(text string) (Canvas, error) {
	var c Canvas
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return c, errors.New("canvas text is empty")
	}
	var cells []int
	if err := json.Unmarshal([]byte(trimmed), &cells); err != nil {
		return c, fmt.Errorf("decode canvas: %w", err)
	}
	if len(cells) != Size {
		return c, fmt.Errorf("%w: got %d", ErrBadLength, len(cells))
	}
	copy(c[:], cells)
	return c, nil
}

// String encodes the canvas as a compact JSON array.
func (c Canvas) String() string {
	var b strings.Builder
	b.Grow(Size * 2)
	b.WriteByte('[')
	for i, v := range c {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "%d", v)
	}
	b.WriteByte(']')
	return b.String()
}

// Cells returns a copy of the cells as a slice, ready for JSON encoding.
func (c Canvas) Cells() []int {
	out := make([]int, Size)
	copy(out, c[:])
	return out
}

// At returns the color at index.
func (c Canvas) At(index int) (int, error) {
	if index < 0 || index >= Size {
		return 0, ErrCellOutOfRange
	}
	return c[index], nil
}

// Set paints a single cell.
func (c *Canvas) Set(index, color int) error {
	if index < 0 || index >= Size {
		return ErrCellOutOfRange
	}
	c[index] = color
	return nil
}

// Fill flood-fills the region containing index with color and reports how
// many cells changed.
func (c *Canvas) Fill(index, color int) (int, error) {
	return Fill(c[:], Width, Height, index, color)
}

// IsBlank reports whether every cell is zero.
func (c Canvas) IsBlank() bool {
	return c == Canvas{}
}
