package canvas

import (
	"image/color"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAcceptsSpacedArrays(t *testing.T) {
	spaced := "[" + strings.TrimSuffix(strings.Repeat("0, ", Size), ", ") + "]"
	c, err := Parse(spaced)
	require.NoError(t, err)
	assert.True(t, c.IsBlank())
	assert.Equal(t, BlankText(), c.String())
}

func TestParseRoundTripsCells(t *testing.T) {
	c := Blank()
	require.NoError(t, c.Set(0, 3))
	require.NoError(t, c.Set(255, 12))

	parsed, err := Parse(c.String())
	require.NoError(t, err)
	assert.Equal(t, c, parsed)
}

func TestParseRejectsWrongLength(t *testing.T) {
	_, err := Parse("[1,2,3]")
	assert.ErrorIs(t, err, ErrBadLength)

	_, err = Parse("")
	assert.Error(t, err)

	_, err = Parse(`{"cells": []}`)
	assert.Error(t, err)
}

func TestSetOutOfRange(t *testing.T) {
	c := Blank()
	assert.ErrorIs(t, c.Set(256, 1), ErrCellOutOfRange)
	assert.ErrorIs(t, c.Set(-1, 1), ErrCellOutOfRange)
	_, err := c.At(300)
	assert.ErrorIs(t, err, ErrCellOutOfRange)
}

func TestPaletteImage(t *testing.T) {
	palette, err := ParsePalette(DefaultPalette)
	require.NoError(t, err)
	require.Len(t, palette, 16)
	assert.True(t, palette.Valid(15))
	assert.False(t, palette.Valid(16))

	c := Blank()
	require.NoError(t, c.Set(Width+1, 1))

	img := palette.Image(c, 4)
	assert.Equal(t, Width*4, img.Bounds().Dx())
	assert.Equal(t, Height*4, img.Bounds().Dy())
	assert.Equal(t, color.RGBA{0xff, 0xff, 0xff, 0xff}, img.At(0, 0))
	// Cell (1,1) covers pixels 4..7 on both axes.
	assert.Equal(t, color.RGBA{0, 0, 0, 0xff}, img.At(5, 6))
}

func TestParsePaletteErrors(t *testing.T) {
	_, err := ParsePalette(nil)
	assert.Error(t, err)
	_, err = ParsePalette([]string{"#fff"})
	assert.Error(t, err)
	_, err = ParsePalette([]string{"#gggggg"})
	assert.Error(t, err)
}
