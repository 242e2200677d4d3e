package server

import (
	"errors"
	"fmt"
	"sync"
	"unicode"
	"unicode/utf8"

	"pixel-gallery/internal/canvas"
	"pixel-gallery/internal/compose"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const (
	maxLetterBytes    = 4 * compose.MaxUsernameRunes
	defaultImageScale = 16
	galleryPerPage    = 24
	maxGalleryPerPage = 200
)

type pixelURI struct {
	Cell  int `uri:"cell" binding:"min=0,max=255"`
	Color int `uri:"color" binding:"min=0"`
}

type letterURI struct {
	Letter string `uri:"letter" binding:"letter"`
}

type idURI struct {
	ID uint `uri:"id" binding:"required"`
}

type imageQuery struct {
	Scale int `form:"scale" binding:"omitempty,min=1,max=64"`
}

var pixelMessages = bindMessages{
	"Cell": {
		"min": fmt.Sprintf("cell must be between 0 and %d", canvas.Size-1),
		"max": fmt.Sprintf("cell must be between 0 and %d", canvas.Size-1),
	},
	"Color": {
		"min": "color must not be negative",
	},
}

var letterMessages = bindMessages{
	"Letter": {
		"letter": "letter must be printable text",
	},
}

var validatorOnce sync.Once

func registerValidators() {
	validatorOnce.Do(func() {
		engine, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = engine.RegisterValidation("letter", func(fl validator.FieldLevel) bool {
			_, err := validateLetter(fl.Field().String())
			return err == nil
		})
	})
}

func validateLetter(text string) (string, error) {
	if text == "" {
		return "", errors.New("letter is required")
	}
	if len(text) > maxLetterBytes {
		return "", fmt.Errorf("letter must be %d bytes or fewer", maxLetterBytes)
	}
	if !utf8.ValidString(text) {
		return "", errors.New("letter must be valid UTF-8")
	}
	for _, r := range text {
		if unicode.IsControl(r) {
			return "", errors.New("letter contains control characters")
		}
	}
	return text, nil
}

func (s *Server) validateColor(color int) error {
	if !s.palette.Valid(color) {
		return fmt.Errorf("color must be between 0 and %d", len(s.palette)-1)
	}
	return nil
}
