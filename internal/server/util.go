package server

import (
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	maxAddressLength   = 50
	maxUserAgentLength = 255
)

func newSessionID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

func newRecoveryKey() (string, error) {
	buf := make([]byte, 10)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate recovery key: %w", err)
	}
	key := base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(buf)
	return key[:4] + "-" + key[4:8] + "-" + key[8:12] + "-" + key[12:], nil
}

func newSecret() []byte {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return []byte(fmt.Sprintf("pixel-%d", time.Now().UnixNano()))
	}
	return buf
}

type requestMeta struct {
	Address   string
	UserAgent string
}

// clientAddress is the caller's IP as gin resolves it: forwarding headers
// count only when the socket peer is one of the configured trusted proxies.
func clientAddress(c *gin.Context) string {
	return truncate(c.ClientIP(), maxAddressLength)
}

// truncate cuts text to at most limit bytes on a rune boundary.
func truncate(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut]
}

func (s *Server) requestMeta(c *gin.Context) requestMeta {
	return requestMeta{
		Address:   clientAddress(c),
		UserAgent: truncate(c.Request.UserAgent(), maxUserAgentLength),
	}
}
