package server

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"pixel-gallery/internal/db"

	"github.com/benbjohnson/clock"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

const (
	sessionCookie = "px_session"
	identityKey   = "pixel.identity"
)

// sessionStore issues and resolves session tokens. A token is an HS256 JWT
// whose jti names a row in the sessions table; the row's last_seen decides
// whether the session is still live.
type sessionStore struct {
	db     *gorm.DB
	clock  clock.Clock
	secret []byte
	ttl    time.Duration
	secure bool
}

type identity struct {
	Artist  db.Artist
	Session db.Session
}

func newSessionStore(conn *gorm.DB, clk clock.Clock, secret []byte, ttl time.Duration, secure bool) *sessionStore {
	return &sessionStore{
		db:     conn,
		clock:  clk,
		secret: secret,
		ttl:    ttl,
		secure: secure,
	}
}

func (s *sessionStore) now() time.Time {
	return s.clock.Now().UTC()
}

// Issue creates a session row for artist inside tx and returns its token.
func (s *sessionStore) Issue(tx *gorm.DB, artistID uint, meta requestMeta) (string, error) {
	record := db.Session{
		ID:        newSessionID(),
		ArtistID:  artistID,
		IPAddress: meta.Address,
		UserAgent: meta.UserAgent,
		LastSeen:  s.now(),
	}
	if err := tx.Create(&record).Error; err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	return s.sign(record.ID, artistID)
}

func (s *sessionStore) sign(sessionID string, artistID uint) (string, error) {
	claims := jwt.RegisteredClaims{
		ID:       sessionID,
		Subject:  strconv.FormatUint(uint64(artistID), 10),
		IssuedAt: jwt.NewNumericDate(s.now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *sessionStore) parse(raw string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return "", err
	}
	if !token.Valid || claims.ID == "" {
		return "", errors.New("invalid session token")
	}
	return claims.ID, nil
}

func tokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(sessionCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	header := r.Header.Get("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

func (s *sessionStore) SetCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Resolve returns the live identity behind the request, or nil when the
// caller has no session, a forged or unknown token, or a session idle for
// longer than the TTL. A live session is refreshed along with its artist.
func (s *sessionStore) Resolve(r *http.Request, meta requestMeta) (*identity, error) {
	raw := tokenFromRequest(r)
	if raw == "" {
		return nil, nil
	}
	sessionID, err := s.parse(raw)
	if err != nil {
		return nil, nil
	}
	var session db.Session
	if err := s.db.Where("id = ?", sessionID).First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	now := s.now()
	if s.stale(session.LastSeen, now) {
		return nil, nil
	}
	var artist db.Artist
	if err := s.db.First(&artist, session.ArtistID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if err := s.touch(&session, &artist, meta, now); err != nil {
		return nil, err
	}
	return &identity{Artist: artist, Session: session}, nil
}

func (s *sessionStore) stale(lastSeen, now time.Time) bool {
	return !lastSeen.After(now.Add(-s.ttl))
}

func (s *sessionStore) touch(session *db.Session, artist *db.Artist, meta requestMeta, now time.Time) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&db.Session{}).Where("id = ?", session.ID).Updates(map[string]any{
			"last_seen":  now,
			"ip_address": meta.Address,
		}).Error; err != nil {
			return err
		}
		if err := tx.Model(&db.Artist{}).Where("id = ?", artist.ID).Updates(map[string]any{
			"last_seen":  now,
			"ip_address": meta.Address,
		}).Error; err != nil {
			return err
		}
		session.LastSeen = now
		session.IPAddress = meta.Address
		artist.LastSeen = now
		artist.IPAddress = meta.Address
		return nil
	})
}

// ExpireStale drops sessions idle past the TTL and clears the address
// metadata of artists idle past the TTL.
func (s *sessionStore) ExpireStale() (int64, int64, error) {
	threshold := s.now().Add(-s.ttl)
	var sessions, artists int64
	err := s.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("last_seen <= ?", threshold).Delete(&db.Session{})
		if result.Error != nil {
			return result.Error
		}
		sessions = result.RowsAffected
		result = tx.Model(&db.Artist{}).
			Where("last_seen <= ? AND ip_address <> ?", threshold, "").
			Update("ip_address", "")
		if result.Error != nil {
			return result.Error
		}
		artists = result.RowsAffected
		return nil
	})
	return sessions, artists, err
}

// identify resolves the caller once per request.
func (s *Server) identify(c *gin.Context) (*identity, error) {
	if cached, ok := c.Get(identityKey); ok {
		return cached.(*identity), nil
	}
	ident, err := s.sessions.Resolve(c.Request, s.requestMeta(c))
	if err != nil {
		return nil, err
	}
	c.Set(identityKey, ident)
	return ident, nil
}

// requireIdentity answers with the not-registered sentinel when the caller
// has no live session.
func (s *Server) requireIdentity(c *gin.Context) (*identity, bool) {
	ident, err := s.identify(c)
	if err != nil {
		log.Printf("resolve identity failed remote=%s error=%v", c.ClientIP(), err)
		writeError(c, http.StatusInternalServerError, "failed to resolve session")
		return nil, false
	}
	if ident == nil {
		notRegistered(c)
		return nil, false
	}
	return ident, true
}
