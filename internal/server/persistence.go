package server

import (
	"encoding/json"
	"errors"
	"fmt"

	"pixel-gallery/internal/canvas"
	"pixel-gallery/internal/compose"
	"pixel-gallery/internal/db"
	"pixel-gallery/internal/web"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var errNotFound = errors.New("not found")

func (s *Server) persistEvent(tx *gorm.DB, artistID *uint, eventType string, payload EventPayload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	event := db.Event{
		ArtistID:  artistID,
		Type:      eventType,
		Payload:   datatypes.JSON(data),
		CreatedAt: s.now(),
	}
	return tx.Create(&event).Error
}

// createAccount provisions a fresh artist with a blank canvas and a session
// for it.
func (s *Server) createAccount(meta requestMeta) (*db.Artist, string, error) {
	var artist *db.Artist
	var token string
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		artist, token, err = s.createAccountTx(tx, meta)
		return err
	})
	if err != nil {
		return nil, "", err
	}
	return artist, token, nil
}

func (s *Server) createAccountTx(tx *gorm.DB, meta requestMeta) (*db.Artist, string, error) {
	now := s.now()
	artist := db.Artist{
		IPAddress:        meta.Address,
		RegistrationTime: now,
		LastSeen:         now,
		PixelCanvas256:   canvas.BlankText(),
	}
	if err := tx.Create(&artist).Error; err != nil {
		return nil, "", fmt.Errorf("create artist: %w", err)
	}
	token, err := s.sessions.Issue(tx, artist.ID, meta)
	if err != nil {
		return nil, "", err
	}
	if err := s.persistEvent(tx, &artist.ID, eventArtistCreated, EventPayload{
		ArtistID: artist.ID,
		Address:  meta.Address,
	}); err != nil {
		return nil, "", err
	}
	return &artist, token, nil
}

// resetAccount discards an artist that never finished registering and
// provisions a replacement. Published art keeps its snapshot but loses the
// link to the deleted artist.
func (s *Server) resetAccount(previous db.Artist, meta requestMeta) (*db.Artist, string, error) {
	var artist *db.Artist
	var token string
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("artist_id = ?", previous.ID).Delete(&db.Session{}).Error; err != nil {
			return fmt.Errorf("delete sessions: %w", err)
		}
		severed := tx.Model(&db.PixelArt{}).Where("artist_id = ?", previous.ID).Update("artist_id", nil)
		if severed.Error != nil {
			return fmt.Errorf("sever pixel arts: %w", severed.Error)
		}
		if err := tx.Delete(&db.Artist{}, previous.ID).Error; err != nil {
			return fmt.Errorf("delete artist: %w", err)
		}
		var err error
		artist, token, err = s.createAccountTx(tx, meta)
		if err != nil {
			return err
		}
		return s.persistEvent(tx, &artist.ID, eventArtistReset, EventPayload{
			ArtistID:         artist.ID,
			PreviousArtistID: previous.ID,
			Severed:          severed.RowsAffected,
		})
	})
	if err != nil {
		return nil, "", err
	}
	return artist, token, nil
}

// clearComposer drops any half-typed username left from an earlier visit.
func (s *Server) clearComposer(artist *db.Artist) error {
	if err := s.db.Model(&db.Artist{}).Where("id = ?", artist.ID).Updates(map[string]any{
		"username_unfinished": "",
		"unicode_string":      "",
	}).Error; err != nil {
		return err
	}
	artist.UsernameUnfinished = ""
	artist.UnicodeString = ""
	return nil
}

func (s *Server) saveCanvas(artist *db.Artist, c canvas.Canvas) error {
	text := c.String()
	if err := s.db.Model(&db.Artist{}).Where("id = ?", artist.ID).Update("pixel_canvas_256", text).Error; err != nil {
		return err
	}
	artist.PixelCanvas256 = text
	return nil
}

func (s *Server) saveComposer(artist *db.Artist, state compose.State) error {
	if err := s.db.Model(&db.Artist{}).Where("id = ?", artist.ID).Updates(map[string]any{
		"username_unfinished": state.Unfinished,
		"unicode_string":      state.Pending,
	}).Error; err != nil {
		return err
	}
	artist.UsernameUnfinished = state.Unfinished
	artist.UnicodeString = state.Pending
	return nil
}

func (s *Server) saveUsername(artist *db.Artist, name string, state compose.State, recoveryHash string) error {
	updates := map[string]any{
		"username":            name,
		"username_unfinished": state.Unfinished,
		"unicode_string":      state.Pending,
		"last_seen":           s.now(),
	}
	if recoveryHash != "" {
		updates["recovery_key_hash"] = recoveryHash
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&db.Artist{}).Where("id = ?", artist.ID).Updates(updates).Error; err != nil {
			return err
		}
		artist.Username = name
		artist.UsernameUnfinished = state.Unfinished
		artist.UnicodeString = state.Pending
		if recoveryHash != "" {
			artist.RecoveryKeyHash = recoveryHash
		}
		return s.persistEvent(tx, &artist.ID, eventUsernameFinished, EventPayload{
			ArtistID: artist.ID,
			Username: name,
		})
	})
}

// publishCanvas freezes the artist's canvas into the gallery and blanks the
// working canvas.
func (s *Server) publishCanvas(artist *db.Artist) (*db.PixelArt, error) {
	artistID := artist.ID
	art := db.PixelArt{
		ArtistID:       &artistID,
		Username:       artist.Username,
		CreationDate:   s.now(),
		PixelCanvas256: artist.PixelCanvas256,
	}
	blank := canvas.BlankText()
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&art).Error; err != nil {
			return fmt.Errorf("create pixel art: %w", err)
		}
		if err := tx.Model(&db.Artist{}).Where("id = ?", artist.ID).Update("pixel_canvas_256", blank).Error; err != nil {
			return fmt.Errorf("reset canvas: %w", err)
		}
		return s.persistEvent(tx, &artistID, eventPixelArtPublished, EventPayload{
			ArtistID:   artistID,
			PixelArtID: art.ID,
			Username:   art.Username,
		})
	})
	if err != nil {
		return nil, err
	}
	artist.PixelCanvas256 = blank
	return &art, nil
}

// claimArtist moves the caller onto target: the caller's current session is
// dropped and a new one is issued for target.
func (s *Server) claimArtist(target *db.Artist, previous *identity, meta requestMeta) (string, error) {
	var token string
	now := s.now()
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if previous != nil {
			if err := tx.Where("id = ?", previous.Session.ID).Delete(&db.Session{}).Error; err != nil {
				return fmt.Errorf("drop session: %w", err)
			}
		}
		if err := tx.Model(&db.Artist{}).Where("id = ?", target.ID).Updates(map[string]any{
			"ip_address": meta.Address,
			"last_seen":  now,
		}).Error; err != nil {
			return err
		}
		var err error
		token, err = s.sessions.Issue(tx, target.ID, meta)
		if err != nil {
			return err
		}
		payload := EventPayload{ArtistID: target.ID, Address: meta.Address}
		if previous != nil {
			payload.PreviousArtistID = previous.Artist.ID
		}
		return s.persistEvent(tx, &target.ID, eventSessionClaimed, payload)
	})
	if err != nil {
		return "", err
	}
	target.IPAddress = meta.Address
	target.LastSeen = now
	return token, nil
}

func (s *Server) findArtist(id uint) (*db.Artist, error) {
	var artist db.Artist
	if err := s.db.First(&artist, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errNotFound
		}
		return nil, err
	}
	return &artist, nil
}

// registeredArtists lists artists with a finished username, newest first.
func (s *Server) registeredArtists() ([]db.Artist, error) {
	var artists []db.Artist
	err := s.db.Select("id", "username", "registration_time").
		Where("username <> ?", "").
		Order("registration_time desc, id desc").
		Find(&artists).Error
	return artists, err
}

// galleryPage lists the gallery oldest first. A nil req returns every work;
// otherwise the requested page is clamped to the last one before the rows
// are read, so the listing always matches the returned pagination.
func (s *Server) galleryPage(req *pageRequest, basePath string) ([]db.PixelArt, *web.PaginationData, error) {
	var arts []db.PixelArt
	var page *web.PaginationData
	err := s.db.Transaction(func(tx *gorm.DB) error {
		query := tx.Order("creation_date asc, id asc")
		if req != nil {
			var total int64
			if err := tx.Model(&db.PixelArt{}).Count(&total).Error; err != nil {
				return err
			}
			data := req.window(basePath, total)
			page = &data
			query = query.Offset(data.Offset()).Limit(data.PerPage)
		}
		return query.Find(&arts).Error
	})
	if err != nil {
		return nil, nil, err
	}
	return arts, page, nil
}

func (s *Server) findPixelArt(id uint) (*db.PixelArt, error) {
	var art db.PixelArt
	if err := s.db.First(&art, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errNotFound
		}
		return nil, err
	}
	return &art, nil
}
