package server

import (
	"context"
	"log"
)

// runSweeper expires idle sessions on every tick until ctx is done.
func (s *Server) runSweeper(ctx context.Context) {
	interval := s.cfg.SweepInterval()
	if interval <= 0 {
		return
	}
	ticker := s.clock.Ticker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.sweep(); err != nil {
				log.Printf("session sweep failed error=%v", err)
			}
		}
	}
}

// sweep drops stale sessions and clears address metadata of idle artists.
func (s *Server) sweep() error {
	sessions, artists, err := s.sessions.ExpireStale()
	if err != nil {
		return err
	}
	if sessions == 0 && artists == 0 {
		return nil
	}
	log.Printf("sessions expired sessions=%d artists=%d", sessions, artists)
	if err := s.persistEvent(s.db, nil, eventSessionsExpired, EventPayload{
		Count:   sessions,
		Severed: artists,
	}); err != nil {
		log.Printf("persist sweep event failed error=%v", err)
	}
	return nil
}
