package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"pixel-gallery/internal/web"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	feedArtists           = "artists"
	feedPixelArtPublished = "pixel_art_published"
)

type feedMessage struct {
	Type     string               `json:"type"`
	Artists  []web.ArtistSummary  `json:"artists,omitempty"`
	PixelArt *web.PixelArtSummary `json:"pixel_art,omitempty"`
}

// galleryHub fans gallery updates out to every connected page.
type galleryHub struct {
	mu      sync.Mutex
	writeMu sync.Mutex
	conns   map[*websocket.Conn]struct{}
}

func newGalleryHub() *galleryHub {
	return &galleryHub{
		conns: make(map[*websocket.Conn]struct{}),
	}
}

func (h *galleryHub) Add(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[conn] = struct{}{}
}

func (h *galleryHub) Remove(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns, conn)
	_ = conn.Close()
}

func (h *galleryHub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

func (h *galleryHub) Send(conn *websocket.Conn, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	h.writeMu.Lock()
	defer h.writeMu.Unlock()
	_ = conn.WriteMessage(websocket.TextMessage, data)
}

func (h *galleryHub) Broadcast(payload any) {
	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.conns))
	for conn := range h.conns {
		conns = append(conns, conn)
	}
	h.mu.Unlock()
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	failed := make([]*websocket.Conn, 0)
	h.writeMu.Lock()
	for _, conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			failed = append(failed, conn)
		}
	}
	h.writeMu.Unlock()
	for _, conn := range failed {
		h.Remove(conn)
	}
}

var galleryUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func (s *Server) handleGalleryWebsocket(c *gin.Context) {
	conn, err := galleryUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	log.Printf("ws connected gallery remote=%s", c.Request.RemoteAddr)
	artists, err := s.artistSummaries()
	if err != nil {
		log.Printf("ws gallery artists failed error=%v", err)
	}
	s.galleryWS.Add(conn)
	s.galleryWS.Send(conn, feedMessage{Type: feedArtists, Artists: artists})
	go s.readGalleryWS(conn)
}

func (s *Server) readGalleryWS(conn *websocket.Conn) {
	defer s.galleryWS.Remove(conn)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			log.Printf("ws disconnected gallery error=%v", err)
			return
		}
	}
}

func (s *Server) broadcastArtists() {
	if s.galleryWS == nil {
		return
	}
	artists, err := s.artistSummaries()
	if err != nil {
		log.Printf("broadcast artists failed error=%v", err)
		return
	}
	s.galleryWS.Broadcast(feedMessage{Type: feedArtists, Artists: artists})
}

func (s *Server) broadcastPublished(art web.PixelArtSummary) {
	if s.galleryWS == nil {
		return
	}
	s.galleryWS.Broadcast(feedMessage{Type: feedPixelArtPublished, PixelArt: &art})
}
