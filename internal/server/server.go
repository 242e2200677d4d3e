package server

import (
	"context"
	"log"
	"net/http"
	"time"

	"pixel-gallery/internal/canvas"
	"pixel-gallery/internal/config"

	"github.com/benbjohnson/clock"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type Server struct {
	db         *gorm.DB
	cfg        config.Config
	clock      clock.Clock
	sessions   *sessionStore
	limiter    *rateLimiter
	galleryWS  *galleryHub
	palette    canvas.Palette
	bcryptCost int
}

// New wires a server around conn. A nil clk uses the wall clock.
func New(conn *gorm.DB, cfg config.Config, clk clock.Clock) *Server {
	if clk == nil {
		clk = clock.New()
	}
	palette, err := canvas.ParsePalette(cfg.Palette)
	if err != nil {
		log.Printf("palette invalid, using default error=%v", err)
		palette, _ = canvas.ParsePalette(canvas.DefaultPalette)
	}
	secret := []byte(cfg.SessionSecret)
	if len(secret) == 0 {
		log.Printf("SESSION_SECRET not set; sessions will not survive a restart")
		secret = newSecret()
	}
	return &Server{
		db:         conn,
		cfg:        cfg,
		clock:      clk,
		sessions:   newSessionStore(conn, clk, secret, cfg.SessionTTL(), cfg.IsProduction()),
		limiter:    newRateLimiter(clk, cfg.RateLimitRPS, cfg.RateLimitBurst),
		galleryWS:  newGalleryHub(),
		palette:    palette,
		bcryptCost: bcrypt.DefaultCost,
	}
}

func (s *Server) Handler() http.Handler {
	registerValidators()
	router := gin.New()
	if err := router.SetTrustedProxies(s.cfg.TrustedProxies); err != nil {
		log.Printf("trusted proxies rejected error=%v", err)
	}
	router.Use(gin.Logger(), gin.Recovery(), s.rateLimit())

	router.GET("/", s.handleHome)
	router.GET("/healthz", s.handleHealth)
	router.GET("/ws/gallery", s.handleGalleryWebsocket)

	router.GET("/login", s.handleLogin)
	router.GET("/login_as/:id", s.handleLoginAs)
	router.GET("/get_data", s.handleGetData)

	router.GET("/unicode/start/:letter", s.handleUnicodeStart)
	router.GET("/unicode/continue/:letter", s.handleUnicodeContinue)
	router.GET("/letter/:letter", s.handleLetter)
	router.GET("/finish_username", s.handleFinishUsername)

	router.GET("/pixel/fill/:cell/:color", s.handleFillPixel)
	router.GET("/pixel/:cell/:color", s.handleSetPixel)
	router.GET("/reset_canvas", s.handleResetCanvas)
	router.GET("/get_my_canvas_data", s.handleMyCanvas)
	router.GET("/publish_pixel_art", s.handlePublish)

	router.GET("/get_pixel_arts", s.handlePixelArts)
	router.GET("/pixel_arts/:id", s.handlePixelArt)
	router.GET("/pixel_arts/:id/image.png", s.handlePixelArtImage)
	return router
}

// Run starts the background workers and blocks until ctx is cancelled.
func (s *Server) Run(ctx context.Context) {
	done := make(chan struct{})
	go func() {
		s.limiter.Run(ctx)
		close(done)
	}()
	s.runSweeper(ctx)
	<-done
}

func (s *Server) now() time.Time {
	return s.clock.Now().UTC()
}

func (s *Server) handleHealth(c *gin.Context) {
	sqlDB, err := s.db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		log.Printf("health check failed error=%v", err)
		writeError(c, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"status": "ok"})
}
