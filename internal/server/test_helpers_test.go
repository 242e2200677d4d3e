package server

import (
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"pixel-gallery/internal/config"
	"pixel-gallery/internal/db"

	"github.com/benbjohnson/clock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var testEpoch = time.Date(2026, time.October, 19, 12, 0, 0, 0, time.UTC)

type testEnv struct {
	srv   *Server
	ts    *httptest.Server
	clock *clock.Mock
	db    *gorm.DB
}

func newTestServer(t *testing.T, handler http.Handler) *httptest.Server {
	t.Helper()
	listener, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		t.Skipf("skipping test; listen unavailable: %v", err)
	}
	ts := &httptest.Server{
		Listener: listener,
		Config:   &http.Server{Handler: handler},
	}
	ts.Start()
	return ts
}

func testConfig(t *testing.T) config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.DatabaseURL = "sqlite://" + filepath.Join(t.TempDir(), "pixels.db")
	cfg.SessionSecret = "test-secret"
	cfg.RateLimitRPS = 0
	cfg.TrustedProxies = []string{"127.0.0.1"}
	cfg.DBMaxOpenConns = 1
	cfg.DBMaxIdleConns = 1
	return cfg
}

func openTestDB(t *testing.T, cfg config.Config) *gorm.DB {
	t.Helper()
	conn, err := db.Open(cfg)
	require.NoError(t, err)
	require.NoError(t, db.Migrate(conn))
	t.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return conn
}

func newTestEnv(t *testing.T, opts ...func(*config.Config)) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := testConfig(t)
	for _, opt := range opts {
		opt(&cfg)
	}
	conn := openTestDB(t, cfg)
	clk := clock.NewMock()
	clk.Set(testEpoch)
	srv := New(conn, cfg, clk)
	srv.bcryptCost = bcrypt.MinCost
	ts := newTestServer(t, srv.Handler())
	t.Cleanup(ts.Close)
	return &testEnv{srv: srv, ts: ts, clock: clk, db: conn}
}
