package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readFeedMessage(t *testing.T, conn *websocket.Conn, timeout time.Duration) feedMessage {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(timeout))
	_, payload, err := conn.ReadMessage()
	require.NoError(t, err)
	var msg feedMessage
	require.NoError(t, json.Unmarshal(payload, &msg))
	return msg
}

func dialGallery(t *testing.T, env *testEnv) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(env.ts.URL, "http") + "/ws/gallery"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Skipf("skipping test; websocket dial unavailable: %v", err)
	}
	t.Cleanup(func() {
		_ = conn.Close()
	})
	return conn
}

func TestGalleryFeedSendsArtistsOnConnect(t *testing.T) {
	env := newTestEnv(t)
	env.newClient(t, "10.0.0.1").register("ada")

	conn := dialGallery(t, env)
	msg := readFeedMessage(t, conn, 5*time.Second)
	assert.Equal(t, feedArtists, msg.Type)
	require.Len(t, msg.Artists, 1)
	assert.Equal(t, "ada", msg.Artists[0].Username)
}

func TestGalleryFeedBroadcastsUpdates(t *testing.T) {
	env := newTestEnv(t)
	conn := dialGallery(t, env)
	require.Equal(t, feedArtists, readFeedMessage(t, conn, 5*time.Second).Type)
	require.Eventually(t, func() bool {
		return env.srv.galleryWS.Len() > 0
	}, 5*time.Second, 10*time.Millisecond, "websocket never registered")

	client := env.newClient(t, "10.0.0.1")
	client.register("ada")
	msg := readFeedMessage(t, conn, 5*time.Second)
	assert.Equal(t, feedArtists, msg.Type)
	assert.Len(t, msg.Artists, 1)

	client.setPixel(0, 2)
	expectStatus(t, client.get("/publish_pixel_art"), http.StatusOK)
	msg = readFeedMessage(t, conn, 5*time.Second)
	require.Equal(t, feedPixelArtPublished, msg.Type)
	require.NotNil(t, msg.PixelArt)
	assert.Equal(t, "ada", msg.PixelArt.Username)
	assert.Equal(t, 2, msg.PixelArt.Canvas[0])
}
