package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

type testClient struct {
	t       *testing.T
	env     *testEnv
	http    *http.Client
	address string
	token   string
}

// newClient returns a client with its own cookie jar and forwarded address.
func (e *testEnv) newClient(t *testing.T, address string) *testClient {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &testClient{
		t:       t,
		env:     e,
		http:    &http.Client{Jar: jar},
		address: address,
	}
}

func (c *testClient) get(path string) *http.Response {
	c.t.Helper()
	return doRequest(c.t, c.http, c.env.ts.URL+path, c.address, c.token)
}

func doRequest(t *testing.T, client *http.Client, rawURL, address, token string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, rawURL, nil)
	require.NoError(t, err)
	if address != "" {
		req.Header.Set("X-Forwarded-For", address)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := client.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = resp.Body.Close()
	})
	return resp
}

func expectStatus(t *testing.T, resp *http.Response, status int) {
	t.Helper()
	if resp.StatusCode != status {
		body, _ := io.ReadAll(resp.Body)
		require.Equal(t, status, resp.StatusCode, "body: %s", body)
	}
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func readText(t *testing.T, resp *http.Response) string {
	t.Helper()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(data)
}

// decodeCanvasArray reads a canvas written as a bare JSON array.
func decodeCanvasArray(t *testing.T, resp *http.Response) []int {
	t.Helper()
	var cells []int
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&cells))
	return cells
}

// decodeCanvasString reads a canvas written as a JSON string holding an array.
func decodeCanvasString(t *testing.T, resp *http.Response) []int {
	t.Helper()
	var text string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&text))
	var cells []int
	require.NoError(t, json.Unmarshal([]byte(text), &cells), "canvas text %q", text)
	return cells
}

func expectNotRegistered(t *testing.T, resp *http.Response) {
	t.Helper()
	expectStatus(t, resp, http.StatusOK)
	require.Equal(t, notRegisteredMessage, readText(t, resp))
}

func (c *testClient) login() map[string]any {
	c.t.Helper()
	resp := c.get("/login")
	expectStatus(c.t, resp, http.StatusOK)
	return decodeBody(c.t, resp)
}

func artistID(t *testing.T, body map[string]any) uint {
	t.Helper()
	value, ok := body["artist_id"].(float64)
	require.True(t, ok && value > 0, "artist_id %#v", body["artist_id"])
	return uint(value)
}

// register logs in and types name letter by letter. It returns the artist id
// and the recovery key.
func (c *testClient) register(name string) (uint, string) {
	c.t.Helper()
	id := artistID(c.t, c.login())
	for _, r := range name {
		resp := c.get("/letter/" + url.PathEscape(string(r)))
		expectStatus(c.t, resp, http.StatusOK)
	}
	resp := c.get("/finish_username")
	expectStatus(c.t, resp, http.StatusOK)
	body := decodeBody(c.t, resp)
	require.Equal(c.t, name, body["username"])
	key, _ := body["recovery_key"].(string)
	require.NotEmpty(c.t, key, "recovery key on first finish")
	return id, key
}

func (c *testClient) setPixel(cell, color int) []int {
	c.t.Helper()
	resp := c.get("/pixel/" + strconv.Itoa(cell) + "/" + strconv.Itoa(color))
	expectStatus(c.t, resp, http.StatusOK)
	return decodeCanvasString(c.t, resp)
}

func artistNames(t *testing.T, body map[string]any) []string {
	t.Helper()
	raw, ok := body["artists"].([]any)
	require.True(t, ok, "artists %#v", body["artists"])
	names := make([]string, 0, len(raw))
	for _, item := range raw {
		entry := item.(map[string]any)
		names = append(names, entry["username"].(string))
	}
	return names
}
