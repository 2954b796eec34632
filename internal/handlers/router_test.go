package handlers

import (
	"bytes"
	"fmt"
	"image/png"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type denyAll struct{}

func (denyAll) Allow(string) bool { return false }

func TestRouter_Health(t *testing.T) {
	h, _ := setupTestHandler(t)
	r := setupTestRouter(h)

	w := doGet(r, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRouter_Metrics(t *testing.T) {
	h, _ := setupTestHandler(t)
	r := setupTestRouter(h)

	doGet(r, "/health", nil)
	w := doGet(r, "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "warbler_http_requests_total")
}

func TestRouter_NotFound(t *testing.T) {
	h, _ := setupTestHandler(t)
	r := setupTestRouter(h)

	w := doGet(r, "/no/such/page", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "404")
}

func TestRouter_Static(t *testing.T) {
	h, _ := setupTestHandler(t)
	r := setupTestRouter(h)

	w := doGet(r, "/static/images/default-pic.png", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_AuthRateLimit(t *testing.T) {
	h, _ := setupTestHandler(t)
	r := h.SetupRouter(denyAll{}, "../../web/templates/*.html", "")

	w := doPost(r, "/login", nil, nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	w = doPost(r, "/signup", nil, nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	w = doGet(r, "/login", nil)
	assert.Equal(t, http.StatusOK, w.Code, "only form submissions are limited")
}

func TestSetupRouter_Minimal(t *testing.T) {
	h, _ := setupTestHandler(t)
	r := h.SetupRouter(nil, "", "")
	assert.NotNil(t, r)
}

func TestProfileQR(t *testing.T) {
	h, _ := setupTestHandler(t)
	r := setupTestRouter(h)
	u := createUser(t, h, "qruser")

	w := doGet(r, fmt.Sprintf("/users/%d/qr.png?size=64&fg=%%23ff0000", u.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))

	img, err := png.Decode(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 64, img.Bounds().Dx())

	assert.Equal(t, http.StatusNotFound, doGet(r, "/users/9999/qr.png", nil).Code)
}
