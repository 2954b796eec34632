package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"warbler/internal/services"

	"github.com/gin-gonic/gin"
)

// ProfileQR serves a PNG QR code pointing at the user's profile page.
func (h *Handler) ProfileQR(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		h.NotFound(c)
		return
	}
	if _, err := h.accounts.Get(c.Request.Context(), id); err != nil {
		h.renderError(c, err)
		return
	}

	scheme := "http"
	if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	size, _ := strconv.Atoi(c.Query("size"))

	png, err := h.qrService.GeneratePNG(services.QROptions{
		Content: fmt.Sprintf("%s://%s/users/%d", scheme, c.Request.Host, id),
		Size:    size,
		FgColor: c.DefaultQuery("fg", "#000000"),
		BgColor: c.DefaultQuery("bg", "#FFFFFF"),
	})
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.Header("Cache-Control", "public, max-age=3600")
	c.Data(http.StatusOK, "image/png", png)
}
