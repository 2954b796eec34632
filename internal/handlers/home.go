package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Homepage shows the landing page to visitors and the timeline to users.
func (h *Handler) Homepage(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		h.render(c, http.StatusOK, "home-anon.html", gin.H{"Title": "Warbler"})
		return
	}

	ctx := c.Request.Context()
	timeline, err := h.messages.HomeTimeline(ctx, user.ID)
	if err != nil {
		h.renderError(c, err)
		return
	}
	liked, err := h.likes.LikedSet(ctx, user.ID)
	if err != nil {
		h.renderError(c, err)
		return
	}
	stats, err := h.stats.Get(ctx, user.ID)
	if err != nil {
		h.renderError(c, err)
		return
	}

	h.render(c, http.StatusOK, "home.html", gin.H{
		"Title":    "Warbler",
		"Messages": timeline,
		"Liked":    liked,
		"Stats":    stats,
	})
}
