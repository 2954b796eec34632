package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"warbler/internal/models"
	"warbler/internal/services"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ShowNewMessage(c *gin.Context) {
	h.render(c, http.StatusOK, "new_message.html", gin.H{
		"Title":     "New Warble",
		"MaxLength": models.MaxMessageLength,
	})
}

func (h *Handler) HandleNewMessage(c *gin.Context) {
	me := currentUser(c)

	var form MessageForm
	err := c.ShouldBind(&form)
	if err != nil {
		err = services.ValidationError(err)
	}

	var msg *models.Message
	if err == nil {
		msg, err = h.messages.Post(c.Request.Context(), me.ID, form.Text)
	}
	if err != nil {
		if models.IsValidation(err) {
			h.render(c, http.StatusBadRequest, "new_message.html", gin.H{
				"Title":     "New Warble",
				"MaxLength": models.MaxMessageLength,
				"Error":     formError(err),
				"Text":      form.Text,
			})
			return
		}
		h.renderError(c, err)
		return
	}

	h.logAudit(c, &me.ID, services.ActionPostMessage, strconv.FormatUint(uint64(msg.ID), 10), nil)
	c.Redirect(http.StatusFound, fmt.Sprintf("/users/%d", me.ID))
}

func (h *Handler) ShowMessage(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		h.NotFound(c)
		return
	}

	ctx := c.Request.Context()
	msg, err := h.messages.Get(ctx, id)
	if err != nil {
		h.renderError(c, err)
		return
	}

	data := gin.H{
		"Title":   "@" + msg.User.Username,
		"Message": msg,
	}
	if me := currentUser(c); me != nil {
		liked, err := h.likes.LikedSet(ctx, me.ID)
		if err != nil {
			h.renderError(c, err)
			return
		}
		data["Liked"] = liked
	}
	h.render(c, http.StatusOK, "message.html", data)
}

func (h *Handler) DeleteMessage(c *gin.Context) {
	me := currentUser(c)
	id, ok := pathID(c, "id")
	if !ok {
		h.NotFound(c)
		return
	}

	if err := h.messages.Delete(c.Request.Context(), me.ID, id); err != nil {
		h.renderError(c, err)
		return
	}
	h.logAudit(c, &me.ID, services.ActionDeleteMessage, strconv.FormatUint(uint64(id), 10), nil)
	c.Redirect(http.StatusFound, fmt.Sprintf("/users/%d", me.ID))
}

// ToggleLike likes or unlikes a message and returns to the home page.
func (h *Handler) ToggleLike(c *gin.Context) {
	me := currentUser(c)
	id, ok := pathID(c, "id")
	if !ok {
		h.NotFound(c)
		return
	}

	liked, err := h.likes.Toggle(c.Request.Context(), me.ID, id)
	if err != nil {
		if models.IsForbidden(err) {
			h.flashAndRedirect(c, flashDanger, formError(err), "/")
			return
		}
		h.renderError(c, err)
		return
	}

	action := services.ActionUnlike
	if liked {
		action = services.ActionLike
	}
	h.logAudit(c, &me.ID, action, strconv.FormatUint(uint64(id), 10), nil)
	c.Redirect(http.StatusFound, "/")
}
