package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"warbler/internal/models"
	"warbler/internal/services"

	"github.com/gin-gonic/gin"
)

const profileMessageLimit = 100

func (h *Handler) ListUsers(c *gin.Context) {
	search := c.Query("q")
	users, err := h.accounts.List(c.Request.Context(), search)
	if err != nil {
		h.renderError(c, err)
		return
	}
	data := gin.H{
		"Title":  "Users",
		"Users":  users,
		"Search": search,
	}
	if me := currentUser(c); me != nil {
		mine, err := h.follows.FollowingSet(c.Request.Context(), me.ID)
		if err != nil {
			h.renderError(c, err)
			return
		}
		data["MyFollowing"] = mine
	}
	h.render(c, http.StatusOK, "users.html", data)
}

// profile loads the header data shared by every profile page.
func (h *Handler) profile(c *gin.Context) (gin.H, *models.User, bool) {
	id, ok := pathID(c, "id")
	if !ok {
		h.NotFound(c)
		return nil, nil, false
	}

	ctx := c.Request.Context()
	user, err := h.accounts.Get(ctx, id)
	if err != nil {
		h.renderError(c, err)
		return nil, nil, false
	}
	stats, err := h.stats.Get(ctx, id)
	if err != nil {
		h.renderError(c, err)
		return nil, nil, false
	}

	data := gin.H{
		"Title":   "@" + user.Username,
		"Profile": user,
		"Stats":   stats,
	}
	if me := currentUser(c); me != nil && me.ID != user.ID {
		following, err := h.follows.IsFollowing(ctx, me.ID, user.ID)
		if err != nil {
			h.renderError(c, err)
			return nil, nil, false
		}
		data["IsFollowing"] = following
	}
	return data, user, true
}

func (h *Handler) ShowUser(c *gin.Context) {
	data, user, ok := h.profile(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	messages, err := h.messages.ListByUser(ctx, user.ID, profileMessageLimit)
	if err != nil {
		h.renderError(c, err)
		return
	}
	data["Messages"] = messages

	if me := currentUser(c); me != nil {
		liked, err := h.likes.LikedSet(ctx, me.ID)
		if err != nil {
			h.renderError(c, err)
			return
		}
		data["Liked"] = liked
	}
	h.render(c, http.StatusOK, "show.html", data)
}

func (h *Handler) ShowFollowing(c *gin.Context) {
	data, user, ok := h.profile(c)
	if !ok {
		return
	}
	users, err := h.follows.Following(c.Request.Context(), user.ID)
	if err != nil {
		h.renderError(c, err)
		return
	}
	h.renderUserList(c, data, users, "Following")
}

func (h *Handler) ShowFollowers(c *gin.Context) {
	data, user, ok := h.profile(c)
	if !ok {
		return
	}
	users, err := h.follows.Followers(c.Request.Context(), user.ID)
	if err != nil {
		h.renderError(c, err)
		return
	}
	h.renderUserList(c, data, users, "Followers")
}

func (h *Handler) renderUserList(c *gin.Context, data gin.H, users []models.User, heading string) {
	me := currentUser(c)
	mine, err := h.follows.FollowingSet(c.Request.Context(), me.ID)
	if err != nil {
		h.renderError(c, err)
		return
	}
	data["Users"] = users
	data["Heading"] = heading
	data["MyFollowing"] = mine
	h.render(c, http.StatusOK, "follow_list.html", data)
}

func (h *Handler) ShowLikes(c *gin.Context) {
	data, user, ok := h.profile(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	messages, err := h.likes.LikedMessages(ctx, user.ID)
	if err != nil {
		h.renderError(c, err)
		return
	}
	data["Messages"] = messages

	if me := currentUser(c); me != nil {
		liked, err := h.likes.LikedSet(ctx, me.ID)
		if err != nil {
			h.renderError(c, err)
			return
		}
		data["Liked"] = liked
	}
	h.render(c, http.StatusOK, "likes.html", data)
}

func (h *Handler) AddFollow(c *gin.Context) {
	me := currentUser(c)
	id, ok := pathID(c, "id")
	if !ok {
		h.NotFound(c)
		return
	}

	if err := h.follows.Follow(c.Request.Context(), me.ID, id); err != nil {
		if models.IsValidation(err) {
			h.flashAndRedirect(c, flashDanger, formError(err), fmt.Sprintf("/users/%d", id))
			return
		}
		h.renderError(c, err)
		return
	}
	h.logAudit(c, &me.ID, services.ActionFollow, strconv.FormatUint(uint64(id), 10), nil)
	c.Redirect(http.StatusFound, fmt.Sprintf("/users/%d/following", me.ID))
}

func (h *Handler) StopFollowing(c *gin.Context) {
	me := currentUser(c)
	id, ok := pathID(c, "id")
	if !ok {
		h.NotFound(c)
		return
	}

	if err := h.follows.Unfollow(c.Request.Context(), me.ID, id); err != nil {
		h.renderError(c, err)
		return
	}
	h.logAudit(c, &me.ID, services.ActionUnfollow, strconv.FormatUint(uint64(id), 10), nil)
	c.Redirect(http.StatusFound, fmt.Sprintf("/users/%d/following", me.ID))
}

// editTarget returns the signed in user when they are editing their own
// profile, and redirects otherwise.
func (h *Handler) editTarget(c *gin.Context) (*models.User, bool) {
	me := currentUser(c)
	id, ok := pathID(c, "id")
	if !ok {
		h.NotFound(c)
		return nil, false
	}
	if id != me.ID {
		h.flashAndRedirect(c, flashDanger, "Access unauthorized.", "/")
		return nil, false
	}
	return me, true
}

func (h *Handler) ShowEditProfile(c *gin.Context) {
	me, ok := h.editTarget(c)
	if !ok {
		return
	}
	h.render(c, http.StatusOK, "edit.html", gin.H{
		"Title": "Edit Your Profile",
		"Form": ProfileForm{
			Username:       me.Username,
			Email:          me.Email,
			ImageURL:       me.ImageURL,
			HeaderImageURL: me.HeaderImageURL,
			Bio:            me.Bio,
			Location:       me.Location,
		},
	})
}

func (h *Handler) HandleEditProfile(c *gin.Context) {
	me, ok := h.editTarget(c)
	if !ok {
		return
	}

	var form ProfileForm
	err := c.ShouldBind(&form)
	if err != nil {
		err = services.ValidationError(err)
	}

	var user *models.User
	if err == nil {
		user, err = h.accounts.UpdateProfile(c.Request.Context(), me.ID, form.input())
	}
	if err != nil {
		if formStatus(err) == http.StatusInternalServerError {
			h.renderError(c, err)
			return
		}
		form.Password = ""
		h.render(c, formStatus(err), "edit.html", gin.H{
			"Title": "Edit Your Profile",
			"Error": formError(err),
			"Form":  form,
		})
		return
	}

	h.logAudit(c, &user.ID, services.ActionUpdateProfile, strconv.FormatUint(uint64(user.ID), 10), nil)
	h.flashAndRedirect(c, flashSuccess, "Profile updated.", fmt.Sprintf("/users/%d", user.ID))
}

func (h *Handler) DeleteUser(c *gin.Context) {
	me := currentUser(c)
	if err := h.accounts.DeleteAccount(c.Request.Context(), me.ID); err != nil {
		h.renderError(c, err)
		return
	}

	h.logAudit(c, &me.ID, services.ActionDeleteAccount, strconv.FormatUint(uint64(me.ID), 10), map[string]string{"username": me.Username})
	doLogout(c)
	h.flashAndRedirect(c, flashSuccess, "Your account has been deleted.", "/signup")
}
