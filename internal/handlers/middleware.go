package handlers

import (
	"context"
	"net/http"

	"warbler/internal/middleware"
	"warbler/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// CurrUserKey is the session key holding the signed in user's id.
const CurrUserKey = "curr_user"

const (
	flashSuccess = "success"
	flashDanger  = "danger"
)

type userCtxKey struct{}

// WithUser returns a copy of ctx carrying the signed in user.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userCtxKey{}, user)
}

// UserFromContext returns the signed in user, if any.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userCtxKey{}).(*models.User)
	return user, ok && user != nil
}

func currentUser(c *gin.Context) *models.User {
	user, _ := UserFromContext(c.Request.Context())
	return user
}

// LoadCurrentUser resolves the session user and attaches it to the request
// context. A session pointing at a deleted user is cleared.
func (h *Handler) LoadCurrentUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		id, ok := session.Get(CurrUserKey).(uint)
		if !ok {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		user, err := h.accounts.Get(ctx, id)
		switch {
		case err == nil:
			ctx = WithUser(middleware.WithUserID(ctx, user.ID), user)
			c.Request = c.Request.WithContext(ctx)
		case models.IsNotFound(err):
			session.Delete(CurrUserKey)
			_ = h.saveSession(c)
		default:
			h.logger.ErrorContext(ctx, "Failed to load session user", "user_id", id, "error", err)
		}
		c.Next()
	}
}

// AuthRequired sends anonymous visitors back to the home page.
func (h *Handler) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if currentUser(c) == nil {
			h.flashAndRedirect(c, flashDanger, "Access unauthorized.", "/")
			c.Abort()
			return
		}
		c.Next()
	}
}

// doLogin and doLogout change the session without saving it; callers finish
// with h.flashAndRedirect, which saves once.
func doLogin(c *gin.Context, user *models.User) {
	sessions.Default(c).Set(CurrUserKey, user.ID)
}

func doLogout(c *gin.Context) {
	sessions.Default(c).Delete(CurrUserKey)
}

// flashAndRedirect queues msg, saves the session and redirects. A session
// that cannot be saved gets the error page instead of the redirect.
func (h *Handler) flashAndRedirect(c *gin.Context, category, msg, location string) {
	sessions.Default(c).AddFlash(msg, category)
	if err := h.saveSession(c); err != nil {
		c.HTML(http.StatusInternalServerError, "500.html", gin.H{
			"Title":       "Something Went Wrong",
			"CurrentUser": currentUser(c),
		})
		return
	}
	c.Redirect(http.StatusFound, location)
}

// Flash is one message queued for the next rendered page.
type Flash struct {
	Category string
	Message  string
}

func (h *Handler) popFlashes(c *gin.Context) []Flash {
	session := sessions.Default(c)
	var out []Flash
	for _, category := range []string{flashSuccess, flashDanger} {
		for _, f := range session.Flashes(category) {
			if msg, ok := f.(string); ok {
				out = append(out, Flash{Category: category, Message: msg})
			}
		}
	}
	if len(out) > 0 {
		_ = h.saveSession(c)
	}
	return out
}
