package handlers

import (
	"html/template"
	"net/http"
	"time"

	"warbler/internal/middleware"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

const sessionName = "warbler_session"

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"date": func(t time.Time) string {
			return t.Format("02 January 2006")
		},
		"isLiked": func(set map[uint]bool, id uint) bool {
			return set[id]
		},
	}
}

// SetupRouter wires middleware and routes. authLimiter throttles login and
// signup submissions and may be nil.
func (h *Handler) SetupRouter(authLimiter middleware.Limiter, templatePath string, staticPath string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.StructuredLogger(h.logger), middleware.Metrics())

	r.SetFuncMap(templateFuncs())
	if templatePath != "" {
		r.LoadHTMLGlob(templatePath)
	}
	if staticPath != "" {
		r.Static("/static", staticPath)
	}

	store := cookie.NewStore([]byte(h.cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   h.cfg.SessionMaxAge,
		HttpOnly: true,
		Secure:   h.cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(sessionName, store))
	r.Use(h.LoadCurrentUser())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	r.GET("/metrics", middleware.MetricsHandler())

	limited := []gin.HandlerFunc{}
	if authLimiter != nil {
		limited = append(limited, middleware.RateLimit(authLimiter))
	}

	r.GET("/", h.Homepage)
	r.GET("/signup", h.ShowSignup)
	r.POST("/signup", append(limited, h.HandleSignup)...)
	r.GET("/login", h.ShowLogin)
	r.POST("/login", append(limited, h.HandleLogin)...)
	r.POST("/logout", h.Logout)

	r.GET("/users", h.ListUsers)
	r.GET("/users/:id", h.ShowUser)
	r.GET("/users/:id/likes", h.ShowLikes)
	r.GET("/users/:id/qr.png", h.ProfileQR)
	r.GET("/messages/:id", h.ShowMessage)

	authorized := r.Group("/")
	authorized.Use(h.AuthRequired())
	{
		authorized.GET("/users/:id/following", h.ShowFollowing)
		authorized.GET("/users/:id/followers", h.ShowFollowers)
		authorized.GET("/users/:id/edit", h.ShowEditProfile)
		authorized.POST("/users/:id/edit", h.HandleEditProfile)
		authorized.POST("/users/follow/:id", h.AddFollow)
		authorized.POST("/users/stop-following/:id", h.StopFollowing)
		authorized.POST("/users/delete", h.DeleteUser)

		authorized.GET("/messages/new", h.ShowNewMessage)
		authorized.POST("/messages/new", h.HandleNewMessage)
		authorized.POST("/messages/:id/delete", h.DeleteMessage)
		authorized.POST("/messages/:id/like", h.ToggleLike)
	}

	r.NoRoute(h.NotFound)
	return r
}
