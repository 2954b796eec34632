package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"warbler/internal/config"
	"warbler/internal/models"
	"warbler/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

type Handler struct {
	cfg          config.Config
	logger       *slog.Logger
	accounts     *services.AccountService
	messages     *services.MessageService
	follows      *services.FollowService
	likes        *services.LikeService
	stats        *services.StatsService
	auditService *services.AuditService
	qrService    *services.QRService
}

func NewHandler(
	cfg config.Config,
	logger *slog.Logger,
	accounts *services.AccountService,
	messages *services.MessageService,
	follows *services.FollowService,
	likes *services.LikeService,
	stats *services.StatsService,
	auditService *services.AuditService,
	qrService *services.QRService,
) *Handler {
	return &Handler{
		cfg:          cfg,
		logger:       logger,
		accounts:     accounts,
		messages:     messages,
		follows:      follows,
		likes:        likes,
		stats:        stats,
		auditService: auditService,
		qrService:    qrService,
	}
}

// render adds the signed in user and pending flashes to data and writes the
// named template.
func (h *Handler) render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["CurrentUser"] = currentUser(c)
	data["Flashes"] = h.popFlashes(c)
	c.HTML(status, name, data)
}

// renderError maps an AppError onto the matching page or redirect.
func (h *Handler) renderError(c *gin.Context, err error) {
	switch models.ErrorCode(err) {
	case models.CodeNotFound:
		h.render(c, http.StatusNotFound, "404.html", gin.H{"Title": "Page Not Found"})
	case models.CodeForbidden, models.CodeUnauthorized:
		h.flashAndRedirect(c, flashDanger, "Access unauthorized.", "/")
	default:
		h.logger.ErrorContext(c.Request.Context(), "Request failed", "path", c.Request.URL.Path, "error", err)
		h.render(c, http.StatusInternalServerError, "500.html", gin.H{"Title": "Something Went Wrong"})
	}
}

// formStatus picks the status for a re-rendered form.
func formStatus(err error) int {
	switch models.ErrorCode(err) {
	case models.CodeValidation:
		return http.StatusBadRequest
	case models.CodeConflict:
		return http.StatusConflict
	case models.CodeUnauthorized:
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

// formError is the message shown above a form for err.
func formError(err error) string {
	var appErr *models.AppError
	if errors.As(err, &appErr) && appErr.Code != models.CodeInternal {
		return appErr.Message
	}
	return "Something went wrong, please try again."
}

// pathID parses a numeric route parameter. Anything else is treated as a
// missing resource.
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func (h *Handler) logAudit(c *gin.Context, userID *uint, action, entityID string, details interface{}) {
	if h.auditService == nil {
		return
	}
	h.auditService.LogAction(userID, action, entityID, details, c.ClientIP(), c.Request.UserAgent())
}

func (h *Handler) NotFound(c *gin.Context) {
	h.render(c, http.StatusNotFound, "404.html", gin.H{"Title": "Page Not Found"})
}

// saveSession writes pending session changes, logging failures.
func (h *Handler) saveSession(c *gin.Context) error {
	err := sessions.Default(c).Save()
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "Failed to save session", "error", err)
	}
	return err
}
