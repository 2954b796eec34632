package services

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"strings"
	"time"

	"warbler/internal/models"

	"github.com/mssola/user_agent"
	"gorm.io/gorm"
)

// Audit actions recorded by the web layer.
const (
	ActionSignup        = "SIGNUP"
	ActionLogin         = "LOGIN"
	ActionLoginFailed   = "LOGIN_FAILED"
	ActionLogout        = "LOGOUT"
	ActionUpdateProfile = "UPDATE_PROFILE"
	ActionDeleteAccount = "DELETE_ACCOUNT"
	ActionPostMessage   = "POST_MESSAGE"
	ActionDeleteMessage = "DELETE_MESSAGE"
	ActionFollow        = "FOLLOW"
	ActionUnfollow      = "UNFOLLOW"
	ActionLike          = "LIKE"
	ActionUnlike        = "UNLIKE"
)

const auditBufferSize = 100

// AuditService writes audit entries from a background worker so request
// handlers never wait on the database.
type AuditService struct {
	db      *gorm.DB
	logger  *slog.Logger
	geo     *GeoIPService
	channel chan models.AuditLog
}

func NewAuditService(db *gorm.DB, logger *slog.Logger, geo *GeoIPService) *AuditService {
	return &AuditService{
		db:      db,
		logger:  logger,
		geo:     geo,
		channel: make(chan models.AuditLog, auditBufferSize),
	}
}

// Start consumes queued entries until ctx is cancelled, then drains what is
// left in the buffer.
func (s *AuditService) Start(ctx context.Context) {
	s.logger.Info("Audit worker starting")
	for {
		select {
		case entry := <-s.channel:
			s.write(context.Background(), entry)
		case <-ctx.Done():
			for {
				select {
				case entry := <-s.channel:
					s.write(context.Background(), entry)
				default:
					s.logger.Info("Audit worker stopping")
					return
				}
			}
		}
	}
}

func (s *AuditService) write(ctx context.Context, entry models.AuditLog) {
	s.enrich(&entry)
	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		s.logger.Error("Failed to write audit log", "action", entry.Action, "error", err)
	}
}

// LogAction queues an entry. When the buffer is full the entry is dropped.
func (s *AuditService) LogAction(userID *uint, action, entityID string, details interface{}, ip, userAgent string) {
	var detailStr string
	if details != nil {
		b, _ := json.Marshal(details)
		detailStr = string(b)
	}

	entry := models.AuditLog{
		UserID:    userID,
		Action:    action,
		EntityID:  entityID,
		Details:   detailStr,
		IPAddress: ip,
		UserAgent: userAgent,
		Timestamp: time.Now().UTC(),
	}

	select {
	case s.channel <- entry:
	default:
		s.logger.Warn("Audit channel full, dropping entry", "action", action)
	}
}

func (s *AuditService) enrich(entry *models.AuditLog) {
	if entry.UserAgent != "" {
		entry.UserAgent = describeUserAgent(entry.UserAgent)
	}
	if s.geo != nil && entry.IPAddress != "" {
		entry.Country = s.geo.Country(entry.IPAddress)
	}
	entry.IPAddress = maskIP(entry.IPAddress)
}

// describeUserAgent reduces a raw User-Agent header to "Browser Version (OS, Device)".
func describeUserAgent(raw string) string {
	ua := user_agent.New(raw)
	name, version := ua.Browser()

	device := "Desktop"
	switch {
	case ua.Bot():
		device = "Bot"
	case ua.Mobile():
		device = "Mobile"
	}

	desc := strings.TrimSpace(name + " " + version)
	if platform := ua.OS(); platform != "" {
		desc += " (" + platform + ", " + device + ")"
	} else {
		desc += " (" + device + ")"
	}
	if len(desc) > 255 {
		desc = desc[:255]
	}
	return desc
}

// maskIP zeroes the host part of an address: the last octet for IPv4, all
// but the first 48 bits for IPv6.
func maskIP(ip string) string {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return ip
	}
	if v4 := parsed.To4(); v4 != nil {
		return v4.Mask(net.CIDRMask(24, 32)).String()
	}
	return parsed.Mask(net.CIDRMask(48, 128)).String()
}
