package services

import (
	"log/slog"
	"net"
	"os"
	"sync"

	"github.com/oschwald/geoip2-golang"
	"github.com/oschwald/maxminddb-golang"
)

// countryReader is the subset of *geoip2.Reader the lookup needs.
type countryReader interface {
	Country(ip net.IP) (*geoip2.Country, error)
	Metadata() maxminddb.Metadata
	Close() error
}

// GeoIPService resolves client addresses to a country name for the audit
// trail. Without a database file every lookup returns "Unknown".
type GeoIPService struct {
	dbPath    string
	logger    *slog.Logger
	geoReader countryReader
	geoLock   sync.RWMutex
}

func NewGeoIPService(dbPath string, logger *slog.Logger) *GeoIPService {
	return &GeoIPService{
		dbPath: dbPath,
		logger: logger,
	}
}

// Init opens the configured database if it exists.
func (s *GeoIPService) Init() {
	if s.dbPath == "" {
		s.logger.Warn("GeoIP: no database configured, lookups disabled")
		return
	}
	if _, err := os.Stat(s.dbPath); err != nil {
		s.logger.Warn("GeoIP: database not found, lookups disabled", "path", s.dbPath)
		return
	}
	s.Reload()
}

// Reload swaps the reader for a freshly opened copy of the database file.
func (s *GeoIPService) Reload() {
	reader, err := geoip2.Open(s.dbPath)
	if err != nil {
		s.logger.Error("GeoIP: failed to open database", "path", s.dbPath, "error", err)
		return
	}
	s.setReader(reader)

	meta := reader.Metadata()
	s.logger.Info("GeoIP: loaded database", "type", meta.DatabaseType, "epoch", meta.BuildEpoch)
}

func (s *GeoIPService) setReader(r countryReader) {
	s.geoLock.Lock()
	defer s.geoLock.Unlock()

	if s.geoReader != nil {
		s.geoReader.Close()
	}
	s.geoReader = r
}

func (s *GeoIPService) Close() {
	s.setReader(nil)
}

func (s *GeoIPService) Country(ipStr string) string {
	ip := net.ParseIP(ipStr)
	if ip == nil {
		return "Invalid IP"
	}
	if ip.IsLoopback() {
		return "Localhost"
	}
	if ip.IsPrivate() {
		return "Private Network"
	}

	s.geoLock.RLock()
	reader := s.geoReader
	s.geoLock.RUnlock()

	if reader == nil {
		return "Unknown"
	}

	record, err := reader.Country(ip)
	if err != nil {
		s.logger.Error("GeoIP: lookup error", "ip", ipStr, "error", err)
		return "Unknown"
	}

	country := record.Country.Names["en"]
	if country == "" {
		country = record.Country.IsoCode
	}
	if country == "" {
		country = "Unknown"
	}
	return country
}
