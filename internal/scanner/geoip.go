package scanner

import (
	"net"

	"github.com/oschwald/geoip2-golang"
	"github.com/rs/zerolog/log"
)

// geoLookup wraps a geoip2.Reader; nil-safe so a worker can carry a
// per-worker instance (or none, when the database file is absent,
// which is a DependencyMissing per spec.md §7 rather than fatal).
type geoLookup struct {
	db *geoip2.Reader
}

func openGeoIP(path string) *geoLookup {
	if path == "" {
		return &geoLookup{}
	}
	db, err := geoip2.Open(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("geoip database unavailable, geolocation disabled")
		return &geoLookup{}
	}
	return &geoLookup{db: db}
}

func (g *geoLookup) countryName(ipStr string) string {
	if g.db == nil {
		return ""
	}
	ip := net.ParseIP(ipStr)
	if ip == nil {
		return ""
	}
	record, err := g.db.Country(ip)
	if err != nil {
		return ""
	}
	return record.Country.Names["en"]
}

func (g *geoLookup) close() {
	if g.db != nil {
		g.db.Close()
	}
}
