package enrich

import (
	"net"

	"github.com/oschwald/geoip2-golang"
)

// GeoResult contains coarse geolocation for a download.
type GeoResult struct {
	Country string
	City    string
}

// GeoIP wraps an optional MaxMind City database. A nil *GeoIP is valid and
// returns empty lookups, so callers never branch on whether geo enrichment
// is configured.
type GeoIP struct {
	db *geoip2.Reader
}

// NewGeoIP opens the database at path. An empty path disables geo
// enrichment and returns (nil, nil).
func NewGeoIP(path string) (*GeoIP, error) {
	if path == "" {
		return nil, nil
	}

	db, err := geoip2.Open(path)
	if err != nil {
		return nil, err
	}

	return &GeoIP{db: db}, nil
}

// Close closes the underlying database.
func (g *GeoIP) Close() error {
	if g == nil || g.db == nil {
		return nil
	}
	return g.db.Close()
}

// Lookup returns geolocation for an IP address, or a zero result when the
// database is absent, the IP is unparseable, or the lookup fails.
func (g *GeoIP) Lookup(ipStr string) GeoResult {
	if g == nil || g.db == nil {
		return GeoResult{}
	}

	ip := net.ParseIP(ipStr)
	if ip == nil {
		return GeoResult{}
	}

	record, err := g.db.City(ip)
	if err != nil {
		return GeoResult{}
	}

	result := GeoResult{Country: record.Country.IsoCode}
	if len(record.City.Names) > 0 {
		result.City = record.City.Names["en"]
	}
	return result
}
