package geoip

import (
	"context"
	"fmt"
	"net"

	"github.com/oschwald/maxminddb-golang"
)

// cityRecord matches the GeoLite2-City database structure.
type cityRecord struct {
	City struct {
		Names map[string]string `maxminddb:"names"`
	} `maxminddb:"city"`
	Subdivisions []struct {
		Names map[string]string `maxminddb:"names"`
	} `maxminddb:"subdivisions"`
	Country struct {
		Names map[string]string `maxminddb:"names"`
	} `maxminddb:"country"`
	Location struct {
		Latitude  *float64 `maxminddb:"latitude"`
		Longitude *float64 `maxminddb:"longitude"`
	} `maxminddb:"location"`
}

// MaxMindResolver resolves locations from a local GeoLite2-City database.
type MaxMindResolver struct {
	db *maxminddb.Reader
}

func (r *MaxMindResolver) Lookup(ctx context.Context, ip string) (Location, error) {
	parsedIP := net.ParseIP(ip)
	if parsedIP == nil {
		return Location{}, fmt.Errorf("%w: invalid ip %q", ErrLookupFailed, ip)
	}

	var record cityRecord
	if err := r.db.Lookup(parsedIP, &record); err != nil {
		return Location{}, fmt.Errorf("%w: %v", ErrLookupFailed, err)
	}

	city := record.City.Names["en"]
	country := record.Country.Names["en"]
	if city == "" {
		return Location{}, fmt.Errorf("%w: no city for %s", ErrLookupFailed, ip)
	}
	var region string
	if len(record.Subdivisions) > 0 {
		region = record.Subdivisions[0].Names["en"]
	}
	return Location{
		City:      orUnknown(city),
		Region:    orUnknown(region),
		Country:   orUnknown(country),
		Latitude:  record.Location.Latitude,
		Longitude: record.Location.Longitude,
	}, nil
}

func (r *MaxMindResolver) Close() error {
	return r.db.Close()
}

func NewMaxMindResolver(dbPath string) (*MaxMindResolver, error) {
	db, err := maxminddb.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open GeoIP database: %w", err)
	}
	return &MaxMindResolver{db: db}, nil
}
