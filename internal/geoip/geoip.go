// Package geoip resolves client IP addresses to a display location.
package geoip

import (
	"context"
	"errors"
	"strings"
)

const (
	Unknown = "Unknown"
)

var (
	ErrLookupFailed = errors.New("geo lookup failed")
)

// Location is a resolved place. Coordinates are nil when unknown.
type Location struct {
	City      string   `json:"city"`
	Region    string   `json:"region"`
	Country   string   `json:"country"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

var (
	// LocalLocation is returned for loopback and development addresses.
	LocalLocation = Location{City: "Localhost", Region: "Development", Country: "Local Machine"}
	// UnknownLocation is returned when a lookup fails.
	UnknownLocation = Location{City: Unknown, Region: Unknown, Country: Unknown}
)

// Resolver looks up the location of an IP address.
type Resolver interface {
	Lookup(ctx context.Context, ip string) (Location, error)
}

type Decision int

const (
	DecisionLookup Decision = iota // remote lookup required
	DecisionLocal                  // local address, use LocalLocation
	DecisionCached                 // cached location is authoritative
)

func (d Decision) String() string {
	switch d {
	case DecisionLocal:
		return "local"
	case DecisionCached:
		return "cached"
	default:
		return "lookup"
	}
}

// IsLocalAddress reports whether ip names the local machine.
func IsLocalAddress(ip string) bool {
	switch ip {
	case "unknown", "::1", "127.0.0.1":
		return true
	}
	return strings.Contains(ip, "localhost")
}

// Decide tells whether a lookup is needed for ip. cached may be nil.
func Decide(ip string, cached *Location) Decision {
	if IsLocalAddress(ip) {
		return DecisionLocal
	}
	if cached != nil && cached.City != "" && cached.Country != "" {
		return DecisionCached
	}
	return DecisionLookup
}
