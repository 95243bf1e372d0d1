package geoip

import (
	"context"
	"log/slog"
)

// Result is the outcome of Service.Resolve.
type Result struct {
	Location
	Decision Decision
	Fresh    bool // true only for a successful remote lookup
}

// Service combines the skip decision with a remote resolver.
type Service struct {
	remote Resolver
}

// Resolve returns the location of ip. It never fails: remote errors are logged
// and reported as UnknownLocation.
func (s *Service) Resolve(ctx context.Context, ip string, cached *Location) Result {
	decision := Decide(ip, cached)
	switch decision {
	case DecisionLocal:
		return Result{Location: LocalLocation, Decision: decision}
	case DecisionCached:
		return Result{Location: *cached, Decision: decision}
	}

	loc, err := s.remote.Lookup(ctx, ip)
	if err != nil {
		slog.Warn("Geo lookup failed", "ip", ip, "error", err)
		return Result{Location: UnknownLocation, Decision: decision}
	}
	return Result{Location: loc, Decision: decision, Fresh: true}
}

func NewService(remote Resolver) *Service {
	return &Service{remote: remote}
}
