package geoip

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/khanghh/kontest/params"
	"github.com/spf13/cast"
	"golang.org/x/time/rate"
)

type ipapiResponse struct {
	City      string `json:"city"`
	Region    string `json:"region"`
	Country   string `json:"country_name"`
	Latitude  any    `json:"latitude"`
	Longitude any    `json:"longitude"`
	Error     bool   `json:"error"`
	Reason    string `json:"reason"`
}

// IPAPIResolver looks up locations through an ipapi.co compatible HTTP API.
type IPAPIResolver struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
	timeout time.Duration // bounds the whole lookup, limiter wait included
}

type IPAPIOption func(*IPAPIResolver)

func WithHTTPClient(client *http.Client) IPAPIOption {
	return func(r *IPAPIResolver) { r.client = client }
}

func WithRateLimit(limit float64, burst int) IPAPIOption {
	return func(r *IPAPIResolver) { r.limiter = rate.NewLimiter(rate.Limit(limit), burst) }
}

func WithTimeout(timeout time.Duration) IPAPIOption {
	return func(r *IPAPIResolver) { r.timeout = timeout }
}

// Lookup fails with ErrLookupFailed when the provider has no city for ip, or
// when no rate limit token is available before the timeout.
func (r *IPAPIResolver) Lookup(ctx context.Context, ip string) (Location, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if r.limiter != nil {
		if err := r.limiter.Wait(ctx); err != nil {
			return Location{}, fmt.Errorf("%w: %v", ErrLookupFailed, err)
		}
	}

	endpoint := fmt.Sprintf("%s/%s/json/", r.baseURL, url.PathEscape(ip))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Location{}, err
	}
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return Location{}, fmt.Errorf("%w: %v", ErrLookupFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return Location{}, fmt.Errorf("%w: status %d", ErrLookupFailed, resp.StatusCode)
	}

	var result ipapiResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return Location{}, fmt.Errorf("%w: %v", ErrLookupFailed, err)
	}
	if result.Error {
		return Location{}, fmt.Errorf("%w: %s", ErrLookupFailed, result.Reason)
	}
	if result.City == "" {
		return Location{}, fmt.Errorf("%w: no city for %s", ErrLookupFailed, ip)
	}

	return Location{
		City:      orUnknown(result.City),
		Region:    orUnknown(result.Region),
		Country:   orUnknown(result.Country),
		Latitude:  toCoord(result.Latitude),
		Longitude: toCoord(result.Longitude),
	}, nil
}

func orUnknown(s string) string {
	if s == "" {
		return Unknown
	}
	return s
}

// toCoord accepts numbers and numeric strings, the provider has returned both.
func toCoord(v any) *float64 {
	if v == nil {
		return nil
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return nil
	}
	return &f
}

func NewIPAPIResolver(baseURL string, opts ...IPAPIOption) *IPAPIResolver {
	r := &IPAPIResolver{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{},
		timeout: params.GeoLookupTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.timeout <= 0 {
		r.timeout = params.GeoLookupTimeout
	}
	return r
}
