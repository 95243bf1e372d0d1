package loginlog

import (
	"strings"
	"time"

	"github.com/khanghh/kontest/params"
	"github.com/spf13/cast"
)

// Filter narrows the login log report. Zero values place no constraint.
type Filter struct {
	StartDate  *time.Time
	EndDate    *time.Time
	Email      string
	IPAddress  string
	DeviceType string
	Country    string
}

// ParseFilter builds a Filter from request query values. Dates that cannot be
// parsed are ignored. A date-only endDate covers the whole day.
func ParseFilter(query map[string]string) Filter {
	filter := Filter{
		Email:      strings.TrimSpace(query["email"]),
		IPAddress:  strings.TrimSpace(query["ipAddress"]),
		DeviceType: strings.TrimSpace(query["deviceType"]),
		Country:    strings.TrimSpace(query["country"]),
	}
	if start, _, ok := parseDate(query["startDate"]); ok {
		filter.StartDate = &start
	}
	if end, dateOnly, ok := parseDate(query["endDate"]); ok {
		if dateOnly {
			end = end.Add(24*time.Hour - time.Nanosecond)
		}
		filter.EndDate = &end
	}
	return filter
}

func parseDate(value string) (time.Time, bool, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false, false
	}
	if t, err := time.Parse(params.ReportDateLayout, value); err == nil {
		return t, true, true
	}
	t, err := cast.ToTimeE(value)
	if err != nil {
		return time.Time{}, false, false
	}
	return t, false, true
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// Match reports whether an enriched view satisfies the device and country
// predicates. Other predicates are applied by the store.
func (f Filter) Match(view *EnrichedLogView) bool {
	if f.DeviceType != "" && !containsFold(view.Data.Device, f.DeviceType) {
		return false
	}
	if f.Country != "" && !containsFold(view.Data.Country, f.Country) {
		return false
	}
	return true
}
