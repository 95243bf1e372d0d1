package loginlog

import (
	"time"
)

const (
	ActivityLoggedIn    = "Logged In"
	ActivityLoginFailed = "Login Failed"
)

// LogData is the classified and located part of an enriched log row.
type LogData struct {
	IPAddress string   `json:"IPAddress"`
	UserAgent string   `json:"userAgent"`
	Device    string   `json:"device"`
	OS        string   `json:"os"`
	Browser   string   `json:"browser"`
	City      string   `json:"city"`
	Region    string   `json:"region"`
	Country   string   `json:"country"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// EnrichedLogView is a login log row joined with its account and enriched
// with device and location data. It is recomputed on every read.
type EnrichedLogView struct {
	ID        uint64    `json:"id,string"`
	Timestamp time.Time `json:"timestamp"`
	Activity  string    `json:"activity"`
	Success   bool      `json:"success"`
	Reason    string    `json:"reason,omitempty"`
	User      string    `json:"user"`
	Email     string    `json:"email"`
	Data      LogData   `json:"data"`
}

type LogStats struct {
	Success int `json:"SUCCESS"`
	Failed  int `json:"FAILED"`
}

type Report struct {
	Logs  []*EnrichedLogView `json:"logs"`
	Stats LogStats           `json:"stats"`
}
