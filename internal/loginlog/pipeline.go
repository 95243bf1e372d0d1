package loginlog

import (
	"context"
	"log/slog"

	"github.com/khanghh/kontest/internal/device"
	"github.com/khanghh/kontest/internal/geoip"
	"github.com/khanghh/kontest/model"
	"github.com/khanghh/kontest/params"
	"golang.org/x/sync/errgroup"
)

// GeoResolver turns an address into a location, reporting whether it came
// from a fresh lookup.
type GeoResolver interface {
	Resolve(ctx context.Context, ip string, cached *geoip.Location) geoip.Result
}

// Pipeline produces the enriched login log report.
type Pipeline struct {
	repo        LoginLogRepository
	geo         GeoResolver
	batchSize   int
	concurrency int
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithBatchSize caps the number of rows read per report.
func WithBatchSize(n int) PipelineOption {
	return func(p *Pipeline) { p.batchSize = n }
}

// WithConcurrency caps the number of rows enriched at once. Values below one
// keep the default.
func WithConcurrency(n int) PipelineOption {
	return func(p *Pipeline) { p.concurrency = n }
}

// Query selects the newest rows matching filter, enriches each of them and
// counts successes and failures over the returned rows. Only a store failure
// is returned as an error.
func (p *Pipeline) Query(ctx context.Context, filter Filter) (*Report, error) {
	rows, err := p.repo.Find(ctx, filter, p.batchSize)
	if err != nil {
		return nil, err
	}

	views := make([]*EnrichedLogView, len(rows))
	var g errgroup.Group
	g.SetLimit(p.concurrency)
	for i, row := range rows {
		g.Go(func() error {
			views[i] = p.enrich(ctx, row)
			return nil
		})
	}
	_ = g.Wait()

	report := &Report{Logs: make([]*EnrichedLogView, 0, len(views))}
	for _, view := range views {
		if !filter.Match(view) {
			continue
		}
		report.Logs = append(report.Logs, view)
		if view.Success {
			report.Stats.Success++
		} else {
			report.Stats.Failed++
		}
	}
	return report, nil
}

func (p *Pipeline) enrich(ctx context.Context, row *model.LoginLog) *EnrichedLogView {
	info := deviceInfo(row)
	res := p.geo.Resolve(ctx, row.IPAddress, cachedLocation(row))
	if res.Fresh {
		p.writeBack(ctx, row.ID, res.Location)
	}

	activity := ActivityLoginFailed
	if row.Success {
		activity = ActivityLoggedIn
	}
	return &EnrichedLogView{
		ID:        row.ID,
		Timestamp: row.CreatedAt,
		Activity:  activity,
		Success:   row.Success,
		Reason:    row.Reason,
		User:      displayName(row),
		Email:     accountEmail(row),
		Data: LogData{
			IPAddress: row.IPAddress,
			UserAgent: row.UserAgent,
			Device:    info.Device,
			OS:        info.OS,
			Browser:   info.Browser,
			City:      res.City,
			Region:    res.Region,
			Country:   res.Country,
			Latitude:  res.Latitude,
			Longitude: res.Longitude,
		},
	}
}

func (p *Pipeline) writeBack(ctx context.Context, id uint64, loc geoip.Location) {
	updated, err := p.repo.UpdateGeo(ctx, id, loc)
	if err != nil {
		slog.Warn("Failed to store login log location", "id", id, "error", err)
		return
	}
	if !updated {
		slog.Debug("Login log location already stored or row removed", "id", id)
	}
}

// deviceInfo prefers the values classified at record time.
func deviceInfo(row *model.LoginLog) device.Info {
	if row.Device != nil && *row.Device != "" && row.OS != nil && row.Browser != nil {
		return device.Info{Device: *row.Device, OS: *row.OS, Browser: *row.Browser}
	}
	return device.Classify(row.UserAgent)
}

func cachedLocation(row *model.LoginLog) *geoip.Location {
	if !row.HasGeo() {
		return nil
	}
	loc := &geoip.Location{
		City:      *row.City,
		Country:   *row.Country,
		Latitude:  row.Latitude,
		Longitude: row.Longitude,
	}
	if row.Region != nil {
		loc.Region = *row.Region
	}
	return loc
}

func displayName(row *model.LoginLog) string {
	if row.User != nil {
		if name := row.User.DisplayName(); name != "" {
			return name
		}
		if row.User.Email != "" {
			return row.User.Email
		}
	}
	return row.Email
}

func accountEmail(row *model.LoginLog) string {
	if row.User != nil && row.User.Email != "" {
		return row.User.Email
	}
	return row.Email
}

// NewPipeline returns a Pipeline reading from repo and locating rows with geo.
func NewPipeline(repo LoginLogRepository, geo GeoResolver, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		repo:        repo,
		geo:         geo,
		batchSize:   params.LoginLogBatchSize,
		concurrency: params.EnrichConcurrency,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.batchSize <= 0 {
		p.batchSize = params.LoginLogBatchSize
	}
	if p.concurrency <= 0 {
		p.concurrency = params.EnrichConcurrency
	}
	return p
}
