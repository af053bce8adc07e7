package health

import (
	"context"
	"log"
	"sync"
	"time"

	grpchealth "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

const (
	StatusConnected    = "connected"
	StatusDisconnected = "disconnected"
	StatusDisabled     = "disabled"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type Report struct {
	Database string `json:"database"`
	Cache    string `json:"cache"`
}

// Healthy is true while the document store answers. The cache is optional.
func (r Report) Healthy() bool {
	return r.Database == StatusConnected
}

type Checker struct {
	db      Pinger
	cache   Pinger // nil when no cache is configured
	timeout time.Duration
	server  *grpchealth.Server

	mu   sync.Mutex
	last Report // last logged state
}

func NewChecker(db, cache Pinger, server *grpchealth.Server) *Checker {
	return &Checker{
		db:      db,
		cache:   cache,
		timeout: 2 * time.Second,
		server:  server,
		last:    Report{Database: StatusDisconnected, Cache: StatusDisabled},
	}
}

// Check pings the dependencies now and updates the gRPC serving status.
func (c *Checker) Check(ctx context.Context) Report {
	report := Report{
		Database: c.ping(ctx, c.db),
		Cache:    StatusDisabled,
	}
	if c.cache != nil {
		report.Cache = c.ping(ctx, c.cache)
	}

	c.mu.Lock()
	changed := c.last != report
	c.last = report
	c.mu.Unlock()

	if changed {
		log.Printf("health changed: database=%s cache=%s", report.Database, report.Cache)
	}
	if c.server != nil {
		status := healthpb.HealthCheckResponse_NOT_SERVING
		if report.Healthy() {
			status = healthpb.HealthCheckResponse_SERVING
		}
		c.server.SetServingStatus("", status)
	}
	return report
}

// Run re-checks on every tick until ctx is done.
func (c *Checker) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	c.Check(ctx)
	for {
		select {
		case <-ticker.C:
			c.Check(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (c *Checker) ping(ctx context.Context, p Pinger) string {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	if err := p.Ping(ctx); err != nil {
		log.Printf("health ping error: %v", err)
		return StatusDisconnected
	}
	return StatusConnected
}
