// Package health runs readiness probes against the service's dependencies.
package health

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

type CheckFunc func(ctx context.Context) error

type Check struct {
	Name string
	Fn   CheckFunc
}

type Result struct {
	Name      string `json:"name"`
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
	LatencyMS int64  `json:"latency_ms"`
}

// ProbeRunner executes all registered checks concurrently, each under its own
// timeout, and reports ready only when every check passes.
type ProbeRunner struct {
	checks  []Check
	timeout time.Duration
}

func NewProbeRunner(timeout time.Duration, checks ...Check) *ProbeRunner {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &ProbeRunner{checks: checks, timeout: timeout}
}

func (p *ProbeRunner) Ready(ctx context.Context) (bool, []Result) {
	results := make([]Result, len(p.checks))
	g, ctx := errgroup.WithContext(ctx)
	for i, check := range p.checks {
		g.Go(func() error {
			checkCtx, cancel := context.WithTimeout(ctx, p.timeout)
			defer cancel()
			start := time.Now()
			err := check.Fn(checkCtx)
			result := Result{Name: check.Name, Status: "ok", LatencyMS: time.Since(start).Milliseconds()}
			if err != nil {
				result.Status = "failed"
				result.Error = err.Error()
			}
			results[i] = result
			return nil
		})
	}
	_ = g.Wait()
	ready := true
	for _, r := range results {
		if r.Status != "ok" {
			ready = false
		}
	}
	return ready, results
}

func DatabaseCheck(db *gorm.DB) Check {
	return Check{Name: "database", Fn: func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}}
}

func RedisCheck(client redis.UniversalClient) Check {
	return Check{Name: "redis", Fn: func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}}
}
