package health

import (
	"context"
	"time"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// DatabaseCheck is the name of the always-present store check.
const DatabaseCheck = "database"

// DefaultCheckTimeout bounds each probe.
const DefaultCheckTimeout = 2 * time.Second

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

type namedCheck struct {
	name    string
	checker Checker
}

// Option configures a Service.
type Option func(*Service)

// WithCheck adds a named component probe. A nil checker is ignored.
func WithCheck(name string, c Checker) Option {
	return func(s *Service) {
		if c != nil {
			s.checks = append(s.checks, namedCheck{name: name, checker: c})
		}
	}
}

// WithTimeout overrides DefaultCheckTimeout.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// Service coordinates health checks.
type Service struct {
	db      DBPinger
	checks  []namedCheck
	timeout time.Duration
}

// New creates a Service probing db plus any WithCheck components.
func New(db DBPinger, opts ...Option) *Service {
	s := &Service{db: db, timeout: DefaultCheckTimeout}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	checks := make(map[string]CheckResult, len(s.checks)+1)
	checks[DatabaseCheck] = result(s.db.Ping(ctx))
	for _, c := range s.checks {
		checks[c.name] = result(c.checker.HealthCheck(ctx))
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}

	return Report{Status: status, Checks: checks}
}

func result(err error) CheckResult {
	if err != nil {
		return CheckError
	}
	return CheckOK
}
