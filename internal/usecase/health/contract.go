package health

import "context"

// DBPinger checks database availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// Checker is an optional component probe (e.g. the search log writer).
type Checker interface {
	HealthCheck(ctx context.Context) error
}
