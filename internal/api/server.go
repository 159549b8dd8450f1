package api

import (
	"context"
	"net/http"
	"time"

	"github.com/vytor/squadpick/internal/metrics"
	"github.com/vytor/squadpick/internal/services"
)

// Server holds the dependencies of the HTTP handlers.
type Server struct {
	PlayerService        services.PlayerService
	TeamSelectionService services.TeamSelectionService

	// Metrics may be nil. MetricsHandler is mounted at /metrics when set.
	Metrics        *metrics.Recorder
	MetricsHandler http.Handler

	// Ready reports whether the store can serve traffic.
	Ready func(ctx context.Context) error

	// RequestTimeout bounds every request except the probes; zero disables it.
	RequestTimeout time.Duration
}
