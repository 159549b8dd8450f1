package metrics

import (
	"sync"
	"time"

	"github.com/vytor/squadpick/internal/errors"
)

// Recorder keeps in-memory team selection counters and forwards every
// observation to the OpenTelemetry instruments when metrics are enabled.
// A nil Recorder ignores all calls.
type Recorder struct {
	mu       sync.Mutex
	outcomes map[string]int
	selected int
	otel     *otelInstruments
}

func NewRecorder() *Recorder {
	return newRecorder(nil)
}

func newRecorder(otel *otelInstruments) *Recorder {
	return &Recorder{
		outcomes: make(map[string]int),
		otel:     otel,
	}
}

// RecordHTTPRequest tracks basic HTTP metrics.
func (r *Recorder) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordHTTPRequest(method, path, status, duration)
}

// RecordTeamSelection counts a finished selection, labelled by its error code or "ok".
func (r *Recorder) RecordTeamSelection(requirements, selected int, err error) {
	if r == nil {
		return
	}

	outcome := Outcome(err)
	r.mu.Lock()
	r.outcomes[outcome]++
	if err == nil {
		r.selected += selected
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordTeamSelection(outcome, selected)
	}
}

// Snapshot is a copy of the in-memory team selection counters.
type Snapshot struct {
	Outcomes        map[string]int
	SelectedPlayers int
}

func (r *Recorder) Snapshot() Snapshot {
	if r == nil {
		return Snapshot{Outcomes: map[string]int{}}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	outcomes := make(map[string]int, len(r.outcomes))
	for k, v := range r.outcomes {
		outcomes[k] = v
	}
	return Snapshot{Outcomes: outcomes, SelectedPlayers: r.selected}
}

// Outcome maps an error to its metric label.
func Outcome(err error) string {
	if err == nil {
		return OutcomeOK
	}
	if appErr, ok := errors.As(err); ok {
		return appErr.Code
	}
	return errors.ErrCodeInternal
}
