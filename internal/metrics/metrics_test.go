package metrics

import (
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/vytor/squadpick/internal/errors"
)

func TestRecorderCountsOutcomes(t *testing.T) {
	rec := NewRecorder()
	rec.RecordTeamSelection(2, 3, nil)
	rec.RecordTeamSelection(1, 1, nil)
	rec.RecordTeamSelection(1, 0, errors.NewInsufficientPlayersError("forward"))
	rec.RecordTeamSelection(1, 0, stderrors.New("boom"))

	snap := rec.Snapshot()
	assert.Equal(t, 2, snap.Outcomes[OutcomeOK])
	assert.Equal(t, 1, snap.Outcomes[errors.ErrCodeInsufficientPlayers])
	assert.Equal(t, 1, snap.Outcomes[errors.ErrCodeInternal])
	assert.Equal(t, 4, snap.SelectedPlayers)
}

func TestSnapshotIsACopy(t *testing.T) {
	rec := NewRecorder()
	rec.RecordTeamSelection(1, 1, nil)

	snap := rec.Snapshot()
	snap.Outcomes[OutcomeOK] = 99
	assert.Equal(t, 1, rec.Snapshot().Outcomes[OutcomeOK])
}

func TestNilRecorderIsSafe(t *testing.T) {
	var rec *Recorder
	assert.NotPanics(t, func() {
		rec.RecordHTTPRequest("GET", "/players", 200, time.Millisecond)
		rec.RecordTeamSelection(1, 1, nil)
	})
	assert.Empty(t, rec.Snapshot().Outcomes)
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, OutcomeOK, Outcome(nil))
	assert.Equal(t, errors.ErrCodeValidation, Outcome(errors.NewValidationError("bad")))
	assert.Equal(t, errors.ErrCodeInternal, Outcome(stderrors.New("raw")))
}
