package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/vytor/squadpick/internal/api"
	"github.com/vytor/squadpick/internal/metrics"
	"github.com/vytor/squadpick/internal/models"
	"github.com/vytor/squadpick/internal/repository"
	"github.com/vytor/squadpick/internal/repository/sqlite"
	"github.com/vytor/squadpick/internal/services"
	"github.com/vytor/squadpick/internal/testutil"
	"github.com/vytor/squadpick/internal/validation"
)

type APISuite struct {
	suite.Suite
	repo     repository.PlayerRepository
	recorder *metrics.Recorder
	handler  http.Handler
	closer   interface{ Close() error }
}

func (s *APISuite) SetupTest() {
	sqlDB := testutil.NewTestDB(s.T())
	s.closer = sqlDB
	s.repo = sqlite.NewPlayerRepository(sqlDB)
	s.recorder = metrics.NewRecorder()

	v := validation.New()
	srv := &api.Server{
		PlayerService:        services.NewPlayerService(s.repo, v),
		TeamSelectionService: services.NewTeamSelectionService(s.repo, s.recorder),
		Metrics:              s.recorder,
		Ready:                s.repo.Ping,
		RequestTimeout:       5 * time.Second,
	}
	s.handler = srv.Routes()
}

func (s *APISuite) TearDownTest() {
	testutil.MustClose(s.T(), s.closer)
}

func (s *APISuite) do(method, path, body string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body == "" {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	s.handler.ServeHTTP(rr, req)
	return rr
}

func (s *APISuite) decode(rr *httptest.ResponseRecorder, dst any) {
	s.Require().NoError(json.Unmarshal(rr.Body.Bytes(), dst), rr.Body.String())
}

func (s *APISuite) createPlayer(name, position string, skills string) models.Player {
	rr := s.do(http.MethodPost, "/players", fmt.Sprintf(`{"name":%q,"position":%q,"playerSkills":%s}`, name, position, skills))
	s.Require().Equal(http.StatusCreated, rr.Code, rr.Body.String())
	var p models.Player
	s.decode(rr, &p)
	return p
}

func (s *APISuite) TestCreateAndGetRoundTrip() {
	created := s.createPlayer("Ada", "defender", `[{"skill":"defense","value":90},{"skill":"speed","value":40}]`)
	s.Assert().NotZero(created.ID)
	s.Require().Len(created.Skills, 2)

	rr := s.do(http.MethodGet, fmt.Sprintf("/players/%d", created.ID), "")
	s.Require().Equal(http.StatusOK, rr.Code)
	s.Assert().Equal("application/json", rr.Header().Get("Content-Type"))

	var raw map[string]any
	s.decode(rr, &raw)
	s.Assert().Equal("Ada", raw["name"])
	s.Assert().Equal("defender", raw["position"])
	s.Assert().Contains(raw, "playerSkills")
	s.Assert().Contains(raw, "createdAt")

	skills := raw["playerSkills"].([]any)
	first := skills[0].(map[string]any)
	s.Assert().Equal("defense", first["skill"])
	s.Assert().EqualValues(90, first["value"])
	s.Assert().EqualValues(created.ID, first["playerId"])
}

func (s *APISuite) TestListEmptyIsArray() {
	rr := s.do(http.MethodGet, "/players", "")
	s.Require().Equal(http.StatusOK, rr.Code)
	s.Assert().JSONEq(`[]`, rr.Body.String())
}

func (s *APISuite) TestCreateValidationMessages() {
	cases := []struct {
		body string
		want string
	}{
		{`{"position":"defender","playerSkills":[{"skill":"speed","value":1}]}`, "The name field is required."},
		{`{"name":"Ada","position":"goalie","playerSkills":[{"skill":"speed","value":1}]}`, "Invalid value for position: goalie"},
		{`{"name":"Ada","position":"defender"}`, "The player skills field is required."},
		{`{"name":"Ada","position":"defender","playerSkills":[]}`, "The player skills field is required."},
		{`{"name":"Ada","position":"defender","playerSkills":[{"skill":"speed","value":1},{"skill":"magic","value":1}]}`, "Invalid value for playerSkills.1.skill: magic"},
		{`{"name":"Ada","position":"defender","playerSkills":[{"skill":"speed","value":101}]}`, "Invalid value for playerSkills.0.value: 101"},
	}

	for _, tc := range cases {
		rr := s.do(http.MethodPost, "/players", tc.body)
		s.Assert().Equal(http.StatusUnprocessableEntity, rr.Code, tc.body)
		s.Assert().JSONEq(fmt.Sprintf(`{"message":%q}`, tc.want), rr.Body.String(), tc.body)
	}

	rr := s.do(http.MethodGet, "/players", "")
	s.Assert().JSONEq(`[]`, rr.Body.String())
}

func (s *APISuite) TestMalformedJSON() {
	rr := s.do(http.MethodPost, "/players", `{"name":`)
	s.Assert().Equal(http.StatusBadRequest, rr.Code)

	rr = s.do(http.MethodPost, "/players/team-selection", `{"position":"defender"}`)
	s.Assert().Equal(http.StatusBadRequest, rr.Code)
}

func (s *APISuite) TestGetMissingAndNonNumeric() {
	for _, path := range []string{"/players/999", "/players/abc"} {
		rr := s.do(http.MethodGet, path, "")
		s.Assert().Equal(http.StatusNotFound, rr.Code, path)
		s.Assert().JSONEq(`{"error":"Player not found"}`, rr.Body.String(), path)
	}
}

func (s *APISuite) TestUpdateReplacesSkills() {
	p := s.createPlayer("Ada", "defender", `[{"skill":"defense","value":90},{"skill":"speed","value":40}]`)

	rr := s.do(http.MethodPut, fmt.Sprintf("/players/%d", p.ID),
		`{"name":"Ada L","position":"forward","playerSkills":[{"skill":"attack","value":77}]}`)
	s.Require().Equal(http.StatusOK, rr.Code, rr.Body.String())

	var updated models.Player
	s.decode(rr, &updated)
	s.Assert().Equal("Ada L", updated.Name)
	s.Assert().Equal(models.PositionForward, updated.Position)
	s.Require().Len(updated.Skills, 1)
	s.Assert().Equal(models.SkillAttack, updated.Skills[0].Skill)
	s.Assert().Equal(77, updated.Skills[0].Value)
}

func (s *APISuite) TestUpdateRejectsBadPositionAndKeepsPlayer() {
	p := s.createPlayer("Ada", "defender", `[{"skill":"defense","value":90}]`)

	rr := s.do(http.MethodPut, fmt.Sprintf("/players/%d", p.ID),
		`{"name":"Ada","position":"keeper","playerSkills":[{"skill":"defense","value":10}]}`)
	s.Assert().Equal(http.StatusUnprocessableEntity, rr.Code)

	got, err := s.repo.Get(context.Background(), p.ID)
	s.Require().NoError(err)
	s.Assert().Equal(models.PositionDefender, got.Position)
	s.Assert().Equal(90, got.Skills[0].Value)
}

func (s *APISuite) TestUpdateMissingPlayer() {
	rr := s.do(http.MethodPut, "/players/404",
		`{"name":"Ghost","position":"forward","playerSkills":[{"skill":"attack","value":1}]}`)
	s.Assert().Equal(http.StatusNotFound, rr.Code)
	s.Assert().JSONEq(`{"error":"Player not found"}`, rr.Body.String())
}

func (s *APISuite) TestDelete() {
	p := s.createPlayer("Ada", "defender", `[{"skill":"defense","value":90}]`)
	path := fmt.Sprintf("/players/%d", p.ID)

	rr := s.do(http.MethodDelete, path, "")
	s.Require().Equal(http.StatusOK, rr.Code)
	s.Assert().JSONEq(`{"message":"Player deleted"}`, rr.Body.String())

	s.Assert().Equal(http.StatusNotFound, s.do(http.MethodGet, path, "").Code)
	s.Assert().Equal(http.StatusNotFound, s.do(http.MethodDelete, path, "").Code)
}

func (s *APISuite) TestTeamSelection() {
	a := s.createPlayer("A", "defender", `[{"skill":"speed","value":90}]`)
	s.createPlayer("B", "defender", `[{"skill":"speed","value":40}]`)
	c := s.createPlayer("C", "defender", `[{"skill":"speed","value":70},{"skill":"defense","value":99}]`)

	rr := s.do(http.MethodPost, "/players/team-selection",
		`[{"position":"defender","mainSkill":"speed","numberOfPlayers":2}]`)
	s.Require().Equal(http.StatusOK, rr.Code, rr.Body.String())

	var got []models.Player
	s.decode(rr, &got)
	s.Require().Len(got, 2)
	s.Assert().Equal(a.ID, got[0].ID)
	s.Assert().Equal(c.ID, got[1].ID)
	s.Require().Len(got[1].Skills, 1)
	s.Assert().Equal(models.SkillSpeed, got[1].Skills[0].Skill)

	s.Assert().Equal(1, s.recorder.Snapshot().Outcomes[metrics.OutcomeOK])
}

func (s *APISuite) TestTeamSelectionInsufficientPlayers() {
	s.createPlayer("A", "defender", `[{"skill":"speed","value":90}]`)

	rr := s.do(http.MethodPost, "/players/team-selection",
		`[{"position":"defender","mainSkill":"speed","numberOfPlayers":1},{"position":"forward","mainSkill":"attack","numberOfPlayers":1}]`)
	s.Assert().Equal(http.StatusNotFound, rr.Code)
	s.Assert().JSONEq(`{"error":"Insufficient number of players for position: forward"}`, rr.Body.String())
}

func (s *APISuite) TestTeamSelectionEmptyRequest() {
	rr := s.do(http.MethodPost, "/players/team-selection", `[]`)
	s.Require().Equal(http.StatusOK, rr.Code)
	s.Assert().JSONEq(`[]`, rr.Body.String())
}

func (s *APISuite) TestTeamSelectionUnrecognisedValues() {
	d := s.createPlayer("D", "defender", `[{"skill":"defense","value":60}]`)

	rr := s.do(http.MethodPost, "/players/team-selection",
		`[{"position":"goalkeeper","mainSkill":"defense","numberOfPlayers":1}]`)
	s.Assert().Equal(http.StatusNotFound, rr.Code)
	s.Assert().JSONEq(`{"error":"Insufficient number of players for position: goalkeeper"}`, rr.Body.String())

	rr = s.do(http.MethodPost, "/players/team-selection",
		`[{"position":"defender","mainSkill":"luck","numberOfPlayers":1}]`)
	s.Require().Equal(http.StatusOK, rr.Code, rr.Body.String())
	var got []models.Player
	s.decode(rr, &got)
	s.Require().Len(got, 1)
	s.Assert().Equal(d.ID, got[0].ID)
	s.Assert().Empty(got[0].Skills)

	rr = s.do(http.MethodPost, "/players/team-selection",
		`[{"position":"defender","mainSkill":"defense","numberOfPlayers":0},{"position":"forward","mainSkill":"attack","numberOfPlayers":1}]`)
	s.Assert().Equal(http.StatusNotFound, rr.Code)
	s.Assert().JSONEq(`{"error":"Insufficient number of players for position: forward"}`, rr.Body.String())

	rr = s.do(http.MethodPost, "/players/team-selection",
		`[{"position":"defender","mainSkill":"defense","numberOfPlayers":0}]`)
	s.Require().Equal(http.StatusOK, rr.Code)
	s.Assert().JSONEq(`[]`, rr.Body.String())
}

func (s *APISuite) TestTeamSelectionDefendersByDefense() {
	s.createPlayer("A", "defender", `[{"skill":"defense","value":90}]`)
	s.createPlayer("B", "defender", `[{"skill":"defense","value":40}]`)
	s.createPlayer("C", "defender", `[{"skill":"defense","value":70}]`)

	rr := s.do(http.MethodPost, "/players/team-selection",
		`[{"position":"defender","mainSkill":"defense","numberOfPlayers":2}]`)
	s.Require().Equal(http.StatusOK, rr.Code, rr.Body.String())

	var got []models.Player
	s.decode(rr, &got)
	s.Require().Len(got, 2)
	s.Assert().Equal(90, got[0].SkillValue(models.SkillDefense))
	s.Assert().Equal(70, got[1].SkillValue(models.SkillDefense))
}

func (s *APISuite) TestProbesAndHeaders() {
	rr := s.do(http.MethodGet, "/health", "")
	s.Assert().Equal(http.StatusOK, rr.Code)
	s.Assert().Equal("OK", rr.Body.String())
	s.Assert().NotEmpty(rr.Header().Get("X-Request-ID"))
	s.Assert().Equal("nosniff", rr.Header().Get("X-Content-Type-Options"))

	rr = s.do(http.MethodGet, "/ready", "")
	s.Assert().Equal(http.StatusOK, rr.Code)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rr = httptest.NewRecorder()
	s.handler.ServeHTTP(rr, req)
	s.Assert().Equal("abc-123", rr.Header().Get("X-Request-ID"))
}

func (s *APISuite) TestUnknownRoute() {
	rr := s.do(http.MethodGet, "/nope", "")
	s.Assert().Equal(http.StatusNotFound, rr.Code)
}

func TestAPISuite(t *testing.T) {
	suite.Run(t, new(APISuite))
}

func TestReadyReportsStoreFailure(t *testing.T) {
	srv := &api.Server{
		Ready: func(context.Context) error { return stderrors.New("database is locked") },
	}
	rr := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/ready", nil))
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rr.Code)
	}
}

func TestMetricsEndpointMounted(t *testing.T) {
	called := false
	srv := &api.Server{
		MetricsHandler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
			w.WriteHeader(http.StatusOK)
		}),
	}
	rr := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !called || rr.Code != http.StatusOK {
		t.Fatalf("expected metrics handler to serve /metrics, got %d", rr.Code)
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	srv := &api.Server{
		PlayerService: panickingPlayers{},
	}
	rr := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/players", nil))
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
}

type panickingPlayers struct{ services.PlayerService }

func (panickingPlayers) ListPlayers(context.Context) ([]models.Player, error) {
	panic("boom")
}
