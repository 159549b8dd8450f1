package services

import (
	"context"
	"sort"

	"github.com/vytor/squadpick/internal/errors"
	"github.com/vytor/squadpick/internal/logger"
	"github.com/vytor/squadpick/internal/models"
	"github.com/vytor/squadpick/internal/repository"
)

// SelectionRecorder observes finished team selections.
type SelectionRecorder interface {
	RecordTeamSelection(requirements, selected int, err error)
}

// TeamSelectionService picks the top-rated players for each requirement.
type TeamSelectionService interface {
	// ProcessTeamSelection returns the selections of every requirement, concatenated
	// in request order. A requirement whose position has no players aborts the whole
	// batch with INSUFFICIENT_PLAYERS, whatever its count. A count below one selects
	// nobody. A player may be selected by more than one requirement; selections are
	// not deduplicated.
	ProcessTeamSelection(ctx context.Context, reqs []models.Requirement) ([]models.Player, error)
}

type teamSelectionService struct {
	playerRepo repository.PlayerRepository
	recorder   SelectionRecorder
}

// NewTeamSelectionService creates a new TeamSelectionService. recorder may be nil.
func NewTeamSelectionService(playerRepo repository.PlayerRepository, recorder SelectionRecorder) TeamSelectionService {
	return &teamSelectionService{playerRepo: playerRepo, recorder: recorder}
}

func (s *teamSelectionService) ProcessTeamSelection(ctx context.Context, reqs []models.Requirement) ([]models.Player, error) {
	selected, err := s.process(ctx, reqs)
	if s.recorder != nil {
		s.recorder.RecordTeamSelection(len(reqs), len(selected), err)
	}
	return selected, err
}

func (s *teamSelectionService) process(ctx context.Context, reqs []models.Requirement) ([]models.Player, error) {
	log := logger.FromContext(ctx)
	log.Debug("processing team selection: requirements=%d", len(reqs))

	selected := []models.Player{}
	for i, req := range reqs {
		// A blank position names no stored player; it must not widen the filter.
		if req.Position == "" {
			log.Warn("no candidates for requirement %d: blank position", i)
			return nil, errors.NewInsufficientPlayersError("")
		}

		candidates, err := s.playerRepo.List(ctx, models.PlayerFilter{
			Position: req.Position,
			Skill:    req.MainSkill,
		})
		if err != nil {
			log.Error("failed to load candidates for requirement %d: %v", i, err)
			return nil, errors.NewInternalError(err)
		}
		if len(candidates) == 0 {
			log.Warn("no candidates for requirement %d: position=%s", i, req.Position)
			return nil, errors.NewInsufficientPlayersError(string(req.Position))
		}

		picked := topCandidates(candidates, req.MainSkill, req.NumberOfPlayers)
		if req.MainSkill == "" {
			// The store attaches every skill for a blank filter; a blank main skill matches none.
			for j := range picked {
				picked[j].Skills = []models.Skill{}
			}
		}
		log.Debug("requirement %d: position=%s skill=%s picked %d of %d", i, req.Position, req.MainSkill, len(picked), len(candidates))
		selected = append(selected, picked...)
	}

	return selected, nil
}

// topCandidates ranks candidates by their value for skill, highest first, and keeps at
// most n. A candidate without the skill ranks as 0; ties keep ascending id order.
func topCandidates(candidates []models.Player, skill models.SkillName, n int) []models.Player {
	if n <= 0 {
		return []models.Player{}
	}

	ranked := make([]models.Player, len(candidates))
	copy(ranked, candidates)

	sort.SliceStable(ranked, func(i, j int) bool {
		vi, vj := ranked[i].SkillValue(skill), ranked[j].SkillValue(skill)
		if vi != vj {
			return vi > vj
		}
		return ranked[i].ID < ranked[j].ID
	})

	if n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked
}
