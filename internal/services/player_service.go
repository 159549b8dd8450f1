package services

import (
	"context"
	stderrors "errors"

	"github.com/vytor/squadpick/internal/errors"
	"github.com/vytor/squadpick/internal/logger"
	"github.com/vytor/squadpick/internal/models"
	"github.com/vytor/squadpick/internal/repository"
)

// PlayerValidator turns a raw decoded payload into a validated PlayerInput.
type PlayerValidator interface {
	Player(raw map[string]any) (models.PlayerInput, error)
}

// PlayerService handles player CRUD orchestration
type PlayerService interface {
	ListPlayers(ctx context.Context) ([]models.Player, error)
	GetPlayer(ctx context.Context, id int64) (*models.Player, error)
	CreatePlayer(ctx context.Context, payload map[string]any) (*models.Player, error)
	UpdatePlayer(ctx context.Context, id int64, payload map[string]any) (*models.Player, error)
	DeletePlayer(ctx context.Context, id int64) error
}

type playerService struct {
	playerRepo repository.PlayerRepository
	validator  PlayerValidator
}

// NewPlayerService creates a new PlayerService
func NewPlayerService(playerRepo repository.PlayerRepository, validator PlayerValidator) PlayerService {
	return &playerService{playerRepo: playerRepo, validator: validator}
}

func (s *playerService) ListPlayers(ctx context.Context) ([]models.Player, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing players")

	players, err := s.playerRepo.List(ctx, models.PlayerFilter{})
	if err != nil {
		log.Error("failed to list players: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if players == nil {
		players = []models.Player{}
	}
	return players, nil
}

func (s *playerService) GetPlayer(ctx context.Context, id int64) (*models.Player, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting player: id=%d", id)

	player, err := s.playerRepo.Get(ctx, id)
	if err != nil {
		log.Error("failed to get player: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if player == nil {
		return nil, errors.NewNotFoundError("Player")
	}
	return player, nil
}

func (s *playerService) CreatePlayer(ctx context.Context, payload map[string]any) (*models.Player, error) {
	log := logger.FromContext(ctx)

	in, err := s.validator.Player(payload)
	if err != nil {
		log.Debug("create player rejected: %v", err)
		return nil, err
	}
	log.Debug("creating player: name=%s, position=%s", in.Name, in.Position)

	id, err := s.playerRepo.Create(ctx, in)
	if err != nil {
		log.Error("failed to create player: %v", err)
		return nil, errors.NewInternalError(err)
	}

	return s.reload(ctx, id)
}

func (s *playerService) UpdatePlayer(ctx context.Context, id int64, payload map[string]any) (*models.Player, error) {
	log := logger.FromContext(ctx)

	// Payload errors win over a missing player.
	in, err := s.validator.Player(payload)
	if err != nil {
		log.Debug("update player %d rejected: %v", id, err)
		return nil, err
	}

	log.Debug("updating player: id=%d, name=%s, position=%s", id, in.Name, in.Position)
	if err := s.playerRepo.Update(ctx, id, in); err != nil {
		if stderrors.Is(err, repository.ErrPlayerNotFound) {
			return nil, errors.NewNotFoundError("Player")
		}
		log.Error("failed to update player: %v", err)
		return nil, errors.NewInternalError(err)
	}

	return s.reload(ctx, id)
}

func (s *playerService) DeletePlayer(ctx context.Context, id int64) error {
	log := logger.FromContext(ctx)
	log.Debug("deleting player: id=%d", id)

	deleted, err := s.playerRepo.Delete(ctx, id)
	if err != nil {
		log.Error("failed to delete player: %v", err)
		return errors.NewInternalError(err)
	}
	if !deleted {
		return errors.NewNotFoundError("Player")
	}
	return nil
}

// reload fetches a player that was just written.
func (s *playerService) reload(ctx context.Context, id int64) (*models.Player, error) {
	player, err := s.playerRepo.Get(ctx, id)
	if err != nil {
		logger.FromContext(ctx).Error("failed to reload player %d: %v", id, err)
		return nil, errors.NewInternalError(err)
	}
	if player == nil {
		return nil, errors.NewNotFoundError("Player")
	}
	return player, nil
}
