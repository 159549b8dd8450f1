package repository

import (
	"context"
	"errors"

	"github.com/vytor/squadpick/internal/models"
)

// ErrPlayerNotFound is returned by Update when no player has the given id.
var ErrPlayerNotFound = errors.New("player not found")

// PlayerRepository persists players together with the skills they own.
//
// Create, Update and Delete each run in a single transaction, so a player is
// never observable with a partially replaced skill set.
type PlayerRepository interface {
	// List returns players ordered by id. The filter's Skill, when set, limits
	// the attached skill records to that skill; players without it are still returned.
	List(ctx context.Context, filter models.PlayerFilter) ([]models.Player, error)
	// Get returns (nil, nil) when the player does not exist.
	Get(ctx context.Context, id int64) (*models.Player, error)
	Create(ctx context.Context, in models.PlayerInput) (int64, error)
	// Update overwrites name and position and replaces the whole skill set.
	Update(ctx context.Context, id int64, in models.PlayerInput) error
	// Delete removes the player and its skills, reporting whether the player existed.
	Delete(ctx context.Context, id int64) (bool, error)
	Ping(ctx context.Context) error
}
