// Package gormstore implements the repository interfaces on top of GORM.
// Production wiring uses the Postgres dialector; any GORM dialector works.
package gormstore

import (
	"context"
	"errors"
	"time"

	"github.com/vytor/squadpick/internal/logger"
	"github.com/vytor/squadpick/internal/models"
	"github.com/vytor/squadpick/internal/repository"
	"gorm.io/gorm"
)

type playerRecord struct {
	ID        int64         `gorm:"primaryKey"`
	Name      string        `gorm:"size:255;not null"`
	Position  string        `gorm:"size:32;not null;index"`
	Skills    []skillRecord `gorm:"foreignKey:PlayerID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (playerRecord) TableName() string { return "players" }

type skillRecord struct {
	ID       int64  `gorm:"primaryKey"`
	PlayerID int64  `gorm:"not null;index:idx_skills_player_skill"`
	Skill    string `gorm:"size:32;not null;index:idx_skills_player_skill"`
	Value    int    `gorm:"not null"`
}

func (skillRecord) TableName() string { return "skills" }

// AutoMigrate creates or updates the players and skills tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&playerRecord{}, &skillRecord{})
}

type playerRepository struct {
	db *gorm.DB
}

// NewPlayerRepository creates a GORM-backed PlayerRepository.
func NewPlayerRepository(db *gorm.DB) repository.PlayerRepository {
	return &playerRepository{db: db}
}

func (r *playerRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (r *playerRepository) List(ctx context.Context, filter models.PlayerFilter) ([]models.Player, error) {
	log := logger.FromContext(ctx).WithPrefix("player_repo")
	log.Debug("listing players with filter: position=%s, skill=%s", filter.Position, filter.Skill)

	query := r.db.WithContext(ctx).Preload("Skills", func(db *gorm.DB) *gorm.DB {
		if filter.Skill != "" {
			db = db.Where("skill = ?", string(filter.Skill))
		}
		return db.Order("id ASC")
	})
	if filter.Position != "" {
		query = query.Where("position = ?", string(filter.Position))
	}

	var records []playerRecord
	if err := query.Order("id ASC").Find(&records).Error; err != nil {
		log.Error("failed to list players: %v", err)
		return nil, err
	}

	players := make([]models.Player, len(records))
	for i, rec := range records {
		players[i] = rec.toModel()
	}
	log.Debug("found %d players", len(players))
	return players, nil
}

func (r *playerRepository) Get(ctx context.Context, id int64) (*models.Player, error) {
	log := logger.FromContext(ctx).WithPrefix("player_repo")
	log.Debug("getting player: id=%d", id)

	var rec playerRecord
	err := r.db.WithContext(ctx).
		Preload("Skills", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		First(&rec, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		log.Debug("player not found: id=%d", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get player: %v", err)
		return nil, err
	}

	p := rec.toModel()
	return &p, nil
}

func (r *playerRepository) Create(ctx context.Context, in models.PlayerInput) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("player_repo")
	log.Debug("inserting player: name=%s, position=%s, skills=%d", in.Name, in.Position, len(in.Skills))

	rec := playerRecord{
		Name:     in.Name,
		Position: string(in.Position),
		Skills:   skillRecords(0, in.Skills),
	}
	// Create saves the player and its skills in one transaction.
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		log.Error("failed to insert player: %v", err)
		return 0, err
	}

	log.Debug("player inserted: id=%d", rec.ID)
	return rec.ID, nil
}

func (r *playerRepository) Update(ctx context.Context, id int64, in models.PlayerInput) error {
	log := logger.FromContext(ctx).WithPrefix("player_repo")
	log.Debug("updating player: id=%d, skills=%d", id, len(in.Skills))

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rec playerRecord
		if err := tx.First(&rec, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return repository.ErrPlayerNotFound
			}
			return err
		}

		if err := tx.Model(&rec).Updates(map[string]any{
			"name":     in.Name,
			"position": string(in.Position),
		}).Error; err != nil {
			log.Error("failed to update player %d: %v", id, err)
			return err
		}

		if err := tx.Where("player_id = ?", id).Delete(&skillRecord{}).Error; err != nil {
			log.Error("failed to delete skills for player %d: %v", id, err)
			return err
		}

		skills := skillRecords(id, in.Skills)
		if len(skills) == 0 {
			return nil
		}
		return tx.Create(&skills).Error
	})
}

func (r *playerRepository) Delete(ctx context.Context, id int64) (bool, error) {
	log := logger.FromContext(ctx).WithPrefix("player_repo")
	log.Debug("deleting player and skills: id=%d", id)

	var deleted bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("player_id = ?", id).Delete(&skillRecord{}).Error; err != nil {
			log.Error("failed to delete skills for player %d: %v", id, err)
			return err
		}
		res := tx.Delete(&playerRecord{}, id)
		if res.Error != nil {
			log.Error("failed to delete player %d: %v", id, res.Error)
			return res.Error
		}
		deleted = res.RowsAffected > 0
		return nil
	})
	return deleted, err
}

func skillRecords(playerID int64, skills []models.SkillInput) []skillRecord {
	out := make([]skillRecord, len(skills))
	for i, s := range skills {
		out[i] = skillRecord{PlayerID: playerID, Skill: string(s.Skill), Value: s.Value}
	}
	return out
}

func (rec playerRecord) toModel() models.Player {
	p := models.Player{
		ID:        rec.ID,
		Name:      rec.Name,
		Position:  models.Position(rec.Position),
		Skills:    make([]models.Skill, len(rec.Skills)),
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}
	for i, s := range rec.Skills {
		p.Skills[i] = models.Skill{
			ID:       s.ID,
			PlayerID: s.PlayerID,
			Skill:    models.SkillName(s.Skill),
			Value:    s.Value,
		}
	}
	return p
}
