package sqlite

import (
	"context"
	"database/sql"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/squadpick/internal/logger"
	"github.com/vytor/squadpick/internal/models"
	"github.com/vytor/squadpick/internal/repository"
)

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

var playerColumns = []string{"id", "name", "position", "created_at", "updated_at"}

type playerRepository struct {
	db *sql.DB
}

// NewPlayerRepository creates a new PlayerRepository implementation
func NewPlayerRepository(db *sql.DB) repository.PlayerRepository {
	return &playerRepository{db: db}
}

func (r *playerRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *playerRepository) List(ctx context.Context, filter models.PlayerFilter) ([]models.Player, error) {
	log := logger.FromContext(ctx).WithPrefix("player_repo")
	log.Debug("listing players with filter: position=%s, skill=%s", filter.Position, filter.Skill)

	query := sqlBuilder.Select(playerColumns...).From("players").OrderBy("id ASC")
	if filter.Position != "" {
		query = query.Where(squirrel.Eq{"position": string(filter.Position)})
	}

	players, err := r.queryPlayers(ctx, query)
	if err != nil {
		log.Error("failed to list players: %v", err)
		return nil, err
	}
	// Skills are scoped by the same player predicate rather than an id list, which
	// would exceed SQLite's bound-variable limit on large tables.
	var scope squirrel.Sqlizer
	if filter.Position != "" {
		scope = squirrel.Expr("player_id IN (SELECT id FROM players WHERE position = ?)", string(filter.Position))
	}
	if err := r.attachSkills(ctx, players, scope, filter.Skill); err != nil {
		log.Error("failed to load skills: %v", err)
		return nil, err
	}

	log.Debug("found %d players", len(players))
	return players, nil
}

func (r *playerRepository) Get(ctx context.Context, id int64) (*models.Player, error) {
	log := logger.FromContext(ctx).WithPrefix("player_repo")
	log.Debug("getting player: id=%d", id)

	players, err := r.queryPlayers(ctx, sqlBuilder.Select(playerColumns...).From("players").Where(squirrel.Eq{"id": id}))
	if err != nil {
		log.Error("failed to get player: %v", err)
		return nil, err
	}
	if len(players) == 0 {
		log.Debug("player not found: id=%d", id)
		return nil, nil
	}
	if err := r.attachSkills(ctx, players, squirrel.Eq{"player_id": id}, ""); err != nil {
		log.Error("failed to load skills for player %d: %v", id, err)
		return nil, err
	}
	return &players[0], nil
}

func (r *playerRepository) Create(ctx context.Context, in models.PlayerInput) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("player_repo")
	log.Debug("inserting player: name=%s, position=%s, skills=%d", in.Name, in.Position, len(in.Skills))

	var id int64
	err := tx(ctx, r.db, func(tx *sql.Tx) error {
		query, args, err := sqlBuilder.Insert("players").
			Columns("name", "position").
			Values(in.Name, string(in.Position)).
			ToSql()
		if err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			log.Error("failed to insert player: %v", err)
			return err
		}
		if id, err = res.LastInsertId(); err != nil {
			return err
		}
		return insertSkills(ctx, tx, id, in.Skills)
	})
	if err != nil {
		return 0, err
	}

	log.Debug("player inserted: id=%d", id)
	return id, nil
}

func (r *playerRepository) Update(ctx context.Context, id int64, in models.PlayerInput) error {
	log := logger.FromContext(ctx).WithPrefix("player_repo")
	log.Debug("updating player: id=%d, skills=%d", id, len(in.Skills))

	return tx(ctx, r.db, func(tx *sql.Tx) error {
		query, args, err := sqlBuilder.Update("players").
			Set("name", in.Name).
			Set("position", string(in.Position)).
			Set("updated_at", squirrel.Expr("CURRENT_TIMESTAMP")).
			Where(squirrel.Eq{"id": id}).
			ToSql()
		if err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			log.Error("failed to update player %d: %v", id, err)
			return err
		}
		if n, err := res.RowsAffected(); err != nil {
			return err
		} else if n == 0 {
			return repository.ErrPlayerNotFound
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM skills WHERE player_id = ?`, id); err != nil {
			log.Error("failed to delete skills for player %d: %v", id, err)
			return err
		}
		return insertSkills(ctx, tx, id, in.Skills)
	})
}

func (r *playerRepository) Delete(ctx context.Context, id int64) (bool, error) {
	log := logger.FromContext(ctx).WithPrefix("player_repo")
	log.Debug("deleting player and skills: id=%d", id)

	var deleted bool
	err := tx(ctx, r.db, func(tx *sql.Tx) error {
		// Skills first so the delete does not depend on foreign key enforcement.
		if _, err := tx.ExecContext(ctx, `DELETE FROM skills WHERE player_id = ?`, id); err != nil {
			log.Error("failed to delete skills for player %d: %v", id, err)
			return err
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM players WHERE id = ?`, id)
		if err != nil {
			log.Error("failed to delete player %d: %v", id, err)
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		deleted = n > 0
		return nil
	})
	return deleted, err
}

func (r *playerRepository) queryPlayers(ctx context.Context, query squirrel.SelectBuilder) ([]models.Player, error) {
	q, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	players := []models.Player{}
	for rows.Next() {
		p := models.Player{Skills: []models.Skill{}}
		if err := rows.Scan(&p.ID, &p.Name, &p.Position, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

// attachSkills loads the skills matching scope (all skills when nil) in one query,
// optionally limited to one skill name, and appends each to its owner in players.
func (r *playerRepository) attachSkills(ctx context.Context, players []models.Player, scope squirrel.Sqlizer, skill models.SkillName) error {
	if len(players) == 0 {
		return nil
	}

	index := make(map[int64]int, len(players))
	for i, p := range players {
		index[p.ID] = i
	}

	query := sqlBuilder.Select("id", "player_id", "skill", "value").
		From("skills").
		OrderBy("id ASC")
	if scope != nil {
		query = query.Where(scope)
	}
	if skill != "" {
		query = query.Where(squirrel.Eq{"skill": string(skill)})
	}

	q, args, err := query.ToSql()
	if err != nil {
		return err
	}
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var s models.Skill
		if err := rows.Scan(&s.ID, &s.PlayerID, &s.Skill, &s.Value); err != nil {
			return err
		}
		if i, ok := index[s.PlayerID]; ok {
			players[i].Skills = append(players[i].Skills, s)
		}
	}
	return rows.Err()
}

func insertSkills(ctx context.Context, tx *sql.Tx, playerID int64, skills []models.SkillInput) error {
	if len(skills) == 0 {
		return nil
	}

	insert := sqlBuilder.Insert("skills").Columns("player_id", "skill", "value")
	for _, s := range skills {
		insert = insert.Values(playerID, string(s.Skill), s.Value)
	}
	query, args, err := insert.ToSql()
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, query, args...)
	return err
}
