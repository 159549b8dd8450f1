package models

import "time"

// Position is the closed set of field positions a player can hold.
type Position string

const (
	PositionDefender   Position = "defender"
	PositionMidfielder Position = "midfielder"
	PositionForward    Position = "forward"
)

// Positions lists every Position in declaration order.
var Positions = []Position{PositionDefender, PositionMidfielder, PositionForward}

func (p Position) Valid() bool {
	switch p {
	case PositionDefender, PositionMidfielder, PositionForward:
		return true
	default:
		return false
	}
}

// ParsePosition converts s to a Position when it names one exactly.
func ParsePosition(s string) (Position, bool) {
	p := Position(s)
	return p, p.Valid()
}

// SkillName is the closed set of rated skills.
type SkillName string

const (
	SkillDefense  SkillName = "defense"
	SkillAttack   SkillName = "attack"
	SkillSpeed    SkillName = "speed"
	SkillStrength SkillName = "strength"
	SkillStamina  SkillName = "stamina"
)

// SkillNames lists every SkillName in declaration order.
var SkillNames = []SkillName{SkillDefense, SkillAttack, SkillSpeed, SkillStrength, SkillStamina}

func (s SkillName) Valid() bool {
	switch s {
	case SkillDefense, SkillAttack, SkillSpeed, SkillStrength, SkillStamina:
		return true
	default:
		return false
	}
}

// ParseSkillName converts s to a SkillName when it names one exactly.
func ParseSkillName(s string) (SkillName, bool) {
	n := SkillName(s)
	return n, n.Valid()
}

const (
	MinSkillValue     = 0
	MaxSkillValue     = 100
	MaxPlayerNameSize = 255
)

type Player struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Position  Position  `json:"position"`
	Skills    []Skill   `json:"playerSkills"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Skill is owned by exactly one Player and has no lifecycle of its own.
type Skill struct {
	ID       int64     `json:"id"`
	PlayerID int64     `json:"playerId"`
	Skill    SkillName `json:"skill"`
	Value    int       `json:"value"`
}

// SkillValue returns the value of the player's record for name, or 0 when absent.
func (p Player) SkillValue(name SkillName) int {
	for _, s := range p.Skills {
		if s.Skill == name {
			return s.Value
		}
	}
	return 0
}

// PlayerInput is a validated create/update payload.
type PlayerInput struct {
	Name     string
	Position Position
	Skills   []SkillInput
}

type SkillInput struct {
	Skill SkillName
	Value int
}

// PlayerFilter narrows a player listing. A zero Position matches every player;
// a non-zero Skill attaches only the skill records with that name.
type PlayerFilter struct {
	Position Position
	Skill    SkillName
}
