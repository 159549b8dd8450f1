package models

// Requirement is one element of a team-selection request. Position and MainSkill
// are matched against stored values as given; unknown names simply match nothing.
type Requirement struct {
	Position        Position  `json:"position"`
	MainSkill       SkillName `json:"mainSkill"`
	NumberOfPlayers int       `json:"numberOfPlayers"`
}
