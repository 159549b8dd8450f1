// Package validation checks incoming payloads before they reach the services.
//
// Player payloads are validated from the raw decoded JSON so that type mismatches
// (a numeric name, a string skill value) surface as validation messages instead of
// decode failures. Rules run in a fixed order and only the first failure is reported:
// name, position, playerSkills, every entry's skill, then every entry's value.
package validation

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/vytor/squadpick/internal/errors"
	"github.com/vytor/squadpick/internal/models"
)

// Validator wraps a configured validator.Validate with the domain's enum tags.
type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Registration only fails for empty tag names or nil funcs.
	_ = v.RegisterValidation("position", func(fl validator.FieldLevel) bool {
		_, ok := models.ParsePosition(fl.Field().String())
		return ok
	})
	_ = v.RegisterValidation("skill", func(fl validator.FieldLevel) bool {
		_, ok := models.ParseSkillName(fl.Field().String())
		return ok
	})
	return &Validator{validate: v}
}

// Player validates a raw create/update payload and converts it to a PlayerInput.
// The returned error is a VALIDATION_ERROR AppError carrying the first failing message.
func (v *Validator) Player(raw map[string]any) (models.PlayerInput, error) {
	var in models.PlayerInput

	name, err := v.playerName(raw)
	if err != nil {
		return in, err
	}
	position, err := v.playerPosition(raw)
	if err != nil {
		return in, err
	}
	entries, err := playerSkillEntries(raw)
	if err != nil {
		return in, err
	}

	skills := make([]models.SkillInput, len(entries))
	for i, entry := range entries {
		skill, err := v.skillName(i, entry)
		if err != nil {
			return in, err
		}
		skills[i].Skill = skill
	}
	for i, entry := range entries {
		value, err := v.skillValue(i, entry)
		if err != nil {
			return in, err
		}
		skills[i].Value = value
	}

	in.Name = name
	in.Position = position
	in.Skills = skills
	return in, nil
}

func (v *Validator) playerName(raw map[string]any) (string, error) {
	value := raw["name"]
	if isBlank(value) {
		return "", errors.NewValidationError("The name field is required.")
	}
	s, ok := value.(string)
	if !ok {
		return "", errors.NewValidationError("The name field must be a string.")
	}
	s = strings.TrimSpace(s)
	if v.validate.Var(s, fmt.Sprintf("max=%d", models.MaxPlayerNameSize)) != nil {
		return "", errors.NewValidationError(fmt.Sprintf("The name field must not be greater than %d characters.", models.MaxPlayerNameSize))
	}
	return s, nil
}

func (v *Validator) playerPosition(raw map[string]any) (models.Position, error) {
	value := raw["position"]
	if isBlank(value) {
		return "", errors.NewValidationError("The position field is required.")
	}
	s, ok := value.(string)
	if !ok || v.validate.Var(strings.TrimSpace(s), "position") != nil {
		return "", errors.NewValidationError("Invalid value for position: " + display(value))
	}
	return models.Position(strings.TrimSpace(s)), nil
}

func playerSkillEntries(raw map[string]any) ([]map[string]any, error) {
	value := raw["playerSkills"]
	if isBlank(value) {
		return nil, errors.NewValidationError("The player skills field is required.")
	}
	list, ok := value.([]any)
	if !ok {
		return nil, errors.NewValidationError("The player skills field must be an array.")
	}
	if len(list) == 0 {
		return nil, errors.NewValidationError("The player skills field is required.")
	}

	entries := make([]map[string]any, len(list))
	for i, item := range list {
		// Non-object entries behave like entries with no fields.
		entry, _ := item.(map[string]any)
		entries[i] = entry
	}
	return entries, nil
}

func (v *Validator) skillName(i int, entry map[string]any) (models.SkillName, error) {
	value := entry["skill"]
	if isBlank(value) {
		return "", errors.NewValidationError(fmt.Sprintf("The playerSkills.%d.skill field is required.", i))
	}
	s, ok := value.(string)
	if !ok || v.validate.Var(strings.TrimSpace(s), "skill") != nil {
		return "", errors.NewValidationError(fmt.Sprintf("Invalid value for playerSkills.%d.skill: %s", i, display(value)))
	}
	return models.SkillName(strings.TrimSpace(s)), nil
}

func (v *Validator) skillValue(i int, entry map[string]any) (int, error) {
	value := entry["value"]
	invalid := errors.NewValidationError(fmt.Sprintf("Invalid value for playerSkills.%d.value: %s", i, display(value)))

	n, ok := toInteger(value)
	if !ok {
		return 0, invalid
	}
	if v.validate.Var(n, fmt.Sprintf("min=%d,max=%d", models.MinSkillValue, models.MaxSkillValue)) != nil {
		return 0, invalid
	}
	return n, nil
}

// isBlank mirrors "required": missing, null, empty or whitespace-only strings.
func isBlank(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	default:
		return false
	}
}

// toInteger accepts JSON numbers with an integral value and numeric strings.
func toInteger(value any) (int, bool) {
	var f float64
	switch v := value.(type) {
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return fitsInt(i)
		}
		parsed, err := v.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case float64:
		f = v
	case int:
		return v, true
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return 0, false
		}
		return fitsInt(i)
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	if f > math.MaxInt32 || f < math.MinInt32 {
		return 0, false
	}
	return int(f), true
}

func fitsInt(i int64) (int, bool) {
	if i > math.MaxInt32 || i < math.MinInt32 {
		return 0, false
	}
	return int(i), true
}

func display(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case json.Number:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
