package util

import (
	"agritrain_backend/internal/model"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// RegisterValidations installs the domain rules on gin's binding validator.
// Safe to call more than once.
func RegisterValidations() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterValidation("scenario_type", validateScenarioType)
		v.RegisterValidation("difficulty", validateDifficulty)
	})
}

func validateScenarioType(fl validator.FieldLevel) bool {
	switch model.ScenarioType(fl.Field().String()) {
	case model.ScenarioPest, model.ScenarioIrrigation, model.ScenarioCrops, model.ScenarioClimate:
		return true
	}
	return false
}

func validateDifficulty(fl validator.FieldLevel) bool {
	switch model.DifficultyLevel(fl.Field().String()) {
	case "", model.DifficultyBeginner, model.DifficultyIntermediate, model.DifficultyAdvanced:
		return true
	}
	return false
}
