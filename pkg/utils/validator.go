package utils

import (
	"github.com/go-playground/validator/v10"
)

type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New()

	// Custom validations
	v.RegisterValidation("generation_tier", validateGenerationTier)

	return &Validator{
		validate: v,
	}
}

func (v *Validator) Struct(s interface{}) error {
	return v.validate.Struct(s)
}

// Tiers shared by plugin and datapack generations. Texture packs size by
// texture count instead and skip this rule.
func validateGenerationTier(fl validator.FieldLevel) bool {
	tier := fl.Field().String()
	knownTiers := map[string]bool{
		"simple":  true,
		"medium":  true,
		"complex": true,
	}
	return knownTiers[tier]
}
