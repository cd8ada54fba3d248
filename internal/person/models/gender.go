package models

import (
	dErrors "registra/pkg/domain-errors"
)

// Gender is an optional closed enumeration on a person record.
type Gender string

const (
	GenderUnspecified Gender = ""
	GenderMale        Gender = "male"
	GenderFemale      Gender = "female"
	GenderOther       Gender = "other"
)

// ParseGender creates a Gender from a string, validating it. The empty string
// is the unspecified value, not an error.
func ParseGender(s string) (Gender, error) {
	g := Gender(s)
	if !g.IsValid() {
		return GenderUnspecified, dErrors.NewField(dErrors.CodeValidation, "gender",
			"gender must be one of male, female, other")
	}
	return g, nil
}

// IsValid checks if the gender is one of the supported enum values.
func (g Gender) IsValid() bool {
	switch g {
	case GenderUnspecified, GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}
