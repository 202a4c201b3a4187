// Copyright (c) 2026 Roots. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package person manages the individuals of a family tree.

Two write paths exist for a person record:

  - Direct edit: tree owners, editors and admins patch the record at once.
  - Proposal: other contributors with view access submit the field-level diff
    for review (see package proposal).

Every editable attribute travels as an optional string keyed by its column
name, which is also the key used in proposal change sets.
*/
package person

import (
	"strings"
	"time"

	"github.com/taibuivan/roots/pkg/pointer"
)

// # Gender

// Gender is the recorded sex of a person.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// Genders lists every accepted gender value.
var Genders = []string{string(GenderMale), string(GenderFemale)}

// # Domain Entity

// Person is an individual in a family tree. Dates are ISO YYYY-MM-DD.
type Person struct {
	ID             string    `json:"id"`
	TreeID         string    `json:"tree_id"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Patronymic     *string   `json:"patronymic"`
	MaidenName     *string   `json:"maiden_name"`
	Gender         *string   `json:"gender"`
	BirthDate      *string   `json:"birth_date"`
	BirthPlace     *string   `json:"birth_place"`
	DeathDate      *string   `json:"death_date"`
	DeathPlace     *string   `json:"death_place"`
	BurialPlace    *string   `json:"burial_place"`
	Residence      *string   `json:"residence"`
	AvatarURL      *string   `json:"avatar_url"`
	AvatarThumbURL *string   `json:"avatar_thumb_url"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Editable field names. They double as column names and proposal keys.
const (
	FieldFirstName   = "first_name"
	FieldLastName    = "last_name"
	FieldPatronymic  = "patronymic"
	FieldMaidenName  = "maiden_name"
	FieldGender      = "gender"
	FieldBirthDate   = "birth_date"
	FieldBirthPlace  = "birth_place"
	FieldDeathDate   = "death_date"
	FieldDeathPlace  = "death_place"
	FieldBurialPlace = "burial_place"
	FieldResidence   = "residence"
)

// EditableFields lists the attributes that direct edits and accepted proposals may write, in column order.
var EditableFields = []string{
	FieldFirstName, FieldLastName, FieldPatronymic, FieldMaidenName, FieldGender,
	FieldBirthDate, FieldBirthPlace, FieldDeathDate, FieldDeathPlace, FieldBurialPlace, FieldResidence,
}

// isDateField reports whether the column is stored as DATE.
func isDateField(field string) bool {
	return field == FieldBirthDate || field == FieldDeathDate
}

// isRequiredField reports whether the column is NOT NULL.
func isRequiredField(field string) bool {
	return field == FieldFirstName || field == FieldLastName
}

// Snapshot returns the editable attributes keyed by field name.
func (p *Person) Snapshot() map[string]*string {
	return map[string]*string{
		FieldFirstName:   pointer.To(p.FirstName),
		FieldLastName:    pointer.To(p.LastName),
		FieldPatronymic:  p.Patronymic,
		FieldMaidenName:  p.MaidenName,
		FieldGender:      p.Gender,
		FieldBirthDate:   p.BirthDate,
		FieldBirthPlace:  p.BirthPlace,
		FieldDeathDate:   p.DeathDate,
		FieldDeathPlace:  p.DeathPlace,
		FieldBurialPlace: p.BurialPlace,
		FieldResidence:   p.Residence,
	}
}

// # Inputs

// Input is the body of create and update requests. On update a nil field is left unchanged
// and an empty string clears an optional field.
type Input struct {
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
	Patronymic  *string `json:"patronymic"`
	MaidenName  *string `json:"maiden_name"`
	Gender      *string `json:"gender"`
	BirthDate   *string `json:"birth_date"`
	BirthPlace  *string `json:"birth_place"`
	DeathDate   *string `json:"death_date"`
	DeathPlace  *string `json:"death_place"`
	BurialPlace *string `json:"burial_place"`
	Residence   *string `json:"residence"`
}

// Values returns the supplied fields keyed by name. Blank optional values become nil.
func (input Input) Values() map[string]*string {
	supplied := map[string]*string{
		FieldFirstName:   input.FirstName,
		FieldLastName:    input.LastName,
		FieldPatronymic:  input.Patronymic,
		FieldMaidenName:  input.MaidenName,
		FieldGender:      input.Gender,
		FieldBirthDate:   input.BirthDate,
		FieldBirthPlace:  input.BirthPlace,
		FieldDeathDate:   input.DeathDate,
		FieldDeathPlace:  input.DeathPlace,
		FieldBurialPlace: input.BurialPlace,
		FieldResidence:   input.Residence,
	}

	values := make(map[string]*string, len(supplied))
	for field, value := range supplied {
		if value == nil {
			continue
		}
		values[field] = normalize(*value)
	}
	return values
}

func normalize(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}
