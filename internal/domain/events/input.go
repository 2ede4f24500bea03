package events

import (
	"time"

	"github.com/eventbook/server/internal/sanitize"
	"github.com/eventbook/server/internal/validation"
)

// CreateInput is the POST /events request body.
type CreateInput struct {
	Title       string  `json:"title" validate:"required,min=1,max=200"`
	DateTime    string  `json:"dateTime" validate:"required"`
	Location    string  `json:"location" validate:"required,min=1,max=300"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
}

// UpdateInput is the PUT /events/{id} body: every field optional, absent
// fields preserve the stored value.
type UpdateInput struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=200"`
	DateTime    *string `json:"dateTime"`
	Location    *string `json:"location" validate:"omitempty,min=1,max=300"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
}

// validateCreate checks every constraint and reports all violations at once.
func validateCreate(input CreateInput) (time.Time, *validation.Error) {
	verr := validation.Struct(input)
	fields := map[string]string{}
	if verr != nil {
		fields = verr.Fields
	}

	occursAt, err := parseDateTime(input.DateTime)
	if err != nil && input.DateTime != "" {
		fields["dateTime"] = "must be an RFC 3339 timestamp"
	}

	if len(fields) > 0 {
		return time.Time{}, validation.NewError(fields)
	}
	return occursAt, nil
}

// validateUpdate checks only the supplied fields and builds the merge patch.
func validateUpdate(input UpdateInput) (Patch, *validation.Error) {
	verr := validation.Struct(input)
	fields := map[string]string{}
	if verr != nil {
		fields = verr.Fields
	}

	// omitempty skips supplied-but-empty values, so reject those here. A
	// supplied empty description is fine: it clears the field.
	if input.Title != nil && *input.Title == "" {
		fields["title"] = "must not be empty"
	}
	if input.Location != nil && *input.Location == "" {
		fields["location"] = "must not be empty"
	}

	patch := Patch{
		Title:       input.Title,
		Location:    input.Location,
		Description: input.Description,
	}
	if input.DateTime != nil {
		occursAt, err := parseDateTime(*input.DateTime)
		if err != nil {
			fields["dateTime"] = "must be an RFC 3339 timestamp"
		} else {
			patch.OccursAt = &occursAt
		}
	}

	if len(fields) > 0 {
		return Patch{}, validation.NewError(fields)
	}
	return patch, nil
}

func parseDateTime(value string) (time.Time, error) {
	return time.Parse(time.RFC3339, value)
}

func sanitizePatch(patch Patch) Patch {
	if patch.Title != nil {
		clean := sanitize.Text(*patch.Title)
		patch.Title = &clean
	}
	if patch.Location != nil {
		clean := sanitize.Text(*patch.Location)
		patch.Location = &clean
	}
	if patch.Description != nil {
		clean := sanitize.HTML(*patch.Description)
		patch.Description = &clean
	}
	return patch
}
