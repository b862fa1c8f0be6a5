package model

import (
	"errors"
	"regexp"
	"sort"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	namePart = `[A-ZÄÖÜ][a-zäöüß]+`
)

var (
	lectureNamePattern = regexp.MustCompile(`^[\w\s]+$`)
	firstNamePattern   = regexp.MustCompile(`^` + namePart + `$`)
	lastNamePattern    = regexp.MustCompile(`^((o'|von|von der|von und zu|van) ?)?` + namePart + `(-` + namePart + `)?$`)
	buildingPattern    = regexp.MustCompile(`^[A-ZÄÖÜ]$`)
	roomNumberPattern  = regexp.MustCompile(`^\d{3}$`)
)

func (l Lecture) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.Name,
			validation.Required.Error("name is required"),
			validation.Match(lectureNamePattern).Error("name may only contain letters, digits, underscores and spaces"),
		),
		validation.Field(&l.Instructor),
		validation.Field(&l.Room),
	)
}

func (i Instructor) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.FirstName,
			validation.Required.Error("first name is required"),
			validation.Match(firstNamePattern).Error("first name must start with an uppercase letter followed by lowercase letters"),
		),
		validation.Field(&i.LastName,
			validation.Required.Error("last name is required"),
			validation.Match(lastNamePattern).Error("last name must be a capitalized name, optionally prefixed and hyphenated"),
		),
	)
}

func (r Room) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Building,
			validation.Required.Error("building is required"),
			validation.Match(buildingPattern).Error("building must be a single uppercase letter"),
		),
		validation.Field(&r.RoomNumber,
			validation.Required.Error("room number is required"),
			validation.Match(roomNumberPattern).Error("room number must have exactly 3 digits"),
		),
	)
}

// ValidateLecture runs every rule and reports all violations at once
func ValidateLecture(l *Lecture) error {
	err := l.Validate()
	if err == nil {
		return nil
	}

	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		// internal rule error, not a violation
		return err
	}

	violations := flatten("", verrs, nil)
	sort.Slice(violations, func(i, j int) bool {
		return violations[i].Property < violations[j].Property
	})
	return &ConstraintViolationError{Violations: violations}
}

// flatten turns nested ozzo errors into dotted property paths
func flatten(prefix string, errs validation.Errors, out []Violation) []Violation {
	for field, err := range errs {
		path := field
		if prefix != "" {
			path = prefix + "." + field
		}

		var nested validation.Errors
		if errors.As(err, &nested) {
			out = flatten(path, nested, out)
			continue
		}
		out = append(out, Violation{Property: path, Message: err.Error()})
	}
	return out
}
