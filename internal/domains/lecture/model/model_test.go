package model

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validLecture() *Lecture {
	return &Lecture{
		Name:       "Mathematik",
		Instructor: Instructor{FirstName: "Thomas", LastName: "Morgenstern"},
		Room:       Room{Building: "M", RoomNumber: "304"},
	}
}

// =====================================================
// CRITERIA
// =====================================================

func TestBuildCriteria_KnownKeys(t *testing.T) {
	criteria := BuildCriteria(map[string][]string{
		"room.building":       {"m"},
		"name":                {"math"},
		"instructor.lastName": {"stern"},
		"room.number":         {"30"},
	})

	require.Len(t, criteria, 4)
	assert.Equal(t, Contains(FieldInstructorLastName, "stern"), criteria[0])
	assert.Equal(t, Contains(FieldName, "math"), criteria[1])
	assert.Equal(t, Contains(FieldRoomBuilding, "m"), criteria[2])
	assert.Equal(t, Contains(FieldRoomNumber, "30"), criteria[3])
	assert.False(t, HasInvalid(criteria))
}

func TestBuildCriteria_InvalidEntries(t *testing.T) {
	tests := []struct {
		name   string
		params map[string][]string
	}{
		{"unknown key", map[string][]string{"semester": {"1"}}},
		{"two values", map[string][]string{"name": {"a", "b"}}},
		{"no value", map[string][]string{"name": {}}},
		{"mixed", map[string][]string{"name": {"a"}, "foo": {"b"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			criteria := BuildCriteria(tt.params)
			assert.Len(t, criteria, len(tt.params))
			assert.True(t, HasInvalid(criteria))
		})
	}
}

func TestBuildCriteria_Empty(t *testing.T) {
	assert.Empty(t, BuildCriteria(map[string][]string{}))
}

func TestCriterion_Matches(t *testing.T) {
	l := validLecture()
	l.ID = uuid.New()
	owner := "admin"
	l.Username = &owner

	assert.True(t, Contains(FieldName, "MATHE").Matches(l))
	assert.True(t, Contains(FieldInstructorLastName, "gen").Matches(l))
	assert.True(t, HasPrefix(FieldName, "mat").Matches(l))
	assert.False(t, HasPrefix(FieldName, "the").Matches(l))
	assert.True(t, Equals(FieldName, "Mathematik").Matches(l))
	assert.False(t, Equals(FieldName, "mathematik").Matches(l))
	assert.True(t, ByID(l.ID).Matches(l))
	assert.True(t, Equals(FieldUsername, "admin").Matches(l))

	l.Username = nil
	assert.False(t, Equals(FieldUsername, "").Matches(l))
}

func TestMatchesAll(t *testing.T) {
	l := validLecture()
	assert.True(t, MatchesAll(l, nil))
	assert.True(t, MatchesAll(l, []*Criterion{Contains(FieldName, "math"), Contains(FieldRoomBuilding, "m")}))
	assert.False(t, MatchesAll(l, []*Criterion{Contains(FieldName, "math"), Contains(FieldRoomNumber, "999")}))
}

// =====================================================
// VALIDATION
// =====================================================

func TestValidateLecture_Valid(t *testing.T) {
	assert.NoError(t, ValidateLecture(validLecture()))

	l := validLecture()
	l.Name = "allgemeine BWL"
	l.Instructor = Instructor{FirstName: "Karl", LastName: "Dübon"}
	assert.NoError(t, ValidateLecture(l))

	l.Instructor.LastName = "von der Heide-Müller"
	assert.NoError(t, ValidateLecture(l))
}

func TestValidateLecture_CollectsAllViolations(t *testing.T) {
	l := &Lecture{
		Name:       "Mathe!",
		Instructor: Instructor{FirstName: "thomas", LastName: ""},
		Room:       Room{Building: "MM", RoomNumber: "30"},
	}

	err := ValidateLecture(l)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConstraintViolation))

	var cv *ConstraintViolationError
	require.True(t, errors.As(err, &cv))

	properties := make([]string, 0, len(cv.Violations))
	for _, v := range cv.Violations {
		properties = append(properties, v.Property)
		assert.NotEmpty(t, v.Message)
	}
	assert.Equal(t, []string{
		"instructor.first_name",
		"instructor.last_name",
		"name",
		"room.building",
		"room.room_number",
	}, properties)
}

func TestValidateLecture_RequiredFields(t *testing.T) {
	err := ValidateLecture(&Lecture{})

	var cv *ConstraintViolationError
	require.True(t, errors.As(err, &cv))
	assert.Len(t, cv.Violations, 5)
}

// =====================================================
// ERRORS & HELPERS
// =====================================================

func TestErrors_Unwrap(t *testing.T) {
	assert.True(t, errors.Is(NewLectureNotFoundError("x"), ErrLectureNotFound))
	assert.True(t, errors.Is(NewPreconditionFailedError(0), ErrPreconditionFailed))
	assert.True(t, errors.Is(NewInvalidVersionError("x"), ErrInvalidVersion))
	assert.True(t, errors.Is(NewStoreUnavailableError(errors.New("deadline")), ErrStoreUnavailable))
	assert.True(t, errors.Is(&AccessForbiddenError{Roles: []string{"lecture"}}, ErrAccessForbidden))

	assert.Contains(t, NewPreconditionFailedError(0).Error(), "0")
	assert.Contains(t, NewInvalidVersionError("x").Error(), "x")
	assert.NotEqual(t, NewPreconditionFailedError(0).Error(), NewInvalidVersionError("0").Error())
}

func TestLecture_CloneAndOwnership(t *testing.T) {
	owner := "admin"
	l := validLecture()
	l.Username = &owner

	c := l.Clone()
	*c.Username = "other"
	assert.Equal(t, "admin", *l.Username)

	assert.True(t, l.OwnedBy("admin"))
	assert.False(t, l.OwnedBy("other"))
	assert.Equal(t, `"0"`, l.ETag())
}
