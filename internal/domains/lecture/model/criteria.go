package model

import (
	"sort"
	"strings"

	"github.com/google/uuid"
)

// Field names a searchable attribute of a lecture
type Field string

const (
	FieldID                 Field = "id"
	FieldName               Field = "name"
	FieldInstructorLastName Field = "instructor.last_name"
	FieldRoomNumber         Field = "room.room_number"
	FieldRoomBuilding       Field = "room.building"
	FieldUsername           Field = "username"
)

type Operator int

const (
	OpEquals    Operator = iota // exact, case-sensitive
	OpContains                  // case-insensitive substring
	OpHasPrefix                 // case-insensitive prefix
)

// Criterion is a single store predicate. A slice of criteria is a conjunction.
type Criterion struct {
	Field Field
	Op    Operator
	Value string
}

func Equals(field Field, value string) *Criterion {
	return &Criterion{Field: field, Op: OpEquals, Value: value}
}

func Contains(field Field, value string) *Criterion {
	return &Criterion{Field: field, Op: OpContains, Value: value}
}

func HasPrefix(field Field, value string) *Criterion {
	return &Criterion{Field: field, Op: OpHasPrefix, Value: value}
}

func ByID(id uuid.UUID) *Criterion {
	return Equals(FieldID, id.String())
}

func ByName(name string) *Criterion {
	return Equals(FieldName, name)
}

// Matches evaluates the predicate in memory
func (c *Criterion) Matches(l *Lecture) bool {
	actual, ok := c.Field.valueOf(l)
	if !ok {
		return false
	}

	switch c.Op {
	case OpEquals:
		return actual == c.Value
	case OpContains:
		return strings.Contains(strings.ToLower(actual), strings.ToLower(c.Value))
	case OpHasPrefix:
		return strings.HasPrefix(strings.ToLower(actual), strings.ToLower(c.Value))
	default:
		return false
	}
}

// MatchesAll reports whether l satisfies every criterion
func MatchesAll(l *Lecture, criteria []*Criterion) bool {
	for _, c := range criteria {
		if !c.Matches(l) {
			return false
		}
	}
	return true
}

func (f Field) valueOf(l *Lecture) (string, bool) {
	switch f {
	case FieldID:
		return l.ID.String(), true
	case FieldName:
		return l.Name, true
	case FieldInstructorLastName:
		return l.Instructor.LastName, true
	case FieldRoomNumber:
		return l.Room.RoomNumber, true
	case FieldRoomBuilding:
		return l.Room.Building, true
	case FieldUsername:
		if l.Username == nil {
			return "", false
		}
		return *l.Username, true
	default:
		return "", false
	}
}

// =====================================================
// QUERY PARAMETER CRITERIA
// =====================================================

// queryFields maps public query keys to searchable fields
var queryFields = map[string]Field{
	"name":                FieldName,
	"instructor.lastName": FieldInstructorLastName,
	"room.number":         FieldRoomNumber,
	"room.building":       FieldRoomBuilding,
}

// BuildCriteria turns query parameters into criteria, one entry per key in
// sorted key order. Unknown keys and keys without exactly one value yield a
// nil entry, which callers treat as "no results".
func BuildCriteria(params map[string][]string) []*Criterion {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	criteria := make([]*Criterion, 0, len(keys))
	for _, key := range keys {
		criteria = append(criteria, criterionFor(key, params[key]))
	}
	return criteria
}

func criterionFor(key string, values []string) *Criterion {
	if len(values) != 1 {
		return nil
	}
	field, ok := queryFields[key]
	if !ok {
		return nil
	}
	return Contains(field, values[0])
}

// HasInvalid reports whether BuildCriteria produced a nil entry
func HasInvalid(criteria []*Criterion) bool {
	for _, c := range criteria {
		if c == nil {
			return true
		}
	}
	return false
}
