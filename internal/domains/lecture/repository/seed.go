package repository

import (
	"fmt"

	"github.com/google/uuid"

	"lecture-backend/internal/domains/lecture/model"
)

// SeedOwner owns every seeded lecture
const SeedOwner = "admin"

// SeedLectures returns the development data set with fixed ids
// 00000000-0000-0000-0000-00000000000N
func SeedLectures() []*model.Lecture {
	rows := []struct {
		name, first, last, building, number string
	}{
		{"Rechnungswesen", "Michael", "Reichardt", "M", "310"},
		{"Mathematik", "Thomas", "Morgenstern", "M", "304"},
		{"allgemeine BWL", "Karl", "Dübon", "M", "306"},
		{"Programmieren", "Udo", "Müller", "M", "301"},
		{"Datenbanken", "Andreas", "Schmidt", "M", "210"},
		{"Volkswirtschaftslehre", "Michael", "Reichardt", "M", "206"},
	}

	lectures := make([]*model.Lecture, 0, len(rows))
	for i, r := range rows {
		owner := SeedOwner
		lectures = append(lectures, &model.Lecture{
			ID:         uuid.MustParse(fmt.Sprintf("00000000-0000-0000-0000-%012d", i+1)),
			Name:       r.name,
			Instructor: model.Instructor{FirstName: r.first, LastName: r.last},
			Room:       model.Room{Building: r.building, RoomNumber: r.number},
			Username:   &owner,
		})
	}
	return lectures
}
