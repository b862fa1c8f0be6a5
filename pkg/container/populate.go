package container

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	lectureModel "lecture-backend/internal/domains/lecture/model"
	lectureRepo "lecture-backend/internal/domains/lecture/repository"
	"lecture-backend/pkg/database"
)

// populate resets the development database to the seed data set
func (c *Container) populate(ctx context.Context) error {
	log.Println("🌱 Populating development database...")

	hash, err := bcrypt.GenerateFromPassword([]byte(c.Config.Database.SeedPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash seed password: %w", err)
	}

	seeds := lectureRepo.SeedLectures()

	err = database.WithTransaction(ctx, c.DB.Pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `TRUNCATE lectures, accounts`); err != nil {
			return fmt.Errorf("truncate: %w", err)
		}

		if _, err := tx.Exec(ctx,
			`INSERT INTO accounts (username, password_hash, roles) VALUES ($1, $2, $3)`,
			lectureRepo.SeedOwner, string(hash), []string{lectureModel.RoleAdmin, lectureModel.RoleLecture},
		); err != nil {
			return fmt.Errorf("seed account: %w", err)
		}

		batch := &pgx.Batch{}
		for _, l := range seeds {
			batch.Queue(`
				INSERT INTO lectures (
					id, version, name,
					instructor_first_name, instructor_last_name,
					room_building, room_number, username
				) VALUES ($1, 0, $2, $3, $4, $5, $6, $7)`,
				l.ID, l.Name,
				l.Instructor.FirstName, l.Instructor.LastName,
				l.Room.Building, l.Room.RoomNumber, l.Username,
			)
		}
		return tx.SendBatch(ctx, batch).Close()
	})
	if err != nil {
		return err
	}

	// cached roles may belong to truncated accounts
	if err := c.Cache.DeletePattern(ctx, "roles:*"); err != nil {
		log.Printf("⚠️  Failed to clear roles cache: %v", err)
	}

	log.Printf("✅ Seeded %d lectures owned by %q", len(seeds), lectureRepo.SeedOwner)
	return nil
}
