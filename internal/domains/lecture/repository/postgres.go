package repository

import (
	"context"
	"errors"
	"fmt"
	"iter"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"lecture-backend/internal/domains/lecture/model"
	"lecture-backend/internal/shared/utils"
	"lecture-backend/pkg/database"
)

// =====================================================
// POSTGRES REPOSITORY IMPLEMENTATION
// =====================================================

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

// conn dùng transaction trong ctx nếu có (create lecture + account)
func (r *postgresRepository) conn(ctx context.Context) database.Querier {
	return database.Conn(ctx, r.pool)
}

const selectColumns = `
	id, version, name,
	instructor_first_name, instructor_last_name,
	room_building, room_number,
	username, created_at, updated_at`

var columns = map[model.Field]string{
	model.FieldID:                 "id",
	model.FieldName:               "name",
	model.FieldInstructorLastName: "instructor_last_name",
	model.FieldRoomNumber:         "room_number",
	model.FieldRoomBuilding:       "room_building",
	model.FieldUsername:           "username",
}

// buildWhere renders criteria as a conjunctive WHERE clause
func buildWhere(criteria []*model.Criterion, argOffset int) (string, []any, error) {
	if len(criteria) == 0 {
		return "", nil, nil
	}

	clauses := make([]string, 0, len(criteria))
	args := make([]any, 0, len(criteria))
	for _, c := range criteria {
		column, ok := columns[c.Field]
		if !ok {
			return "", nil, fmt.Errorf("unsupported field %q", c.Field)
		}

		if c.Field == model.FieldID {
			id, err := uuid.Parse(c.Value)
			if err != nil || c.Op != model.OpEquals {
				clauses = append(clauses, "FALSE")
				continue
			}
			args = append(args, id)
			clauses = append(clauses, fmt.Sprintf("%s = $%d", column, argOffset+len(args)))
			continue
		}

		switch c.Op {
		case model.OpEquals:
			args = append(args, c.Value)
			clauses = append(clauses, fmt.Sprintf("%s = $%d", column, argOffset+len(args)))
		case model.OpContains:
			args = append(args, "%"+utils.EscapeLike(c.Value)+"%")
			clauses = append(clauses, fmt.Sprintf("%s ILIKE $%d", column, argOffset+len(args)))
		case model.OpHasPrefix:
			args = append(args, utils.EscapeLike(c.Value)+"%")
			clauses = append(clauses, fmt.Sprintf("%s ILIKE $%d", column, argOffset+len(args)))
		default:
			return "", nil, fmt.Errorf("unsupported operator %d", c.Op)
		}
	}

	return " WHERE " + utils.JoinWithAnd(clauses), args, nil
}

func scanLecture(row pgx.Row) (*model.Lecture, error) {
	var l model.Lecture
	err := row.Scan(
		&l.ID,
		&l.Version,
		&l.Name,
		&l.Instructor.FirstName,
		&l.Instructor.LastName,
		&l.Room.Building,
		&l.Room.RoomNumber,
		&l.Username,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// =====================================================
// READ
// =====================================================

func (r *postgresRepository) FindOne(ctx context.Context, criteria ...*model.Criterion) (*model.Lecture, error) {
	where, args, err := buildWhere(criteria, 0)
	if err != nil {
		return nil, err
	}

	query := "SELECT" + selectColumns + " FROM lectures" + where + " ORDER BY created_at, id LIMIT 1"
	l, err := scanLecture(r.conn(ctx).QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrLectureNotFound
		}
		return nil, fmt.Errorf("failed to find lecture: %w", err)
	}
	return l, nil
}

func (r *postgresRepository) FindAll(ctx context.Context, criteria ...*model.Criterion) ([]*model.Lecture, error) {
	lectures := make([]*model.Lecture, 0)
	for l, err := range r.Stream(ctx, criteria...) {
		if err != nil {
			return nil, err
		}
		lectures = append(lectures, l)
	}
	return lectures, nil
}

func (r *postgresRepository) Stream(ctx context.Context, criteria ...*model.Criterion) iter.Seq2[*model.Lecture, error] {
	return func(yield func(*model.Lecture, error) bool) {
		where, args, err := buildWhere(criteria, 0)
		if err != nil {
			yield(nil, err)
			return
		}

		query := "SELECT" + selectColumns + " FROM lectures" + where + " ORDER BY created_at, id"
		rows, err := r.conn(ctx).Query(ctx, query, args...)
		if err != nil {
			yield(nil, fmt.Errorf("failed to query lectures: %w", err))
			return
		}
		defer rows.Close()

		for rows.Next() {
			l, err := scanLecture(rows)
			if err != nil {
				yield(nil, fmt.Errorf("failed to scan lecture: %w", err))
				return
			}
			if !yield(l, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(nil, fmt.Errorf("failed to iterate lectures: %w", err))
		}
	}
}

func (r *postgresRepository) Exists(ctx context.Context, criteria ...*model.Criterion) (bool, error) {
	where, args, err := buildWhere(criteria, 0)
	if err != nil {
		return false, err
	}

	var exists bool
	query := "SELECT EXISTS (SELECT 1 FROM lectures" + where + ")"
	if err := r.conn(ctx).QueryRow(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check lecture existence: %w", err)
	}
	return exists, nil
}

// =====================================================
// WRITE
// =====================================================

func (r *postgresRepository) Insert(ctx context.Context, lecture *model.Lecture) (*model.Lecture, error) {
	id := lecture.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	query := `
		INSERT INTO lectures (
			id, version, name,
			instructor_first_name, instructor_last_name,
			room_building, room_number, username
		) VALUES ($1, 0, $2, $3, $4, $5, $6, $7)
		RETURNING` + selectColumns

	l, err := scanLecture(r.conn(ctx).QueryRow(ctx, query,
		id,
		lecture.Name,
		lecture.Instructor.FirstName,
		lecture.Instructor.LastName,
		lecture.Room.Building,
		lecture.Room.RoomNumber,
		lecture.Username,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, model.NewNameExistsError(lecture.Name)
		}
		return nil, fmt.Errorf("failed to insert lecture: %w", err)
	}
	return l, nil
}

// CompareAndSwap is a single conditional UPDATE; the version check and the
// increment happen atomically inside Postgres.
func (r *postgresRepository) CompareAndSwap(ctx context.Context, lecture *model.Lecture, expectedVersion int) (*model.Lecture, error) {
	query := `
		UPDATE lectures SET
			name = $3,
			instructor_first_name = $4,
			instructor_last_name = $5,
			room_building = $6,
			room_number = $7,
			version = version + 1,
			updated_at = NOW()
		WHERE id = $1 AND version = $2
		RETURNING` + selectColumns

	l, err := scanLecture(r.conn(ctx).QueryRow(ctx, query,
		lecture.ID,
		expectedVersion,
		lecture.Name,
		lecture.Instructor.FirstName,
		lecture.Instructor.LastName,
		lecture.Room.Building,
		lecture.Room.RoomNumber,
	))
	if err == nil {
		return l, nil
	}
	if isUniqueViolation(err) {
		return nil, model.NewNameExistsError(lecture.Name)
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to update lecture: %w", err)
	}

	// no row updated: unknown id or stale version
	exists, err := r.Exists(ctx, model.ByID(lecture.ID))
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, model.ErrLectureNotFound
	}
	return nil, model.ErrOptimisticLock
}

func (r *postgresRepository) RemoveMatching(ctx context.Context, criteria ...*model.Criterion) (int64, error) {
	where, args, err := buildWhere(criteria, 0)
	if err != nil {
		return 0, err
	}

	tag, err := r.conn(ctx).Exec(ctx, "DELETE FROM lectures"+where, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete lectures: %w", err)
	}
	return tag.RowsAffected(), nil
}

// =====================================================
// VALUES
// =====================================================

func (r *postgresRepository) FindNamesByPrefix(ctx context.Context, prefix string) ([]string, error) {
	query := `
		SELECT DISTINCT name FROM lectures
		WHERE name ILIKE $1
		ORDER BY name`

	rows, err := r.conn(ctx).Query(ctx, query, utils.EscapeLike(prefix)+"%")
	if err != nil {
		return nil, fmt.Errorf("failed to query names: %w", err)
	}

	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to collect names: %w", err)
	}
	return names, nil
}

func (r *postgresRepository) FindVersionByID(ctx context.Context, id uuid.UUID) (int, error) {
	var version int
	err := r.conn(ctx).QueryRow(ctx, "SELECT version FROM lectures WHERE id = $1", id).Scan(&version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, model.ErrLectureNotFound
		}
		return 0, fmt.Errorf("failed to find version: %w", err)
	}
	return version, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
