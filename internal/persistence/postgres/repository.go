// Package postgres provides pgx-backed persistence for the exercise catalog.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jtylerm/PTExerciseApp/internal/domain"
)

const recordColumns = "id, name, exercise_type, muscle, equipment, difficulty, instructions, is_favorited, last_updated, created_at"

// Repository provides Postgres-backed persistence for exercise records.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// List returns records matching the filter ordered by id.
func (r *Repository) List(ctx context.Context, filter domain.Filter) ([]domain.ExerciseRecord, error) {
	query := "SELECT " + recordColumns + " FROM exercises"
	var (
		clauses []string
		args    []interface{}
	)
	addClause := func(clause string, value interface{}) {
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf(clause, len(args)))
	}

	if filter.Search != "" {
		addClause("name ILIKE '%%' || $%d || '%%'", filter.Search)
	}
	if filter.Type != "" {
		addClause("exercise_type = $%d", filter.Type)
	}
	if filter.Muscle != "" {
		addClause("muscle = $%d", filter.Muscle)
	}
	if filter.Equipment != "" {
		addClause("equipment = $%d", filter.Equipment)
	}
	if filter.Difficulty != "" {
		addClause("difficulty = $%d", filter.Difficulty)
	}
	if filter.Favorited {
		clauses = append(clauses, "is_favorited")
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}

	query += " ORDER BY id"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.ExerciseRecord
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// Get retrieves a record by id, returning nil when absent.
func (r *Repository) Get(ctx context.Context, id int64) (*domain.ExerciseRecord, error) {
	return r.queryOne(ctx, "SELECT "+recordColumns+" FROM exercises WHERE id = $1", id)
}

// FindByName retrieves a record by exact name, returning nil when absent.
// The comparison is case-sensitive.
func (r *Repository) FindByName(ctx context.Context, name string) (*domain.ExerciseRecord, error) {
	return r.queryOne(ctx, "SELECT "+recordColumns+" FROM exercises WHERE name = $1", name)
}

// Create inserts a record and returns it with the store-assigned id.
func (r *Repository) Create(ctx context.Context, record domain.ExerciseRecord) (domain.ExerciseRecord, error) {
	const stmt = `INSERT INTO exercises (name, exercise_type, muscle, equipment, difficulty, instructions, is_favorited, created_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8) RETURNING id`

	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return domain.ExerciseRecord{}, err
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, stmt,
		record.Name,
		record.Type,
		record.Muscle,
		record.Equipment,
		record.Difficulty,
		record.Instructions,
		record.IsFavorited,
		record.CreatedAt,
	)
	if err := row.Scan(&record.ID); err != nil {
		if isUniqueViolation(err) {
			return domain.ExerciseRecord{}, domain.ErrDuplicateName
		}
		return domain.ExerciseRecord{}, err
	}
	return record, nil
}

// Update replaces the mutable fields of an existing record.
func (r *Repository) Update(ctx context.Context, record domain.ExerciseRecord) error {
	const stmt = `UPDATE exercises
        SET name=$2, exercise_type=$3, muscle=$4, equipment=$5, difficulty=$6, instructions=$7, last_updated=$8
        WHERE id=$1`

	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, stmt,
		record.ID,
		record.Name,
		record.Type,
		record.Muscle,
		record.Equipment,
		record.Difficulty,
		record.Instructions,
		record.LastUpdated,
	)
	if isUniqueViolation(err) {
		return domain.ErrDuplicateName
	}
	return err
}

// Delete removes a record by id.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, "DELETE FROM exercises WHERE id = $1", id)
	return err
}

// ToggleFavorite atomically inverts the favorite flag and stamps the
// modification time, returning the updated record or nil when absent.
func (r *Repository) ToggleFavorite(ctx context.Context, id int64, at time.Time) (*domain.ExerciseRecord, error) {
	const stmt = `UPDATE exercises
        SET is_favorited = NOT is_favorited, last_updated = $2
        WHERE id = $1
        RETURNING ` + recordColumns

	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	record, err := scanRecord(conn.QueryRow(ctx, stmt, id, at))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (r *Repository) queryOne(ctx context.Context, query string, arg interface{}) (*domain.ExerciseRecord, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	record, err := scanRecord(conn.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func scanRecord(row pgx.Row) (domain.ExerciseRecord, error) {
	var record domain.ExerciseRecord
	err := row.Scan(
		&record.ID,
		&record.Name,
		&record.Type,
		&record.Muscle,
		&record.Equipment,
		&record.Difficulty,
		&record.Instructions,
		&record.IsFavorited,
		&record.LastUpdated,
		&record.CreatedAt,
	)
	return record, err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
