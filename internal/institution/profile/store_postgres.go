// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package profile

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/taibuivan/campusdir/internal/platform/database/schema"
	"github.com/taibuivan/campusdir/internal/platform/dberr"
	"github.com/taibuivan/campusdir/internal/platform/postgres"
	"github.com/taibuivan/campusdir/pkg/uuid"
)

// PostgresRepository implements [Repository] on directory.profile.
//
// Schools are stored as TEXT[], courses and social links as JSONB. Unique
// indexes on accountid and handle back the conditional insert.
type PostgresRepository struct {
	db postgres.Querier
}

// NewPostgresRepository creates a PostgreSQL-backed profile repository.
func NewPostgresRepository(db postgres.Querier) *PostgresRepository {
	return &PostgresRepository{db: db}
}

var _ Repository = (*PostgresRepository)(nil)

var (
	table = schema.Profile

	profileColumns = strings.Join(table.Columns(), ", ")

	selectProfile = fmt.Sprintf(`SELECT %s FROM %s`, profileColumns, table.Table)
)

// # Reads

// FindByAccount implements [Repository]. Malformed ids match nothing.
func (repository *PostgresRepository) FindByAccount(context context.Context, accountID string) (*Profile, error) {
	if !uuid.Valid(accountID) {
		return nil, nil
	}
	query := selectProfile + fmt.Sprintf(` WHERE %s = $1`, table.AccountID)
	return repository.findOne(context, "find_by_account", query, accountID)
}

// FindByHandle implements [Repository].
func (repository *PostgresRepository) FindByHandle(context context.Context, handle string) (*Profile, error) {
	query := selectProfile + fmt.Sprintf(` WHERE %s = $1`, table.Handle)
	return repository.findOne(context, "find_by_handle", query, handle)
}

// List implements [Repository].
func (repository *PostgresRepository) List(context context.Context) ([]*Profile, error) {
	query := selectProfile + fmt.Sprintf(` ORDER BY %s DESC, %s DESC`, table.CreatedAt, table.ID)

	rows, err := repository.db.Query(context, query)
	if err != nil {
		return nil, dberr.Wrap(fmt.Errorf("postgres_profile_repo_list_failed: %w", err))
	}
	defer rows.Close()

	profiles := []*Profile{}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, dberr.Wrap(fmt.Errorf("postgres_profile_repo_list_scan_failed: %w", err))
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(fmt.Errorf("postgres_profile_repo_list_failed: %w", err))
	}

	return profiles, nil
}

// # Writes

/*
Upsert implements [Repository].

Description: Reads the current row, then either updates it or inserts a new
row. Unique violations are classified by constraint name: a handle clash is
[ErrHandleTaken], an account clash means a concurrent creator won and the
write is retried once as an update.
*/
func (repository *PostgresRepository) Upsert(context context.Context, accountID string, fields Fields) (*Profile, error) {
	existing, err := repository.FindByAccount(context, accountID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return repository.update(context, existing, fields)
	}

	if fields.Handle != nil {
		owner, err := repository.FindByHandle(context, *fields.Handle)
		if err != nil {
			return nil, err
		}
		if owner != nil {
			return nil, ErrHandleTaken
		}
	}

	created, err := NewProfile(accountID, fields, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	err = repository.insert(context, created)
	if err == nil {
		return created, nil
	}

	constraint, unique := dberr.UniqueViolation(err)
	switch {
	case unique && constraint == table.HandleKey:
		return nil, ErrHandleTaken
	case unique && constraint == table.AccountIDKey:
		existing, err := repository.FindByAccount(context, accountID)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, ErrProfileNotFound
		}
		return repository.update(context, existing, fields)
	default:
		return nil, dberr.Wrap(fmt.Errorf("postgres_profile_repo_insert_failed: %w", err))
	}
}

// DeleteByAccount implements [Repository].
func (repository *PostgresRepository) DeleteByAccount(context context.Context, accountID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, table.Table, table.AccountID)

	if _, err := repository.db.Exec(context, query, accountID); err != nil {
		return dberr.Wrap(fmt.Errorf("postgres_profile_repo_delete_failed: %w", err))
	}
	return nil
}

// AddCourse implements [Repository]. The prepend happens in a single statement.
func (repository *PostgresRepository) AddCourse(context context.Context, accountID string, course Course) (*Profile, error) {
	query := fmt.Sprintf(`
		UPDATE %[1]s
		SET %[2]s = $2::jsonb || %[2]s, %[3]s = NOW()
		WHERE %[4]s = $1
		RETURNING %[5]s`,
		table.Table, table.Courses, table.UpdatedAt, table.AccountID, profileColumns)

	return repository.mutate(context, "add_course", query, accountID, []Course{course})
}

// RemoveCourse implements [Repository]. The remaining courses keep their order.
func (repository *PostgresRepository) RemoveCourse(context context.Context, accountID, courseID string) (*Profile, error) {
	query := fmt.Sprintf(`
		UPDATE %[1]s
		SET %[2]s = COALESCE((
			SELECT jsonb_agg(entry ORDER BY position)
			FROM jsonb_array_elements(%[2]s) WITH ORDINALITY AS e(entry, position)
			WHERE entry->>'id' <> $2
		), '[]'::jsonb)
		WHERE %[3]s = $1
		RETURNING %[4]s`,
		table.Table, table.Courses, table.AccountID, profileColumns)

	return repository.mutate(context, "remove_course", query, accountID, courseID)
}

// # Internals

func (repository *PostgresRepository) insert(context context.Context, p *Profile) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		table.Table, profileColumns)

	_, err := repository.db.Exec(context, query,
		p.ID,
		p.AccountID,
		p.Handle,
		p.Website,
		p.Location,
		p.Schools,
		p.Courses,
		p.Social,
		p.CreatedAt,
		p.UpdatedAt,
	)
	return err
}

func (repository *PostgresRepository) update(context context.Context, existing *Profile, fields Fields) (*Profile, error) {
	existing.Apply(fields, time.Now().UTC())

	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7
		WHERE %s = $1`,
		table.Table,
		table.Handle, table.Website, table.Location, table.Schools, table.Social, table.UpdatedAt,
		table.AccountID)

	tag, err := repository.db.Exec(context, query,
		existing.AccountID,
		existing.Handle,
		existing.Website,
		existing.Location,
		existing.Schools,
		existing.Social,
		existing.UpdatedAt,
	)
	if err != nil {
		if constraint, ok := dberr.UniqueViolation(err); ok && constraint == table.HandleKey {
			return nil, ErrHandleTaken
		}
		return nil, dberr.Wrap(fmt.Errorf("postgres_profile_repo_update_failed: %w", err))
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrProfileNotFound
	}

	return existing, nil
}

func (repository *PostgresRepository) mutate(context context.Context, op, query string, args ...any) (*Profile, error) {
	p, err := scanProfile(repository.db.QueryRow(context, query, args...))
	if err != nil {
		if dberr.IsNoRows(err) {
			return nil, ErrProfileNotFound
		}
		return nil, dberr.Wrap(fmt.Errorf("postgres_profile_repo_%s_failed: %w", op, err))
	}
	return p, nil
}

func (repository *PostgresRepository) findOne(context context.Context, op, query string, arg any) (*Profile, error) {
	p, err := scanProfile(repository.db.QueryRow(context, query, arg))
	if err != nil {
		if dberr.IsNoRows(err) {
			return nil, nil
		}
		return nil, dberr.Wrap(fmt.Errorf("postgres_profile_repo_%s_failed: %w", op, err))
	}
	return p, nil
}

func scanProfile(row pgx.Row) (*Profile, error) {
	p := &Profile{}
	err := row.Scan(
		&p.ID,
		&p.AccountID,
		&p.Handle,
		&p.Website,
		&p.Location,
		&p.Schools,
		&p.Courses,
		&p.Social,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if p.Courses == nil {
		p.Courses = []Course{}
	}
	return p, nil
}
