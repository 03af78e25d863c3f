// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

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

// # Account Repository

// PostgresAccountRepository implements [AccountRepository] on directory.account.
type PostgresAccountRepository struct {
	db postgres.Querier
}

// NewPostgresAccountRepository creates a PostgreSQL-backed repository.
func NewPostgresAccountRepository(db postgres.Querier) *PostgresAccountRepository {
	return &PostgresAccountRepository{db: db}
}

var _ AccountRepository = (*PostgresAccountRepository)(nil)

var (
	accountColumns = strings.Join(schema.Account.Columns(), ", ")

	selectAccount = fmt.Sprintf(`SELECT %s FROM %s`, accountColumns, schema.Account.Table)
)

/*
Create inserts a new account row.

Description: The unique index on email turns a concurrent duplicate into
a 23505 violation, which is reported as [ErrDuplicateContact].
*/
func (repository *PostgresAccountRepository) Create(context context.Context, account *Account) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5, $6)`, schema.Account.Table, accountColumns)

	if account.CreatedAt.IsZero() {
		account.CreatedAt = time.Now().UTC()
	}

	_, err := repository.db.Exec(context, query,
		account.ID,
		account.Name,
		account.Email,
		account.PasswordHash,
		account.Avatar,
		account.CreatedAt,
	)
	if err != nil {
		if constraint, ok := dberr.UniqueViolation(err); ok && constraint == schema.Account.EmailKey {
			return ErrDuplicateContact
		}
		return dberr.Wrap(fmt.Errorf("postgres_account_repo_create_failed: %w", err))
	}

	return nil
}

// FindByEmail implements [AccountRepository].
func (repository *PostgresAccountRepository) FindByEmail(context context.Context, email string) (*Account, error) {
	query := selectAccount + fmt.Sprintf(` WHERE %s = $1`, schema.Account.Email)
	return repository.findOne(context, "find_by_email", query, email)
}

// FindByID implements [AccountRepository]. Malformed ids match nothing.
func (repository *PostgresAccountRepository) FindByID(context context.Context, id string) (*Account, error) {
	if !uuid.Valid(id) {
		return nil, nil
	}
	query := selectAccount + fmt.Sprintf(` WHERE %s = $1`, schema.Account.ID)
	return repository.findOne(context, "find_by_id", query, id)
}

// Delete implements [AccountRepository].
func (repository *PostgresAccountRepository) Delete(context context.Context, id string) error {
	if !uuid.Valid(id) {
		return nil
	}
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.Account.Table, schema.Account.ID)

	if _, err := repository.db.Exec(context, query, id); err != nil {
		return dberr.Wrap(fmt.Errorf("postgres_account_repo_delete_failed: %w", err))
	}
	return nil
}

func (repository *PostgresAccountRepository) findOne(context context.Context, op, query string, arg any) (*Account, error) {
	account, err := scanAccount(repository.db.QueryRow(context, query, arg))
	if err != nil {
		if dberr.IsNoRows(err) {
			return nil, nil
		}
		return nil, dberr.Wrap(fmt.Errorf("postgres_account_repo_%s_failed: %w", op, err))
	}
	return account, nil
}

func scanAccount(row pgx.Row) (*Account, error) {
	account := &Account{}
	err := row.Scan(
		&account.ID,
		&account.Name,
		&account.Email,
		&account.PasswordHash,
		&account.Avatar,
		&account.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return account, nil
}
