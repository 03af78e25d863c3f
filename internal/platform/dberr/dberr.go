// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
package dberr

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/campusdir/internal/platform/apperr"
)

// IsNoRows reports whether err means the queried row does not exist.
func IsNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// UniqueViolation returns the violated constraint name when err is a
// unique-constraint violation (SQLSTATE 23505).
func UniqueViolation(err error) (constraint string, ok bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return pgErr.ConstraintName, true
	}
	return "", false
}

// Wrap classifies a database error as a STORAGE_ERROR [apperr.AppError].
// Errors that are already application errors pass through untouched.
func Wrap(err error) error {
	if err == nil {
		return nil
	}
	if apperr.IsAppError(err) {
		return err
	}
	return apperr.Storage(err)
}
