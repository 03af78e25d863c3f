// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package uuid generates and checks the identifiers used for accounts,
profiles and courses.

New values are version 7: ordered by creation time, which keeps the
PostgreSQL primary-key indexes append-only and gives listings a stable
tie-break.
*/
package uuid

import "github.com/google/uuid"

// New generates a new UUIDv7 string.
//
// It panics if the system entropy source fails.
func New() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Valid reports whether s is a well-formed UUID of any version.
func Valid(s string) bool {
	return uuid.Validate(s) == nil
}
