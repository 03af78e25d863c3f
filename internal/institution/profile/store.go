// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package profile

import (
	"context"
	"net/http"

	"github.com/taibuivan/campusdir/internal/platform/apperr"
)

// # Failure Kinds

var (
	// ErrHandleTaken is returned when another profile already owns the handle.
	ErrHandleTaken = apperr.New(apperr.CodeHandleTaken, http.StatusConflict, "That handle already exists")

	// ErrProfileNotFound is returned when the account has no profile yet.
	ErrProfileNotFound = apperr.New(apperr.CodeProfileNotFound, http.StatusNotFound, "There is no profile for this institution")
)

// # Repository Contracts

// Repository is the Profile Store.
//
// Lookups report absence as (nil, nil). Handles are compared as exact strings.
type Repository interface {
	// FindByAccount returns the profile owned by accountID, or nil.
	FindByAccount(context context.Context, accountID string) (*Profile, error)

	// FindByHandle returns the profile with exactly this handle, or nil.
	FindByHandle(context context.Context, handle string) (*Profile, error)

	// List returns every profile, newest first.
	List(context context.Context) ([]*Profile, error)

	/*
		Upsert creates or merges the profile owned by accountID.

		Description: When the account already has a profile the fields are
		merged into it by presence. Otherwise the handle is checked against
		existing profiles and a new profile is created with a fresh id and
		creation time. The insert is conditional on both the account and the
		handle, so a lost handle race reports [ErrHandleTaken] and a lost
		account race falls back to the merge.

		Returns:
		  - *Profile: The stored profile after the write
		  - error: ErrHandleTaken, VALIDATION_ERROR when a creation lacks
		    handle or schools, or storage failures
	*/
	Upsert(context context.Context, accountID string, fields Fields) (*Profile, error)

	// DeleteByAccount removes the profile and its courses. Absent is a no-op.
	DeleteByAccount(context context.Context, accountID string) error

	// AddCourse prepends course. It fails with [ErrProfileNotFound] before a profile exists.
	AddCourse(context context.Context, accountID string, course Course) (*Profile, error)

	// RemoveCourse drops the course with courseID. An unknown id changes nothing.
	RemoveCourse(context context.Context, accountID, courseID string) (*Profile, error)
}
