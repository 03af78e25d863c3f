// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package profile

import (
	"context"
	"log/slog"

	"github.com/taibuivan/campusdir/internal/institution/auth"
	"github.com/taibuivan/campusdir/internal/platform/ctxutil"
	"github.com/taibuivan/campusdir/internal/platform/validate"
	"github.com/taibuivan/campusdir/pkg/uuid"
)

// AccountDirectory resolves and removes the accounts that own profiles.
type AccountDirectory interface {
	Lookup(context context.Context, accountID string) (*auth.Account, error)
	Delete(context context.Context, accountID string) error
}

var _ AccountDirectory = (*auth.Service)(nil)

// Service implements the profile use cases on top of a [Repository].
type Service struct {
	profiles Repository
	accounts AccountDirectory
	cache    Cache
}

// NewService constructs a [Service]. A nil cache disables caching.
func NewService(profiles Repository, accounts AccountDirectory, cache Cache) *Service {
	if cache == nil {
		cache = NoopCache{}
	}
	return &Service{profiles: profiles, accounts: accounts, cache: cache}
}

// # Reads

// GetOwn returns the caller's profile, or nil when none exists yet.
func (service *Service) GetOwn(context context.Context, accountID string) (*Profile, error) {
	return service.GetByAccount(context, accountID)
}

// GetByAccount returns the profile owned by accountID, or nil.
func (service *Service) GetByAccount(context context.Context, accountID string) (*Profile, error) {
	p, err := service.profiles.FindByAccount(context, accountID)
	if err != nil || p == nil {
		return nil, err
	}
	return service.withOwner(context, p)
}

/*
GetByHandle returns the profile with this handle, or nil.

Description: Served from the cache when warm. Cache failures are logged and
the lookup falls through to the store.

A miss fills the cache and then re-reads the store. A write that landed
between the two reads has already run its invalidation, so the entry just
written may be stale and is dropped again.
*/
func (service *Service) GetByHandle(context context.Context, handle string) (*Profile, error) {
	logger := ctxutil.GetLogger(context)

	cached, err := service.cache.Get(context, handle)
	if err != nil {
		logger.WarnContext(context, "profile_cache_read_failed", slog.String("error", err.Error()))
	}
	if cached != nil {
		return cached, nil
	}

	p, err := service.profiles.FindByHandle(context, handle)
	if err != nil || p == nil {
		return nil, err
	}

	p, err = service.withOwner(context, p)
	if err != nil {
		return nil, err
	}

	if err := service.cache.Set(context, p); err != nil {
		logger.WarnContext(context, "profile_cache_write_failed", slog.String("error", err.Error()))
		return p, nil
	}

	current, err := service.profiles.FindByHandle(context, handle)
	if err != nil || current == nil || current.ID != p.ID || !current.UpdatedAt.Equal(p.UpdatedAt) {
		service.invalidate(context, handle)
	}
	return p, nil
}

// List returns every profile, newest first.
func (service *Service) List(context context.Context) ([]*Profile, error) {
	profiles, err := service.profiles.List(context)
	if err != nil {
		return nil, err
	}

	for i, p := range profiles {
		if profiles[i], err = service.withOwner(context, p); err != nil {
			return nil, err
		}
	}
	return profiles, nil
}

// # Writes

/*
UpsertOwn creates or merges the caller's profile.

Returns:
  - *Profile: The profile after the write
  - error: VALIDATION_ERROR, ErrHandleTaken or storage failures
*/
func (service *Service) UpsertOwn(context context.Context, accountID string, fields Fields) (*Profile, error) {
	if err := validateFields(fields); err != nil {
		return nil, err
	}

	previous, err := service.profiles.FindByAccount(context, accountID)
	if err != nil {
		return nil, err
	}

	p, err := service.profiles.Upsert(context, accountID, fields)
	if err != nil {
		return nil, err
	}

	event := "profile_created"
	if previous != nil {
		event = "profile_updated"
		service.invalidate(context, previous.Handle, p.Handle)
	} else {
		service.invalidate(context, p.Handle)
	}
	ctxutil.GetLogger(context).InfoContext(context, event,
		slog.String("account_id", accountID),
		slog.String("profile_id", p.ID),
	)

	return service.withOwner(context, p)
}

// CourseInput is a new program entry.
type CourseInput struct {
	Degree      string
	Stream      string
	Description string
}

// AddCourse prepends a course to the caller's profile.
func (service *Service) AddCourse(context context.Context, accountID string, input CourseInput) (*Profile, error) {
	v := &validate.Validator{}
	v.Required("degree", input.Degree).Required("stream", input.Stream)
	if err := v.Err(); err != nil {
		return nil, err
	}

	course := Course{
		ID:          uuid.New(),
		Degree:      input.Degree,
		Stream:      input.Stream,
		Description: input.Description,
	}

	p, err := service.profiles.AddCourse(context, accountID, course)
	if err != nil {
		return nil, err
	}

	service.invalidate(context, p.Handle)
	ctxutil.GetLogger(context).InfoContext(context, "course_added",
		slog.String("account_id", accountID),
		slog.String("course_id", course.ID),
	)

	return service.withOwner(context, p)
}

// RemoveCourse drops a course from the caller's profile. Unknown ids are ignored.
func (service *Service) RemoveCourse(context context.Context, accountID, courseID string) (*Profile, error) {
	p, err := service.profiles.RemoveCourse(context, accountID, courseID)
	if err != nil {
		return nil, err
	}

	service.invalidate(context, p.Handle)
	return service.withOwner(context, p)
}

/*
DeleteOwn removes the caller's profile and then the account itself.

Description: The profile goes first so a failure never leaves a profile
without an owner.
*/
func (service *Service) DeleteOwn(context context.Context, accountID string) error {
	previous, err := service.profiles.FindByAccount(context, accountID)
	if err != nil {
		return err
	}

	if err := service.profiles.DeleteByAccount(context, accountID); err != nil {
		return err
	}
	if err := service.accounts.Delete(context, accountID); err != nil {
		return err
	}

	if previous != nil {
		service.invalidate(context, previous.Handle)
	}
	ctxutil.GetLogger(context).InfoContext(context, "profile_deleted",
		slog.String("account_id", accountID),
	)
	return nil
}

// # Internals

func validateFields(fields Fields) error {
	v := &validate.Validator{}

	if fields.Handle != nil {
		v.Custom("handle", *fields.Handle == "", "Profile handle is required")
		v.Custom("handle", *fields.Handle != "" && !ValidHandle(*fields.Handle), HandleLengthMessage)
	}
	if fields.Schools != nil {
		v.Custom("schools", len(fields.Schools) == 0, "Schools field is required")
	}

	v.OptionalURL("website", fields.Website)
	v.OptionalURL("youtube", fields.Social.YouTube)
	v.OptionalURL("twitter", fields.Social.Twitter)
	v.OptionalURL("facebook", fields.Social.Facebook)
	v.OptionalURL("linkedin", fields.Social.LinkedIn)

	return v.Err()
}

func (service *Service) withOwner(context context.Context, p *Profile) (*Profile, error) {
	account, err := service.accounts.Lookup(context, p.AccountID)
	if err != nil {
		return nil, err
	}
	if account != nil {
		p.Owner = &Owner{ID: account.ID, Name: account.Name, Avatar: account.Avatar}
	}
	return p, nil
}

func (service *Service) invalidate(context context.Context, handles ...string) {
	if err := service.cache.Invalidate(context, handles...); err != nil {
		ctxutil.GetLogger(context).WarnContext(context, "profile_cache_invalidate_failed",
			slog.String("error", err.Error()),
		)
	}
}
