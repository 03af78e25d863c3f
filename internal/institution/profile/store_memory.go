// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package profile

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"
)

// MemoryRepository keeps profiles in process memory.
//
// Every operation runs under one lock, which makes the check-then-insert of
// [MemoryRepository.Upsert] atomic.
type MemoryRepository struct {
	mu        sync.RWMutex
	byAccount map[string]*Profile
	byHandle  map[string]string // handle -> account id
	now       func() time.Time
}

// NewMemoryRepository returns an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byAccount: make(map[string]*Profile),
		byHandle:  make(map[string]string),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

var _ Repository = (*MemoryRepository)(nil)

// FindByAccount implements [Repository].
func (repository *MemoryRepository) FindByAccount(_ context.Context, accountID string) (*Profile, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	return repository.byAccount[accountID].Clone(), nil
}

// FindByHandle implements [Repository].
func (repository *MemoryRepository) FindByHandle(_ context.Context, handle string) (*Profile, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	accountID, ok := repository.byHandle[handle]
	if !ok {
		return nil, nil
	}
	return repository.byAccount[accountID].Clone(), nil
}

// List implements [Repository].
func (repository *MemoryRepository) List(_ context.Context) ([]*Profile, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	profiles := make([]*Profile, 0, len(repository.byAccount))
	for _, p := range repository.byAccount {
		profiles = append(profiles, p.Clone())
	}

	slices.SortFunc(profiles, func(a, b *Profile) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	return profiles, nil
}

// Upsert implements [Repository].
func (repository *MemoryRepository) Upsert(_ context.Context, accountID string, fields Fields) (*Profile, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	now := repository.now()

	if existing, ok := repository.byAccount[accountID]; ok {
		oldHandle := existing.Handle
		if fields.Handle != nil && *fields.Handle != oldHandle {
			if owner, taken := repository.byHandle[*fields.Handle]; taken && owner != accountID {
				return nil, ErrHandleTaken
			}
		}

		existing.Apply(fields, now)
		if existing.Handle != oldHandle {
			delete(repository.byHandle, oldHandle)
			repository.byHandle[existing.Handle] = accountID
		}
		return existing.Clone(), nil
	}

	if fields.Handle != nil {
		if _, taken := repository.byHandle[*fields.Handle]; taken {
			return nil, ErrHandleTaken
		}
	}

	created, err := NewProfile(accountID, fields, now)
	if err != nil {
		return nil, err
	}

	repository.byAccount[accountID] = created
	repository.byHandle[created.Handle] = accountID
	return created.Clone(), nil
}

// DeleteByAccount implements [Repository].
func (repository *MemoryRepository) DeleteByAccount(_ context.Context, accountID string) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if existing, ok := repository.byAccount[accountID]; ok {
		delete(repository.byHandle, existing.Handle)
		delete(repository.byAccount, accountID)
	}
	return nil
}

// AddCourse implements [Repository].
func (repository *MemoryRepository) AddCourse(_ context.Context, accountID string, course Course) (*Profile, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	existing, ok := repository.byAccount[accountID]
	if !ok {
		return nil, ErrProfileNotFound
	}

	existing.PrependCourse(course)
	existing.UpdatedAt = repository.now()
	return existing.Clone(), nil
}

// RemoveCourse implements [Repository].
func (repository *MemoryRepository) RemoveCourse(_ context.Context, accountID, courseID string) (*Profile, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	existing, ok := repository.byAccount[accountID]
	if !ok {
		return nil, ErrProfileNotFound
	}

	if existing.RemoveCourse(courseID) {
		existing.UpdatedAt = repository.now()
	}
	return existing.Clone(), nil
}
