// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"sync"
)

// MemoryAccountRepository keeps accounts in process memory.
//
// It backs the "memory" store driver and the package tests.
type MemoryAccountRepository struct {
	mu      sync.RWMutex
	byID    map[string]*Account
	byEmail map[string]string
}

// NewMemoryAccountRepository returns an empty in-memory repository.
func NewMemoryAccountRepository() *MemoryAccountRepository {
	return &MemoryAccountRepository{
		byID:    make(map[string]*Account),
		byEmail: make(map[string]string),
	}
}

var _ AccountRepository = (*MemoryAccountRepository)(nil)

// FindByEmail implements [AccountRepository].
func (repository *MemoryAccountRepository) FindByEmail(_ context.Context, email string) (*Account, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	id, ok := repository.byEmail[email]
	if !ok {
		return nil, nil
	}
	return clone(repository.byID[id]), nil
}

// FindByID implements [AccountRepository].
func (repository *MemoryAccountRepository) FindByID(_ context.Context, id string) (*Account, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	return clone(repository.byID[id]), nil
}

// Create implements [AccountRepository].
func (repository *MemoryAccountRepository) Create(_ context.Context, account *Account) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if _, taken := repository.byEmail[account.Email]; taken {
		return ErrDuplicateContact
	}

	repository.byID[account.ID] = clone(account)
	repository.byEmail[account.Email] = account.ID
	return nil
}

// Delete implements [AccountRepository].
func (repository *MemoryAccountRepository) Delete(_ context.Context, id string) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	account, ok := repository.byID[id]
	if !ok {
		return nil
	}
	delete(repository.byEmail, account.Email)
	delete(repository.byID, id)
	return nil
}

// Count returns the number of stored accounts.
func (repository *MemoryAccountRepository) Count() int {
	repository.mu.RLock()
	defer repository.mu.RUnlock()
	return len(repository.byID)
}

func clone(account *Account) *Account {
	if account == nil {
		return nil
	}
	copied := *account
	return &copied
}
