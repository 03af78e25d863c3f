// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// MaxSecretBytes is the longest secret bcrypt accepts, counted in bytes.
const MaxSecretBytes = 72

// ErrSecretTooLong is returned by [Hasher.Hash] for secrets over [MaxSecretBytes].
var ErrSecretTooLong = bcrypt.ErrPasswordTooLong

// Hasher hashes and verifies account secrets with bcrypt.
//
// The cost factor is fixed at construction; existing hashes keep verifying
// after a cost change because bcrypt embeds the cost in the hash itself.
type Hasher struct {
	cost int
}

// NewHasher returns a [Hasher] using the given bcrypt cost.
// Out-of-range costs fall back to [bcrypt.DefaultCost].
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash hashes a plain-text secret. A fresh salt is generated on every call.
func (hasher *Hasher) Hash(plainTextPassword string) (string, error) {
	if len(plainTextPassword) > MaxSecretBytes {
		return "", ErrSecretTooLong
	}
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(plainTextPassword), hasher.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", ErrSecretTooLong
		}
		return "", fmt.Errorf("sec: failed to hash password: %w", err)
	}
	return string(hashedBytes), nil
}

// Verify compares a plain-text attempt with a stored hash in constant time.
func (hasher *Hasher) Verify(plainTextPassword, existingHash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(existingHash), []byte(plainTextPassword))
	return err == nil
}
