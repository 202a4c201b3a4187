// Copyright (c) 2026 Roots. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const passwordCost = bcrypt.DefaultCost

// placeholderHash is compared against for accounts without a password.
var placeholderHash, _ = bcrypt.GenerateFromPassword([]byte("roots-placeholder"), passwordCost)

// HashPassword hashes a plain-text password with bcrypt.
// Passwords longer than 72 bytes are rejected by bcrypt and surface as an error.
func HashPassword(plainTextPassword string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(plainTextPassword), passwordCost)
	if err != nil {
		return "", fmt.Errorf("sec: failed to hash password: %w", err)
	}
	return string(hashedBytes), nil
}

// VerifyPassword reports whether the password matches the stored hash.
// A nil hash never matches.
func VerifyPassword(plainTextPassword string, storedHash *string) bool {
	if storedHash == nil {
		_ = bcrypt.CompareHashAndPassword(placeholderHash, []byte(plainTextPassword))
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(*storedHash), []byte(plainTextPassword)) == nil
}
