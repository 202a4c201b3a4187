// Copyright (c) 2026 Roots. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package schema holds the table and column names of the relational store.

Stores build their SQL from these values so that a column rename is a
one-line change here instead of a grep across every repository.
*/
package schema

// UserTable represents the 'users' table
type UserTable struct {
	Table         string
	ID            string
	Email         string
	PasswordHash  string
	Role          string
	Status        string
	PersonID      string
	OAuthProvider string
	OAuthID       string
	CreatedAt     string
}

// User is the schema definition for users
var User = UserTable{
	Table:         "users",
	ID:            "id",
	Email:         "email",
	PasswordHash:  "password_hash",
	Role:          "role",
	Status:        "status",
	PersonID:      "person_id",
	OAuthProvider: "oauth_provider",
	OAuthID:       "oauth_id",
	CreatedAt:     "created_at",
}

// Columns returns all standard column names
func (t UserTable) Columns() []string {
	return []string{
		t.ID, t.Email, t.PasswordHash, t.Role, t.Status, t.PersonID,
		t.OAuthProvider, t.OAuthID, t.CreatedAt,
	}
}
