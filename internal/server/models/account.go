// Package models defines server-side data models persisted in the database.
package models

import "time"

// Account is a persisted user identity.
type Account struct {
	ID           string     `db:"id"`
	FirstName    string     `db:"first_name"`
	LastName     string     `db:"last_name"`
	Email        string     `db:"email"`
	PasswordHash string     `db:"password_hash" json:"-"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    *time.Time `db:"updated_at"`
}

// AccountSummary is the externally visible view of an Account.
// It deliberately has no password field.
type AccountSummary struct {
	ID        string     `json:"id"`
	FirstName string     `json:"firstName"`
	LastName  string     `json:"lastName"`
	Email     string     `json:"email"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// Summary projects the account into its public shape.
func (a *Account) Summary() AccountSummary {
	return AccountSummary{
		ID:        a.ID,
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Email:     a.Email,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

// AccountUpdate carries the mutable profile fields of an account.
type AccountUpdate struct {
	FirstName string
	LastName  string
	Email     string
}
