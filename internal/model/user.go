// Package model defines domain entities for the application.
package model

import "time"

// User represents a registered account.
// HashedPassword is never serialized into API responses.
type User struct {
	ID             int64      `json:"id"`
	Email          string     `json:"email"`
	Username       string     `json:"username"`
	HashedPassword string     `json:"-"`
	FullName       *string    `json:"full_name,omitempty"`
	IsActive       bool       `json:"is_active"`
	IsSuperuser    bool       `json:"is_superuser"`
	Bio            *string    `json:"bio,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      *time.Time `json:"updated_at,omitempty"`
}

// UserPatch describes a partial update to a user.
// Nil fields are left untouched; non-nil fields overwrite the stored value.
type UserPatch struct {
	Email          *string
	Username       *string
	HashedPassword *string
	FullName       *string
	IsActive       *bool
	IsSuperuser    *bool
	Bio            *string
}

// IsZero reports whether the patch carries no changes.
func (p *UserPatch) IsZero() bool {
	return p.Email == nil &&
		p.Username == nil &&
		p.HashedPassword == nil &&
		p.FullName == nil &&
		p.IsActive == nil &&
		p.IsSuperuser == nil &&
		p.Bio == nil
}
