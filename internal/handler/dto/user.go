package dto

import (
	"github.com/witple/witple/internal/model"
)

// UpdateProfileRequest represents a partial profile update.
// Nil fields are "not provided" and leave the stored value untouched.
type UpdateProfileRequest struct {
	Email    *string `json:"email,omitempty"`
	Username *string `json:"username,omitempty"`
	Password *string `json:"password,omitempty"`
	FullName *string `json:"full_name,omitempty"`
	Bio      *string `json:"bio,omitempty"`
}

// ToUserPatch converts the request into a repository patch.
// Password is handled separately by the handler (it must be hashed first).
func (r *UpdateProfileRequest) ToUserPatch() model.UserPatch {
	return model.UserPatch{
		Email:    r.Email,
		Username: r.Username,
		FullName: r.FullName,
		Bio:      r.Bio,
	}
}

// ChangePasswordRequest represents a password change.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}
