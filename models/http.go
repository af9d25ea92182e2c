package models

// Credentials is the form payload of the registration and login endpoints.
type Credentials struct {
	// Email is the address the account is registered under.
	Email string `form:"email" validate:"required,email"`

	// Password is the plaintext password. It is hashed before storage and
	// must never be logged.
	Password string `form:"password" validate:"required"`
}

// ResetTokenRequest is the form payload of the reset-token endpoint.
type ResetTokenRequest struct {
	Email string `form:"email" validate:"required,email"`
}

// UpdatePasswordRequest is the form payload of the password-update endpoint.
type UpdatePasswordRequest struct {
	// Email identifies the account whose password is replaced.
	Email string `form:"email" validate:"required,email"`

	// ResetToken is the token previously issued by the reset-token endpoint.
	ResetToken string `form:"reset_token" validate:"required"`

	// NewPassword is the plaintext replacement password.
	NewPassword string `form:"new_password" validate:"required"`
}
