package models

// MessageResponse is the generic JSON body returned by the account
// endpoints: registration, login and password update.
type MessageResponse struct {
	// Email is omitted on responses that are not bound to an account
	// (for example the welcome message of the index route).
	Email string `json:"email,omitempty"`

	// Message is a short human readable outcome.
	Message string `json:"message"`
}

// ProfileResponse is returned by the profile endpoint for a valid session.
type ProfileResponse struct {
	Email string `json:"email"`
}

// ResetTokenResponse carries a freshly issued password-reset token.
type ResetTokenResponse struct {
	Email      string `json:"email"`
	ResetToken string `json:"reset_token"`
}
