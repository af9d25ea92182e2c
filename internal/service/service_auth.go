package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"sync"

	"github.com/MKhiriev/go-user-auth/internal/crypto"
	"github.com/MKhiriev/go-user-auth/internal/logger"
	"github.com/MKhiriev/go-user-auth/internal/store"
	"github.com/MKhiriev/go-user-auth/models"
)

// sessionTokenAttempts bounds how often CreateSession draws a new token after
// the store reports the previous one as taken.
const sessionTokenAttempts = 3

// dummyPassword is hashed once and compared against when a login names an
// unknown email, so that path costs one bcrypt comparison like a real one.
const dummyPassword = "not-a-real-password"

// authService is the concrete implementation of AuthService.
// It owns no state besides its collaborators; all user state lives in the
// UserRepository, which is responsible for uniqueness and atomic updates.
type authService struct {
	// userRepository is the data-access layer for users and their tokens.
	userRepository store.UserRepository

	// hasher hashes and verifies passwords.
	hasher crypto.PasswordHasher

	// tokens generates session ids and reset tokens.
	tokens TokenGenerator

	dummyHash func() (string, error)

	logger *logger.Logger
}

// NewAuthService constructs an AuthService over the given collaborators.
//
// The returned service is safe for concurrent use.
func NewAuthService(userRepository store.UserRepository, hasher crypto.PasswordHasher, tokens TokenGenerator, logger *logger.Logger) AuthService {
	return &authService{
		userRepository: userRepository,
		hasher:         hasher,
		tokens:         tokens,
		dummyHash: sync.OnceValues(func() (string, error) {
			return hasher.Hash(dummyPassword)
		}),
		logger: logger,
	}
}

// RegisterUser creates a new user account.
//
// The lookup before the insert only saves a bcrypt round for the common case;
// the store's uniqueness check is what decides a concurrent race.
//
// Returns the persisted user or:
//   - ErrInvalidDataProvided if email or password is empty.
//   - ErrUserAlreadyExists if the email is registered.
//   - A wrapped storage or hashing error otherwise.
func (a *authService) RegisterUser(ctx context.Context, email, password string) (models.User, error) {
	log := logger.FromContext(ctx)

	email = NormalizeEmail(email)
	if email == "" || password == "" {
		log.Error().Str("email", email).Msg("invalid user data provided")
		return models.User{}, ErrInvalidDataProvided
	}

	_, err := a.userRepository.FindUser(ctx, store.ByEmail(email))
	switch {
	case err == nil:
		log.Info().Str("email", email).Msg("email already registered")
		return models.User{}, ErrUserAlreadyExists
	case !errors.Is(err, store.ErrUserNotFound):
		log.Err(err).Str("email", email).Msg("user search by email failed")
		return models.User{}, fmt.Errorf("user search by email failed: %w", err)
	}

	hashedPassword, err := a.hasher.Hash(password)
	if err != nil {
		log.Err(err).Msg("password hashing failed")
		return models.User{}, fmt.Errorf("password hashing failed: %w", err)
	}

	user, err := a.userRepository.AddUser(ctx, email, hashedPassword)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			log.Info().Str("email", email).Msg("email registered concurrently")
			return models.User{}, ErrUserAlreadyExists
		}
		log.Err(err).Str("email", email).Msg("user creation ended with error")
		return models.User{}, fmt.Errorf("user creation ended with error: %w", err)
	}

	log.Info().Int64("user_id", user.UserID).Str("email", email).Msg("user registered")
	return user, nil
}

// ValidLogin checks a password against the stored hash.
//
// An unknown email returns false after a comparison against a dummy hash.
// Errors are returned only for storage failures and for a stored hash that
// the hasher cannot parse.
func (a *authService) ValidLogin(ctx context.Context, email, password string) (bool, error) {
	log := logger.FromContext(ctx)

	email = NormalizeEmail(email)
	if email == "" {
		return false, nil
	}

	user, err := a.userRepository.FindUser(ctx, store.ByEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			a.compareDummy(ctx, password)
			log.Info().Str("email", email).Msg("login for unknown email")
			return false, nil
		}
		log.Err(err).Str("email", email).Msg("user search by email failed")
		return false, fmt.Errorf("user search by email failed: %w", err)
	}

	ok, err := a.hasher.Verify(user.HashedPassword, password)
	if err != nil {
		log.Err(err).Int64("user_id", user.UserID).Msg("stored password hash is unusable")
		return false, fmt.Errorf("password verification failed: %w", err)
	}
	if !ok {
		log.Info().Int64("user_id", user.UserID).Msg("wrong password")
	}

	return ok, nil
}

func (a *authService) compareDummy(ctx context.Context, password string) {
	hash, err := a.dummyHash()
	if err != nil {
		logger.FromContext(ctx).Err(err).Msg("dummy hash unavailable")
		return
	}
	_, _ = a.hasher.Verify(hash, password)
}

// CreateSession stores a fresh session id on the user, overwriting the
// previous one. Returns "" and no error for an unknown email.
func (a *authService) CreateSession(ctx context.Context, email string) (string, error) {
	log := logger.FromContext(ctx)

	email = NormalizeEmail(email)
	user, err := a.userRepository.FindUser(ctx, store.ByEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return "", nil
		}
		log.Err(err).Str("email", email).Msg("user search by email failed")
		return "", fmt.Errorf("user search by email failed: %w", err)
	}

	for range sessionTokenAttempts {
		sessionID := a.tokens.Generate()

		err = a.userRepository.UpdateUser(ctx, user.UserID, models.UserUpdate{SessionID: models.SetToken(sessionID)})
		switch {
		case err == nil:
			log.Info().Int64("user_id", user.UserID).Msg("session created")
			return sessionID, nil
		case errors.Is(err, store.ErrDuplicateSession):
			log.Warn().Int64("user_id", user.UserID).Msg("session id collision, drawing a new one")
			continue
		case errors.Is(err, store.ErrUserNotFound):
			return "", nil
		default:
			log.Err(err).Int64("user_id", user.UserID).Msg("session update failed")
			return "", fmt.Errorf("session update failed: %w", err)
		}
	}

	return "", ErrTokenCreationFailed
}

// GetUserFromSessionID looks up the holder of sessionID. Absence, including
// an empty sessionID, is reported with ok == false and a nil error.
func (a *authService) GetUserFromSessionID(ctx context.Context, sessionID string) (models.User, bool, error) {
	if sessionID == "" {
		return models.User{}, false, nil
	}

	user, err := a.userRepository.FindUser(ctx, store.BySessionID(sessionID))
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return models.User{}, false, nil
		}
		logger.FromContext(ctx).Err(err).Msg("user search by session failed")
		return models.User{}, false, fmt.Errorf("user search by session failed: %w", err)
	}

	return user, true, nil
}

// DestroySession clears the user's session id. It is idempotent and treats
// an unknown user id as already logged out.
func (a *authService) DestroySession(ctx context.Context, userID int64) error {
	err := a.userRepository.UpdateUser(ctx, userID, models.UserUpdate{SessionID: models.ClearToken()})
	if err != nil && !errors.Is(err, store.ErrUserNotFound) {
		logger.FromContext(ctx).Err(err).Int64("user_id", userID).Msg("session removal failed")
		return fmt.Errorf("session removal failed: %w", err)
	}

	logger.FromContext(ctx).Info().Int64("user_id", userID).Msg("session destroyed")
	return nil
}

// GetResetPasswordToken stores a new reset token on the user and returns it.
// Unlike the session operations, an unknown email is an error here.
func (a *authService) GetResetPasswordToken(ctx context.Context, email string) (string, error) {
	log := logger.FromContext(ctx)

	email = NormalizeEmail(email)
	user, err := a.userRepository.FindUser(ctx, store.ByEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			log.Info().Str("email", email).Msg("reset requested for unknown email")
			return "", ErrUserNotFound
		}
		log.Err(err).Str("email", email).Msg("user search by email failed")
		return "", fmt.Errorf("user search by email failed: %w", err)
	}

	resetToken := a.tokens.Generate()
	err = a.userRepository.UpdateUser(ctx, user.UserID, models.UserUpdate{ResetToken: models.SetToken(resetToken)})
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return "", ErrUserNotFound
		}
		log.Err(err).Int64("user_id", user.UserID).Msg("reset token update failed")
		return "", fmt.Errorf("reset token update failed: %w", err)
	}

	log.Info().Int64("user_id", user.UserID).Msg("reset token issued")
	return resetToken, nil
}

// UpdatePassword replaces the password of email if resetToken is its pending
// reset token. The new hash and the cleared token are written together, so a
// token works once.
func (a *authService) UpdatePassword(ctx context.Context, email, resetToken, newPassword string) error {
	log := logger.FromContext(ctx)

	email = NormalizeEmail(email)
	if newPassword == "" {
		return ErrInvalidDataProvided
	}
	if resetToken == "" {
		return ErrInvalidResetToken
	}

	user, err := a.userRepository.FindUser(ctx, store.ByEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			log.Info().Str("email", email).Msg("password update for unknown email")
			return ErrInvalidResetToken
		}
		log.Err(err).Str("email", email).Msg("user search by email failed")
		return fmt.Errorf("user search by email failed: %w", err)
	}

	if !user.ResetToken.Valid ||
		subtle.ConstantTimeCompare([]byte(user.ResetToken.String), []byte(resetToken)) != 1 {
		log.Info().Int64("user_id", user.UserID).Msg("reset token mismatch")
		return ErrInvalidResetToken
	}

	hashedPassword, err := a.hasher.Hash(newPassword)
	if err != nil {
		log.Err(err).Msg("password hashing failed")
		return fmt.Errorf("password hashing failed: %w", err)
	}

	err = a.userRepository.UpdateUser(ctx, user.UserID, models.UserUpdate{
		HashedPassword: &hashedPassword,
		ResetToken:     models.ClearToken(),
	})
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return ErrInvalidResetToken
		}
		log.Err(err).Int64("user_id", user.UserID).Msg("password update failed")
		return fmt.Errorf("password update failed: %w", err)
	}

	log.Info().Int64("user_id", user.UserID).Msg("password updated")
	return nil
}
