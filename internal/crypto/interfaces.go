package crypto

//go:generate mockgen -source=interfaces.go -destination=../mock/password_hasher_mock.go -package=mock

// PasswordHasher is the one-way credential primitive of the service.
// It knows nothing about users, storage or transport; its only job is to
// turn a plaintext password into a salted, deliberately slow hash and to
// check a candidate password against such a hash.
type PasswordHasher interface {
	// Hash produces a salted hash of password. Two calls with the same input
	// return different outputs. Returns [ErrEmptyPassword] for an empty
	// password.
	Hash(password string) (string, error)

	// Verify reports whether password matches hashedPassword.
	// Returns (true, nil) on match and (false, nil) on mismatch. A malformed
	// hash is an integrity failure reported as [ErrCorruptedHash], never as
	// a mismatch.
	Verify(hashedPassword, password string) (bool, error)
}
