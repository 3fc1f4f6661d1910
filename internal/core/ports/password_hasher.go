package ports

// PasswordHasher wraps an adaptive, salted one-way hash.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	// Verify reports whether plaintext matches digest. A mismatch is
	// (false, nil); only a malformed digest returns an error.
	Verify(plaintext, digest string) (bool, error)
}
