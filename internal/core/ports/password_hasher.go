package ports

// PasswordHasher is the one-way hash-and-compare primitive used for stored
// credentials.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	// Compare reports whether plaintext matches the stored hash. A mismatch
	// is an ordinary false, never an error.
	Compare(plaintext, hash string) bool
}
