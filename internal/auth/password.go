package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword returns a bcrypt hash embedding a per-call random salt and
// the cost parameters, so hashing the same input twice never matches.
func HashPassword(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether plaintext matches the stored hash. The
// comparison inside bcrypt is constant-time with respect to the input.
func CheckPassword(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
