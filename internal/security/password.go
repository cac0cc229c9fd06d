package security

import "golang.org/x/crypto/bcrypt"

// passwordHashCost is the bcrypt work factor for tenant account passwords.
const passwordHashCost = 12

// HashPassword returns the bcrypt hash stored for a tenant account.
func HashPassword(password string) (string, error) {
	hash, errHash := bcrypt.GenerateFromPassword([]byte(password), passwordHashCost)
	if errHash != nil {
		return "", errHash
	}
	return string(hash), nil
}

// CheckPassword reports whether the plaintext matches the stored hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
