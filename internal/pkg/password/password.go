package password

import "golang.org/x/crypto/bcrypt"

// bcrypt cost. 12 keeps hashing around 250ms on current hardware,
// slow enough to blunt offline guessing.
const cost = 12

// Hash derives a bcrypt hash from the plaintext password
func Hash(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify reports whether plain matches the stored hash
func Verify(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
