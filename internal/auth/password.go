package auth

import "golang.org/x/crypto/bcrypt"

// DefaultBcryptCost is deliberately expensive so offline guessing of a
// leaked hash stays slow. Tune via BCRYPT_COST, never below 10.
const DefaultBcryptCost = 12

type PasswordHasher struct {
	cost int
}

func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	return &PasswordHasher{cost: cost}
}

func (h *PasswordHasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Compare reports whether candidate matches the stored hash. bcrypt's own
// comparison is used; hashes are never compared with raw equality.
func (h *PasswordHasher) Compare(hash, candidate string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(candidate)) == nil
}
