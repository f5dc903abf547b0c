package authentication

import (
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Hasher hashes and verifies passwords with bcrypt, the scheme the web
// application checks logins against.
type Hasher struct {
	cost int
}

func NewHasher(cost int) *Hasher {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{
		cost: cost,
	}
}

func (h *Hasher) Cost() int {
	return h.cost
}

// Hash returns a salted bcrypt hash of password.
func (h *Hasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

// Verify reports whether password matches hash. Legacy $2a$/$2x$/$2y$
// identifiers are accepted.
func (h *Hasher) Verify(password, hash string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// Describe inspects hash and reports its scheme, identifier and cost.
func (h *Hasher) Describe(hash string) HashInfo {
	identifier := identifierOf(hash)
	if identifier == "" {
		return HashInfo{Scheme: "unknown"}
	}
	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		return HashInfo{Scheme: "unknown", Identifier: identifier}
	}
	return HashInfo{
		Scheme:     SchemeBcrypt,
		Identifier: identifier,
		Cost:       cost,
		Known:      true,
	}
}

// NeedsRehash is true when hash is not bcrypt, uses a legacy identifier, or
// was produced with a lower cost than the hasher's.
func (h *Hasher) NeedsRehash(hash string) bool {
	info := h.Describe(hash)
	if !info.Known {
		return true
	}
	if isLegacy(info.Identifier) {
		return true
	}
	return info.Cost < h.cost
}

func identifierOf(hash string) string {
	for _, id := range append(currentIdentifiers, legacyIdentifiers...) {
		if strings.HasPrefix(hash, id) {
			return id
		}
	}
	return ""
}

func isLegacy(identifier string) bool {
	for _, id := range legacyIdentifiers {
		if id == identifier {
			return true
		}
	}
	return false
}
