package authentication

// HashInfo describes a stored password hash without revealing it.
type HashInfo struct {
	Scheme     string
	Identifier string
	Cost       int
	Known      bool
}

const SchemeBcrypt = "bcrypt"

// Identifier prefixes produced by the different bcrypt implementations.
// x/crypto writes $2a$ and passlib writes $2b$; $2x$ and $2y$ come from old
// PHP builds and still verify.
var (
	currentIdentifiers = []string{"$2a$", "$2b$"}
	legacyIdentifiers  = []string{"$2x$", "$2y$"}
)
