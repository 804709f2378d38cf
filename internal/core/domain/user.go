package domain

import "time"

// User models an account that can sign in.
type User struct {
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// MaxUsernameLength caps signup and import usernames.
const MaxUsernameLength = 64

// ValidUsername reports whether name is non-empty, at most MaxUsernameLength
// bytes and made only of printable ASCII. Contract PDFs are set in a core font
// that has no glyphs outside that range.
func ValidUsername(name string) bool {
	if name == "" || len(name) > MaxUsernameLength {
		return false
	}
	for i := 0; i < len(name); i++ {
		if name[i] < 0x20 || name[i] > 0x7e {
			return false
		}
	}
	return true
}

// Identity is the authenticated principal carried by a bearer token.
type Identity struct {
	Username string
	Role     Role
}
