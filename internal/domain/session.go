package domain

// Role tags the principal carried in a session token.
type Role string

// RoleAdmin is the only role ever issued.
const RoleAdmin Role = "admin"

// Identity is the authenticated principal recovered from a session cookie.
type Identity struct {
	Username string
	Role     Role
}

// Anonymous is the zero identity returned when no valid session is present.
var Anonymous = Identity{}

// IsAnonymous reports whether the identity carries no principal.
func (i Identity) IsAnonymous() bool {
	return i.Username == ""
}
