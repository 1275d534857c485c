package service

// Authenticator verifies login credentials and reports the role a username
// carries. The interface exists so a real credential store can replace the
// default map without touching call sites.
type Authenticator interface {
	Verify(username, password string) bool
	Role(username string) string
}

// StaticAuthenticator checks credentials against a fixed in-memory map.
// Passwords are stored in plain text; this mirrors the deployed behavior and
// is not hardened.
type StaticAuthenticator struct {
	credentials map[string]string
	roles       map[string]string
}

// DefaultCredentials is the built-in credential map.
var DefaultCredentials = map[string]string{
	"admin": "admin123",
	"user":  "user123",
}

// DefaultRoles maps usernames to roles; anyone not listed is a plain user.
var DefaultRoles = map[string]string{
	"admin": "admin",
}

func NewStaticAuthenticator(credentials map[string]string) *StaticAuthenticator {
	if credentials == nil {
		credentials = DefaultCredentials
	}
	return &StaticAuthenticator{
		credentials: credentials,
		roles:       DefaultRoles,
	}
}

// WithRoles replaces the role map and returns the authenticator.
func (a *StaticAuthenticator) WithRoles(roles map[string]string) *StaticAuthenticator {
	a.roles = roles
	return a
}

func (a *StaticAuthenticator) Verify(username, password string) bool {
	stored, ok := a.credentials[username]
	return ok && stored == password
}

func (a *StaticAuthenticator) Role(username string) string {
	if role, ok := a.roles[username]; ok {
		return role
	}
	return "user"
}
