package domain

import "time"

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"

	// AuthorityPrefix turns a role name into an authority token ("ADMIN" → "ROLE_ADMIN").
	AuthorityPrefix = "ROLE_"

	// SystemAuditor is recorded in createdBy/lastModifiedBy when no principal is present.
	SystemAuditor = "system"
)

// Role is shared reference data; users link to roles by reference.
type Role struct {
	ID   uint64
	Name string
}

// Authority returns the authority token derived from the role name.
func (r Role) Authority() string {
	return AuthorityPrefix + r.Name
}

// User is the identity record held by the credential store.
// Password always holds a bcrypt digest once persisted.
type User struct {
	ID             uint64
	Name           string
	Email          string
	Age            *int
	Username       string
	Password       string
	Registered     bool
	Roles          []Role
	CreatedAt      time.Time
	CreatedBy      string
	LastModifiedAt time.Time
	LastModifiedBy string
}

// Authorities lists the authority tokens granted through the user's roles.
func (u *User) Authorities() []string {
	out := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		out = append(out, r.Authority())
	}
	return out
}

// RoleNames lists the names of the user's roles.
func (u *User) RoleNames() []string {
	out := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		out = append(out, r.Name)
	}
	return out
}
