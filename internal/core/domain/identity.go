package domain

// Identity is the request-scoped resolved identity attached by the
// authentication middleware. It is deliberately framework-free and carries
// only what authorization decisions need, never the persisted User record.
type Identity struct {
	Username string
	Roles    []string
}

// HasRole reports whether the identity carries the given role.
func (i *Identity) HasRole(role string) bool {
	for _, r := range i.Roles {
		if r == role {
			return true
		}
	}
	return false
}
