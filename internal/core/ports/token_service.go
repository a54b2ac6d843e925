package ports

// TokenService issues and verifies signed identity tokens.
type TokenService interface {
	// Issue produces a signed token whose subject is the given username.
	Issue(username string) (string, error)
	// Validate reports whether the signature verifies and expiry has not
	// passed. All failure modes collapse to false.
	Validate(tok string) bool
	// Subject extracts the subject claim; it fails with a typed error when
	// the token cannot be parsed or carries no subject.
	Subject(tok string) (string, error)
}
