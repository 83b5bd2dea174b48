package user

// Principal identifies the authenticated caller resolved from a bearer token.
type Principal struct {
	UserID string
	Email  string
}
