package entity

// Caller is the authenticated identity behind a request
type Caller struct {
	UserID  int64
	Email   string
	Roles   []string
	TokenID string
}

// HasRole reports whether the caller carries the role
func (c *Caller) HasRole(role string) bool {
	if c == nil {
		return false
	}
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// HasAnyRole reports whether the caller carries at least one of the roles
func (c *Caller) HasAnyRole(roles ...string) bool {
	for _, role := range roles {
		if c.HasRole(role) {
			return true
		}
	}
	return false
}
