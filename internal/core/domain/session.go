package domain

// Session maps an opaque bearer token to the identity that owns it.
type Session struct {
	Token   string `json:"-"`
	UID     string `json:"uid"`
	Email   string `json:"email"`
	Name    string `json:"name,omitempty"`
	IsAdmin bool   `json:"is_admin"`
}

// CanAccess reports whether the session may act on a resource owned by ownerUID.
func (s *Session) CanAccess(ownerUID string) bool {
	return s.IsAdmin || (ownerUID != "" && s.UID == ownerUID)
}
