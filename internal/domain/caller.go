package domain

// Caller is the resolved identity of the authenticated requester: role plus
// the role-specific profile id, when one exists. The auth middleware builds
// it; the lifecycle engine only ever reads it.
type Caller struct {
	UserID              string
	Role                UserRole
	ClientProfileID     *string
	TechnicianProfileID *string
}

// ClientProfile returns the client profile id when the caller has one.
func (c Caller) ClientProfile() (string, bool) {
	if c.ClientProfileID == nil || *c.ClientProfileID == "" {
		return "", false
	}
	return *c.ClientProfileID, true
}

// TechnicianProfile returns the technician profile id when the caller has one.
func (c Caller) TechnicianProfile() (string, bool) {
	if c.TechnicianProfileID == nil || *c.TechnicianProfileID == "" {
		return "", false
	}
	return *c.TechnicianProfileID, true
}
