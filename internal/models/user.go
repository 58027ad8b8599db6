package models

// Role is the closed set of station roles. Using a dedicated type instead of
// raw string comparison means a typo in a users file yields an invalid role,
// not silent elevated access.
type Role string

const (
	RoleOperator   Role = "operator"
	RoleSupervisor Role = "supervisor"
	RoleAdmin      Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleOperator, RoleSupervisor, RoleAdmin:
		return true
	}
	return false
}

// CanOverwriteLocked reports whether the role may correct a pocket that was
// already committed in this session. Operators get exactly one write per
// pocket; supervisors and admins may issue corrections.
func (r Role) CanOverwriteLocked() bool {
	switch r {
	case RoleSupervisor, RoleAdmin:
		return true
	}
	return false
}

// User is one entry of the station user store. The store is an externally
// owned JSON file with plaintext shared secrets; see utils.CheckPassword for
// how hashed secrets are also accepted.
type User struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     Role   `json:"role"`
}
