package internal

const (
	RoleAdmin          = "ADMIN"
	RoleManager        = "MANAGER"
	RoleProjectManager = "PROJECT_MANAGER"
	RoleOperator       = "OPERATOR"
)

func IsValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleManager, RoleProjectManager, RoleOperator:
		return true
	}
	return false
}

// IsManagerRole reports whether the role may manage employees and tasks.
func IsManagerRole(role string) bool {
	return role == RoleManager || role == RoleProjectManager
}
