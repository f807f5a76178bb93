package rbac

// UserRoleRow is one grouping policy edge: user -> role name.
type UserRoleRow struct {
	UserID   string
	RoleName string
}

// RolePermissionRow is one permission policy edge: role name -> resource/action.
type RolePermissionRow struct {
	RoleName string
	Resource string
	Action   string
}

type RoleResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type AssignRoleRequest struct {
	UserID string `json:"user_id" binding:"required,uuid"`
	Role   string `json:"role" binding:"required"`
}
