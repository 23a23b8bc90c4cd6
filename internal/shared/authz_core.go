package shared

// Core platform permissions. Business modules (inventory, sales, purchasing)
// declare their own identifiers in the same resource:action namespace.
const (
	PermDeptAdd    = "system:dept:add"
	PermDeptView   = "system:dept:view"
	PermDeptDelete = "system:dept:delete"

	PermRolesView = "system:roles:view"
	PermPermsView = "system:perms:view"
	PermUsersView = "system:users:view"
)

// CoreScopes lists all permissions owned by the core platform.
func CoreScopes() []string {
	return []string{
		PermDeptAdd,
		PermDeptView,
		PermDeptDelete,
		PermRolesView,
		PermPermsView,
		PermUsersView,
	}
}
