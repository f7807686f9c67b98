package models

// All lists every persistence model in dependency order.
func All() []any {
	return []any{
		&UserModel{},
		&RoleModel{},
		&PermissionModel{},
		&RolePermissionModel{},
		&UserRoleModel{},
	}
}

func BoolPtr(v bool) *bool {
	return &v
}
