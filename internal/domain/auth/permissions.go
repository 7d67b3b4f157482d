package auth

const (
	RoleAdmin    = "Admin"
	RoleHR       = "HR"
	RoleEmployee = "Employee"
)

const (
	PermEmployeesRead       = "directory.employees.read"
	PermEmployeesWrite      = "directory.employees.write"
	PermOrgRead             = "directory.org.read"
	PermOrgWrite            = "directory.org.write"
	PermOffboardingRead     = "offboarding.read"
	PermOffboardingWrite    = "offboarding.write"
	PermOffboardingFinalize = "offboarding.finalize"
)

var RolePermissions = map[string][]string{
	RoleEmployee: {
		PermEmployeesRead,
		PermOrgRead,
		PermOffboardingRead,
	},
	RoleHR: {
		PermEmployeesRead,
		PermEmployeesWrite,
		PermOrgRead,
		PermOrgWrite,
		PermOffboardingRead,
		PermOffboardingWrite,
		PermOffboardingFinalize,
	},
	RoleAdmin: {
		PermEmployeesRead,
		PermEmployeesWrite,
		PermOrgRead,
		PermOrgWrite,
		PermOffboardingRead,
		PermOffboardingWrite,
		PermOffboardingFinalize,
	},
}

// HasPermission resolves against the static role table. Unknown roles have no
// permissions.
func HasPermission(roleName, permission string) bool {
	for _, candidate := range RolePermissions[roleName] {
		if candidate == permission {
			return true
		}
	}
	return false
}
