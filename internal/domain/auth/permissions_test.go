package auth

import "testing"

func TestHasPermission(t *testing.T) {
	if !HasPermission(RoleHR, PermOffboardingFinalize) {
		t.Fatal("expected HR to hold offboarding.finalize")
	}
	if !HasPermission(RoleAdmin, PermEmployeesWrite) {
		t.Fatal("expected Admin to hold directory.employees.write")
	}
	if HasPermission(RoleEmployee, PermOffboardingWrite) {
		t.Fatal("expected Employee to lack offboarding.write")
	}
	if HasPermission("Contractor", PermOffboardingRead) {
		t.Fatal("expected unknown role to have no permissions")
	}
}

func TestRolePermissionsNonEmpty(t *testing.T) {
	for role, perms := range RolePermissions {
		if len(perms) == 0 {
			t.Fatalf("role %s has no permissions", role)
		}
	}
}

func TestEmployeeIsReadOnly(t *testing.T) {
	writes := []string{PermEmployeesWrite, PermOrgWrite, PermOffboardingWrite, PermOffboardingFinalize}
	for _, perm := range writes {
		if HasPermission(RoleEmployee, perm) {
			t.Fatalf("expected Employee to lack %s", perm)
		}
	}
}
