package types

import "testing"

func TestIsValidRole(t *testing.T) {
	for _, role := range AvailableUserRoles {
		if !IsValidRole(role) {
			t.Errorf("%q should be valid", role)
		}
	}

	for _, role := range []string{"", "superuser", "Admin", "ADMIN", "project_admin"} {
		if IsValidRole(role) {
			t.Errorf("%q should be invalid", role)
		}
	}
}

func TestIsValidTaskStatus(t *testing.T) {
	for _, status := range AvailableTaskStatus {
		if !IsValidTaskStatus(status) {
			t.Errorf("%q should be valid", status)
		}
	}

	if IsValidTaskStatus("archived") {
		t.Error("\"archived\" should be invalid")
	}
}

func TestIsValidTaskPriority(t *testing.T) {
	for _, priority := range AvailableTaskPriority {
		if !IsValidTaskPriority(priority) {
			t.Errorf("%q should be valid", priority)
		}
	}

	if IsValidTaskPriority("urgent") {
		t.Error("\"urgent\" should be invalid")
	}
}
