package utils

// Permission levels
const (
	DeveloperPermission = "developer"
	AdminPermission     = "admin"
	GuestPermission     = "guest"
)

// contains checks if a slice of strings contains an element.
func contains(slice []string, item string) bool {
	for _, a := range slice {
		if a == item {
			return true
		}
	}
	return false
}

// CheckPermission returns the highest permission level for a member given
// their role IDs and the configured admin roles.
func CheckPermission(memberRoleIDs []string, userID string, adminRoleIDs, developerUserIDs []string) string {
	if contains(developerUserIDs, userID) {
		return DeveloperPermission
	}

	for _, roleID := range memberRoleIDs {
		if contains(adminRoleIDs, roleID) {
			return AdminPermission
		}
	}

	return GuestPermission
}
