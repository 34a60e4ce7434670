package domain

const (
	RoleDriver    = "driver"
	RolePassenger = "passenger"
)

// Counterpart returns the opposite role: the partition a user discovers
// peers in. Drivers watch passengers and vice versa.
func Counterpart(role string) string {
	if role == RoleDriver {
		return RolePassenger
	}
	return RoleDriver
}

// ValidRole reports whether role is one of the two known partitions.
func ValidRole(role string) bool {
	return role == RoleDriver || role == RolePassenger
}

// Driver document upload fields. Each maps to one credential URL column.
const (
	DocumentDriverLicense   = "driver_license"
	DocumentBackgroundCheck = "background_check"
)
