package domain

// Permission mirrors the browser notification permission states.
type Permission string

const (
	PermissionDefault Permission = "default"
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
)

func (p Permission) String() string {
	return string(p)
}

func (p Permission) IsGranted() bool {
	return p == PermissionGranted
}

func ParsePermission(s string) (Permission, error) {
	switch Permission(s) {
	case PermissionDefault, PermissionGranted, PermissionDenied:
		return Permission(s), nil
	default:
		return "", ErrInvalidPermission
	}
}
