package auth

import "github.com/micollege/elms/internal/domain"

// Authorize decides whether identity may perform an action restricted to the
// required roles, optionally scoped to a department's data.
//
// Admins pass unconditionally. A department head passes only when
// resourceDepartment is empty or matches their own department. Any other
// role mismatch is a plain forbidden.
func Authorize(identity *Claims, required []domain.Role, resourceDepartment string) error {
	if identity == nil {
		return domain.ErrUnauthenticated
	}

	if identity.Role == domain.RoleAdmin {
		return nil
	}

	allowed := false
	for _, r := range required {
		if identity.Role == r {
			allowed = true
			break
		}
	}
	if !allowed {
		return domain.ErrForbidden
	}

	if identity.Role == domain.RoleHOD && resourceDepartment != "" && resourceDepartment != identity.Department {
		return domain.ErrCrossDepartment
	}
	return nil
}
