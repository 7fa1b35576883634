// Package authz holds the access-control checks the services run before
// touching owned resources. Handlers authenticate; services authorize.
package authz

import (
	"fmt"

	"eduquiz/internal/domain"
)

// RequireOwner allows access when the caller owns the resource or holds the
// admin role. Any other caller gets a forbidden error that does not reveal
// whether the resource exists.
func RequireOwner(caller domain.Caller, ownerID string) error {
	if caller.IsAdmin() {
		return nil
	}
	if caller.ID == ownerID {
		return nil
	}
	return domain.NewForbiddenError("You do not have access to this resource")
}

// RequireRole allows access when the caller holds one of the given roles.
// Admins pass every role check.
func RequireRole(caller domain.Caller, roles ...domain.Role) error {
	if caller.IsAdmin() {
		return nil
	}
	for _, role := range roles {
		if caller.Role == role {
			return nil
		}
	}
	return domain.NewForbiddenError(fmt.Sprintf("Role %q is not allowed to perform this action", caller.Role))
}
