package policies

import (
	"staybnb/internal/app/fault"
	"staybnb/internal/domain/user"
)

// Principal is the authenticated actor attached to a request by the identity
// layer. Role and ownership checks go through this package rather than
// ad hoc comparisons in handlers.
type Principal struct {
	ID   user.ID
	Role user.Role
}

func (p Principal) Is(role user.Role) bool {
	return p.Role == role
}

// RequireRole fails with an authorization fault unless the principal holds
// the role. Admins pass every role gate.
func RequireRole(p Principal, role user.Role) error {
	if p.Is(role) || p.Is(user.RoleAdmin) {
		return nil
	}
	return fault.Authorizationf("%s access required", role)
}

// RequireOwner fails unless the principal is the owner of the resource.
func RequireOwner(p Principal, ownerID user.ID) error {
	if p.ID == ownerID {
		return nil
	}
	return fault.Authorizationf("not authorized for this resource")
}
