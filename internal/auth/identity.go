package auth

import (
	"github.com/labstack/echo/v4"

	"neighborconnect/internal/model"
)

const identityKey = "identity"

// Identity is the authenticated caller for the current request. Role comes
// from the user record, not the token, so demotions apply immediately.
type Identity struct {
	ID        string
	Role      model.Role
	CSRFToken string
}

// IsAdmin reports whether the caller holds the admin role.
func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == model.RoleAdmin
}

// SetIdentity stores the identity on the request context.
func SetIdentity(c echo.Context, id *Identity) {
	c.Set(identityKey, id)
}

// IdentityFrom returns the identity set by Authenticate.
func IdentityFrom(c echo.Context) (*Identity, bool) {
	id, ok := c.Get(identityKey).(*Identity)
	return id, ok && id != nil
}
