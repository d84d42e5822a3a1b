package auth

import (
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	apperrors "neighborconnect/internal/errors"
	"neighborconnect/internal/metrics"
)

// NormalizeID renders an id as a lowercase hex string so ObjectIDs and their
// string forms compare equal.
func NormalizeID(v interface{}) string {
	switch id := v.(type) {
	case primitive.ObjectID:
		if id.IsZero() {
			return ""
		}
		return id.Hex()
	case *primitive.ObjectID:
		if id == nil {
			return ""
		}
		return NormalizeID(*id)
	case string:
		return strings.ToLower(strings.TrimSpace(id))
	case fmt.Stringer:
		return NormalizeID(id.String())
	default:
		return ""
	}
}

// SameID reports whether a and b refer to the same record. Empty ids never
// match.
func SameID(a, b interface{}) bool {
	na, nb := NormalizeID(a), NormalizeID(b)
	return na != "" && na == nb
}

// RequireSelf allows the caller to act only on their own user record.
func RequireSelf(id *Identity, targetUserID interface{}, message string) error {
	if id == nil || !SameID(id.ID, targetUserID) {
		metrics.AuthzDenied.WithLabelValues("self").Inc()
		return apperrors.Forbidden(message)
	}
	return nil
}

// RequireOwner allows the caller to act only on resources they created.
func RequireOwner(id *Identity, ownerID interface{}, message string) error {
	if id == nil || !SameID(id.ID, ownerID) {
		metrics.AuthzDenied.WithLabelValues("owner").Inc()
		return apperrors.Forbidden(message)
	}
	return nil
}
