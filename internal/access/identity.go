package access

import (
	"github.com/google/uuid"

	"github.com/vetcare/clinic-api/internal/model"
	"github.com/vetcare/clinic-api/pkg/apperror"
	"github.com/vetcare/clinic-api/pkg/auth"
)

// Identity is the resolved principal for one request. Built once from the
// bearer credential and immutable afterwards.
type Identity struct {
	UserID   uuid.UUID
	Role     model.Role
	ClinicID *uuid.UUID
	OwnerID  *uuid.UUID
}

func (i Identity) IsStaff() bool { return i.Role.IsStaff() }

// RequireOwnerID returns the owner scope for OWNER-role identities, failing
// closed when the credential carries none.
func (i Identity) RequireOwnerID() (uuid.UUID, error) {
	if i.Role != model.RoleOwner || i.OwnerID == nil {
		return uuid.Nil, apperror.Forbidden("access denied")
	}
	return *i.OwnerID, nil
}

// Scope is the row-level predicate applied to list queries. For OWNER
// identities the owner id restricts rows; staff are restricted by clinic only.
type Scope struct {
	ClinicID *uuid.UUID
	OwnerID  *uuid.UUID
}

// ListScope builds the list predicate for the identity. An OWNER credential
// without an owner id yields a scope that matches nothing.
func (i Identity) ListScope() Scope {
	if i.Role == model.RoleOwner {
		if i.OwnerID == nil {
			nothing := uuid.Nil
			return Scope{OwnerID: &nothing}
		}
		return Scope{OwnerID: i.OwnerID}
	}
	return Scope{ClinicID: i.ClinicID}
}

// IdentityFromClaims converts verified credential claims into an Identity.
func IdentityFromClaims(claims *auth.Claims) (Identity, error) {
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return Identity{}, apperror.InvalidCredential("invalid subject", err)
	}

	role := model.Role(claims.Role)
	if !role.Valid() {
		return Identity{}, apperror.InvalidCredential("invalid role", nil)
	}

	id := Identity{UserID: userID, Role: role}

	if claims.ClinicID != "" {
		clinicID, err := uuid.Parse(claims.ClinicID)
		if err != nil {
			return Identity{}, apperror.InvalidCredential("invalid clinic scope", err)
		}
		id.ClinicID = &clinicID
	}
	if claims.OwnerID != "" {
		ownerID, err := uuid.Parse(claims.OwnerID)
		if err != nil {
			return Identity{}, apperror.InvalidCredential("invalid owner scope", err)
		}
		id.OwnerID = &ownerID
	}

	return id, nil
}
