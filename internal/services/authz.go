package services

import (
	"context"
	"fmt"

	"github.com/theChristopher16/pack1703-portal-sub002/internal/domain"
)

type authorizer struct {
	roleRepo domain.RoleRepository
}

// NewAuthorizer returns an Authorizer backed by the role repository.
// Admins pass every permission check.
func NewAuthorizer(roleRepo domain.RoleRepository) domain.Authorizer {
	return &authorizer{roleRepo: roleRepo}
}

func (a *authorizer) IsAdmin(ctx context.Context, userID string) (bool, error) {
	roles, err := a.roleRepo.ListByUserID(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("list roles: %w", err)
	}
	for _, r := range roles {
		if r.Code == domain.RoleAdmin {
			return true, nil
		}
	}
	return false, nil
}

func (a *authorizer) HasPermission(ctx context.Context, userID, permission string) (bool, error) {
	admin, err := a.IsAdmin(ctx, userID)
	if err != nil {
		return false, err
	}
	if admin {
		return true, nil
	}
	perms, err := a.roleRepo.ListPermissionsByUserID(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("list permissions: %w", err)
	}
	for _, p := range perms {
		if p == permission {
			return true, nil
		}
	}
	return false, nil
}
