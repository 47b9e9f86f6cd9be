package service

import (
	"context"

	"github.com/noah-isme/usercoursecontrol-api/internal/models"
	appErrors "github.com/noah-isme/usercoursecontrol-api/pkg/errors"
)

// Authorizer decides whether an actor holds a capability in a scope.
type Authorizer interface {
	Can(ctx context.Context, actor models.Actor, capability string, scope models.Scope) (bool, error)
}

type capabilityReader interface {
	HasCapability(ctx context.Context, userID int64, capability string, scope models.Scope) (bool, error)
}

// CapabilityAuthorizer grants site admins everything and otherwise consults role capabilities.
type CapabilityAuthorizer struct {
	repo       capabilityReader
	siteAdmins map[int64]struct{}
}

// NewCapabilityAuthorizer constructs the default authorizer.
func NewCapabilityAuthorizer(repo capabilityReader, siteAdmins []int64) *CapabilityAuthorizer {
	admins := make(map[int64]struct{}, len(siteAdmins))
	for _, id := range siteAdmins {
		admins[id] = struct{}{}
	}
	return &CapabilityAuthorizer{repo: repo, siteAdmins: admins}
}

// Can implements Authorizer.
func (a *CapabilityAuthorizer) Can(ctx context.Context, actor models.Actor, capability string, scope models.Scope) (bool, error) {
	if _, ok := a.siteAdmins[actor.UserID]; ok {
		return true, nil
	}
	if actor.UserID <= 0 {
		return false, nil
	}
	return a.repo.HasCapability(ctx, actor.UserID, capability, scope)
}

func requireCapability(ctx context.Context, auth Authorizer, actor models.Actor, capability string, scope models.Scope) error {
	ok, err := auth.Can(ctx, actor, capability, scope)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check capability")
	}
	if !ok {
		return appErrors.Clone(appErrors.ErrForbidden, "missing capability "+capability)
	}
	return nil
}
