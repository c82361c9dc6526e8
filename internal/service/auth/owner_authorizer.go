// Package auth holds authorization policies for stored resources.
package auth

import (
	"context"
	"fmt"

	"signpost/internal/domain"
	"signpost/internal/domain/repositories"
	"signpost/internal/domain/services"
)

// OwnerBasedAuthorizer implements ResourceAuthorizer using ownership checks.
// A user can modify a site they created. Sites without a creator (seeded,
// or created while authentication was off) can be modified by anyone
// authenticated.
type OwnerBasedAuthorizer struct {
	siteRepo repositories.SiteRepository
}

// NewOwnerBasedAuthorizer creates a new ownership-based authorizer
func NewOwnerBasedAuthorizer(siteRepo repositories.SiteRepository) *OwnerBasedAuthorizer {
	return &OwnerBasedAuthorizer{siteRepo: siteRepo}
}

var _ services.ResourceAuthorizer = (*OwnerBasedAuthorizer)(nil)

// CanModifySite checks if user created the site. An empty userID means
// authentication is disabled and is always allowed.
func (a *OwnerBasedAuthorizer) CanModifySite(ctx context.Context, userID, siteID string) error {
	if userID == "" {
		return nil
	}

	site, err := a.siteRepo.GetByID(ctx, siteID)
	if err != nil {
		return err
	}

	if site.CreatedBy != "" && site.CreatedBy != userID {
		return fmt.Errorf("access denied to site %s: %w", siteID, domain.ErrForbidden)
	}
	return nil
}
