package services

import "context"

// ResourceAuthorizer checks if a user can change resources.
// Current implementation: ownership-based (user created the site).
//
// Handlers call the authorizer before write operations; reads are public.
type ResourceAuthorizer interface {
	// CanModifySite checks if user can rename, replace or delete a site
	CanModifySite(ctx context.Context, userID, siteID string) error
}
