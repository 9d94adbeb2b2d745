package services

import (
	"context"

	"github.com/desertthunder/logomatch/internal/models"
)

// Fetcher retrieves the directory listing that candidates are harvested from.
type Fetcher interface {
	// Fetch returns the listing body at location.
	// Returns an error wrapping [shared.ErrAPIRequest] when a remote listing answers with a non-2xx status.
	Fetch(ctx context.Context, location string) (string, error)
}

// Verifier checks that matched logo references resolve.
type Verifier interface {
	// Verify returns the unreachable references of matches keyed to the reason.
	// Only context errors are returned as err.
	Verify(ctx context.Context, matches *models.MatchSet) (map[string]error, error)
}

var (
	_ Fetcher  = (*ListingService)(nil)
	_ Verifier = (*LogoVerifier)(nil)
)
