package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/desertthunder/logomatch/internal/shared"
)

// maxListingSize caps how much of a listing body is read.
const maxListingSize = 32 << 20

// ListingService fetches the HTML directory listing that logos are harvested from.
type ListingService struct {
	httpClient *http.Client
	userAgent  string
}

// NewListingService creates a listing fetcher. A nil client uses [http.DefaultClient].
func NewListingService(client *http.Client, userAgent string) *ListingService {
	if client == nil {
		client = http.DefaultClient
	}
	return &ListingService{httpClient: client, userAgent: userAgent}
}

// Fetch returns the listing at location as text.
//
// http and https locations are fetched with GET. file:// URLs and plain paths are read from disk.
func (s *ListingService) Fetch(ctx context.Context, location string) (string, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return "", fmt.Errorf("%w: listing url is required", shared.ErrMissingArgument)
	}

	u, err := url.Parse(location)
	if err != nil {
		return "", fmt.Errorf("%w: invalid listing url %q: %v", shared.ErrInvalidArgument, location, err)
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return s.get(ctx, location)
	case "file":
		return readListing(u.Path)
	case "":
		return readListing(location)
	default:
		if len(u.Scheme) == 1 {
			// Windows drive letter
			return readListing(location)
		}
		return "", fmt.Errorf("%w: unsupported listing scheme %q", shared.ErrInvalidArgument, u.Scheme)
	}
}

func (s *ListingService) get(ctx context.Context, location string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("%w: %v", shared.ErrTimeout, err)
		}
		return "", fmt.Errorf("%w: request failed: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: %s returned status %d", shared.ErrAPIRequest, location, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxListingSize))
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	return string(body), nil
}

func readListing(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read listing: %w", err)
	}
	return string(data), nil
}

// ListingBase returns the prefix that harvested hrefs are joined to.
func ListingBase(location string) string {
	return strings.TrimRight(strings.TrimSpace(location), "/")
}
