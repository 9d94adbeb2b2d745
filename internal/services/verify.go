package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/logomatch/internal/models"
	"github.com/desertthunder/logomatch/internal/shared"
	"golang.org/x/time/rate"
)

// LogoVerifier checks that matched logo references can be fetched.
type LogoVerifier struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	userAgent  string
	logger     *log.Logger
}

// VerifierOpts configures a [LogoVerifier].
type VerifierOpts struct {
	RequestsPerSecond float64 // Zero or less disables rate limiting
	Burst             int
	UserAgent         string
}

// NewLogoVerifier creates a verifier. A nil client uses [http.DefaultClient].
func NewLogoVerifier(client *http.Client, logger *log.Logger, opts VerifierOpts) *LogoVerifier {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}
	burst := max(opts.Burst, 1)

	return &LogoVerifier{
		httpClient: client,
		limiter:    rate.NewLimiter(limit, burst),
		userAgent:  opts.UserAgent,
		logger:     logger,
	}
}

// Verify probes every distinct reference in matches once and returns the unreachable ones with the reason.
//
// Remote references are probed with HEAD, retried as GET when the server answers 405.
// Local references are checked on disk. The only error returned is the context's.
func (v *LogoVerifier) Verify(ctx context.Context, matches *models.MatchSet) (map[string]error, error) {
	checked := make(map[string]bool)
	unreachable := make(map[string]error)

	for _, m := range matches.All() {
		if checked[m.Reference] {
			continue
		}
		checked[m.Reference] = true

		if err := v.limiter.Wait(ctx); err != nil {
			return unreachable, err
		}

		if err := v.check(ctx, m.Reference); err != nil {
			if ctx.Err() != nil {
				return unreachable, ctx.Err()
			}
			v.logger.Debug("logo unreachable", "reference", m.Reference, "error", err)
			unreachable[m.Reference] = err
		}
	}

	return unreachable, nil
}

func (v *LogoVerifier) check(ctx context.Context, ref string) error {
	u, err := url.Parse(ref)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
	case "file":
		return statLogo(u.Path)
	default:
		return statLogo(ref)
	}

	status, err := v.probe(ctx, http.MethodHead, ref)
	if err != nil {
		return err
	}
	if status == http.StatusMethodNotAllowed {
		if status, err = v.probe(ctx, http.MethodGet, ref); err != nil {
			return err
		}
	}
	if status < 200 || status > 299 {
		return fmt.Errorf("%w: status %d", shared.ErrAPIRequest, status)
	}
	return nil
}

func (v *LogoVerifier) probe(ctx context.Context, method, ref string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, method, ref, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	if v.userAgent != "" {
		req.Header.Set("User-Agent", v.userAgent)
	}

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	return resp.StatusCode, nil
}

func statLogo(path string) error {
	if p, err := url.PathUnescape(path); err == nil {
		if _, err := os.Stat(p); err == nil {
			return nil
		}
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
	}
	return nil
}
