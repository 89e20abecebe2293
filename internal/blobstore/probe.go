package blobstore

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dropgate-systems/dropgate/internal/identity"
	"github.com/dropgate-systems/dropgate/internal/metrics"
)

// HTTPProber checks blob existence with an authenticated HEAD request.
type HTTPProber struct {
	client *http.Client
	cred   identity.Credential
}

// NewHTTPProber creates a prober. cred may be nil for anonymous access.
func NewHTTPProber(cred identity.Credential, timeout time.Duration) *HTTPProber {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPProber{
		client: &http.Client{Timeout: timeout},
		cred:   cred,
	}
}

// Exists issues a HEAD request against the blob URL. A 404 means the blob
// is gone; any other non-2xx status is a transient failure.
func (p *HTTPProber) Exists(ctx context.Context, blobURL string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, blobURL, nil)
	if err != nil {
		return false, fmt.Errorf("build probe request: %w", err)
	}

	if p.cred != nil {
		token, err := p.cred.Token(ctx)
		switch {
		case err == nil:
			req.Header.Set("Authorization", "Bearer "+token)
		case errors.Is(err, identity.ErrNoCredential):
			// Anonymous probe; public containers still answer HEAD.
		default:
			return false, fmt.Errorf("resolve credential: %w", err)
		}
	}

	start := time.Now()
	resp, err := p.client.Do(req)
	metrics.ProbeDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return false, fmt.Errorf("probe request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return false, nil
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return true, nil
	default:
		return false, fmt.Errorf("probe returned status %d", resp.StatusCode)
	}
}
