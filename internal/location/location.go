// Package location acquires the device's position from a geolocation HTTP
// endpoint.
package location

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"yckf-go/internal/config"
	"yckf-go/internal/safebox"
)

// HTTPProvider queries a configured endpoint that answers with a JSON body of
// the form {"latitude": .., "longitude": .., "accuracy": ..}. An unconfigured
// endpoint reports "unavailable" (nil fix, nil error) rather than failing.
type HTTPProvider struct {
	endpoint string
	client   *http.Client
	clock    safebox.Clock
}

// NewHTTPProvider creates a provider for the configured endpoint.
func NewHTTPProvider(cfg config.LocationConfig, clock safebox.Clock) *HTTPProvider {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPProvider{
		endpoint: cfg.Endpoint,
		client:   &http.Client{Timeout: timeout},
		clock:    clock,
	}
}

// CurrentLocation fetches the current fix. A nil result with nil error means
// no endpoint is configured.
func (p *HTTPProvider) CurrentLocation(ctx context.Context) (*safebox.Location, error) {
	if p.endpoint == "" {
		return nil, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("building location request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("querying location endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("location endpoint returned %s", resp.Status)
	}

	var loc safebox.Location
	if err := json.NewDecoder(resp.Body).Decode(&loc); err != nil {
		return nil, fmt.Errorf("decoding location response: %w", err)
	}
	loc.Timestamp = p.clock.Now().UnixMilli()
	return &loc, nil
}

// Compile-time check that HTTPProvider implements the LocationProvider interface
var _ safebox.LocationProvider = (*HTTPProvider)(nil)
