// Package netx holds HTTP helpers that talk to URLs outside the API, such
// as presigned object storage links.
package netx

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
)

// Download GETs rawURL with rc and returns the body. Any non-2xx status is
// an error carrying the status and body. Credentials configured on
// individual requests are never sent, so rc may be shared with an API client.
func Download(ctx context.Context, rc *resty.Client, rawURL string) ([]byte, error) {
	resp, err := rc.R().SetContext(ctx).Get(rawURL)
	if err != nil {
		return nil, fmt.Errorf("download: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("download failed: %s; body: %s", resp.Status(), resp.String())
	}
	return resp.Body(), nil
}
