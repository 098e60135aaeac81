package ingest

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"newscast/internal/services"
)

// get performs an HTTP GET with the configured user agent and returns the
// response body. Non-2xx responses are errors.
func (ing *Ingestor) get(ctx context.Context, url string, headers map[string]string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "ingest", "get", "build request", err)
	}
	req.Header.Set("User-Agent", ing.cfg.Ingest.UserAgent)
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := ing.client.Do(req)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "ingest", "get", fmt.Sprintf("fetch %s", url), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, services.Wrap(services.ErrTransient, "ingest", "get",
			fmt.Sprintf("fetch %s: unexpected status %d", url, resp.StatusCode), nil)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "ingest", "get", fmt.Sprintf("read %s", url), err)
	}
	return body, nil
}
