package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"
)

// ErrSourceUnavailable marks a network-level failure reaching an external
// source: connection refused, DNS failure, or the per-fetch timeout.
var ErrSourceUnavailable = errors.New("external source unavailable")

// ErrSourceInvalid marks a source that answered but with an unusable
// payload: a non-200 status or a body that does not decode.
var ErrSourceInvalid = errors.New("external source returned an invalid payload")

// newHTTPClient builds the shared client for both fetchers. The overall
// request deadline comes from the per-fetch context; the transport adds
// connection-level bounds underneath it.
func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   timeout,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			ForceAttemptHTTP2:     true,
			MaxIdleConns:          10,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   timeout,
			ExpectContinueTimeout: 1 * time.Second,
			ResponseHeaderTimeout: timeout,
		},
	}
}

// fetchJSON performs a GET against url within the per-fetch timeout and
// decodes the body into out, classifying failures into the source error
// taxonomy.
func fetchJSON(ctx context.Context, client *http.Client, url string, timeout time.Duration, out any) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrSourceUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: unexpected status %d from %s", ErrSourceInvalid, resp.StatusCode, url)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %s", ErrSourceInvalid, err)
	}

	return nil
}
