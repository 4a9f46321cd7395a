package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// getJSON issues a GET and decodes the JSON response into out, with a
// single retry when the failure was a timeout.
func getJSON(ctx context.Context, client *http.Client, url string, headers map[string]string, out any) error {
	do := func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		for k, v := range headers {
			req.Header.Set(k, v)
		}
		return client.Do(req)
	}

	resp, err := do()
	if err != nil {
		if isTimeout(err) {
			resp, err = do()
		}
		if err != nil {
			return err
		}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("http status: %s", resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// isTimeout returns true if the error represents a timeout
func isTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
