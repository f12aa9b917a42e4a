package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

var httpClient = &http.Client{Timeout: 10 * time.Second}

// adminGet performs an authenticated GET against path (relative to
// serverAddr) with the given query values, and decodes the JSON body into
// out.
func adminGet(path string, query url.Values, out any) error {
	if adminToken == "" {
		return fmt.Errorf("no admin token: pass --token or set CLNP_ADMIN_TOKEN")
	}

	u := serverAddr + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequest(http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+adminToken)

	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s: %w", serverAddr, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server returned %s: %s", resp.Status, body)
	}
	return json.Unmarshal(body, out)
}
